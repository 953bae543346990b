package xsd2fhir

// Package xsd2fhir converts XML Schema type declarations into FHIR logical
// model StructureDefinitions.
//
// - Every named simple and complex type becomes one logical definition with an ordered snapshot
// - Built-in schema types map onto a base-type library (embedded, or loaded from a directory)
// - Derived types that add nothing collapse onto their base, governed by Options
// - Failures carry a stable code (see package errors) naming the offending qualified type
//
// Design policy:
// - Keep only public APIs in the root package; the resolution engine lives under internal/engine.
// - Place the schema model under xsd/, the target model and its codecs under fhir/, and the CLI under cmd/xsd2fhir.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  schema, err := xsd.NewLoader(nil).Load(ctx, "file:///models/person.xsd")
//  lib, err := fhir.DefaultLibrary()
//  res, diag, err := xsd2fhir.Convert(ctx, schema, lib, opts)
//
//  report, diag, err := xsd2fhir.Run(ctx, nil, xsd2fhir.Job{SourceURL: src, DestURL: dst}, opts)
//
