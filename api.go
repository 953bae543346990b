package xsd2fhir

import (
	"context"

	"go.uber.org/zap"

	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/internal/engine"
	"github.com/reoring/xsd2fhir/xsd"
)

// Result holds the definitions produced by one conversion.
type Result struct {
	// Definitions are distinct and sorted by id.
	Definitions []*fhir.StructureDefinition

	resolver *engine.Resolver
}

// Lookup returns the definition registered under a qualified name
// ("Alias.Local"). A collapsed type returns the definition of its base.
func (r *Result) Lookup(qualified string) (*fhir.StructureDefinition, bool) {
	return r.resolver.Lookup(qualified)
}

// Qualify returns the qualified name ref was registered under.
func (r *Result) Qualify(ref xsd.QName) string {
	return r.resolver.Qualify(ref)
}

// Convert resolves every top-level type of schema against lib. A nil lib uses
// the embedded base-type library. Any error discards the whole pass.
func Convert(ctx context.Context, schema *xsd.Schema, lib *fhir.Library, opts Options) (*Result, Diag, error) {
	d := &simpleDiag{}
	if schema == nil {
		return nil, d, &errors.Error{Code: errors.CodeMissingRequiredArgument, Detail: "schema"}
	}
	if err := opts.Validate(); err != nil {
		return nil, d, err
	}
	if lib == nil {
		var err error
		if lib, err = fhir.DefaultLibrary(); err != nil {
			return nil, d, &errors.Error{Code: errors.CodeLibraryLoad, Detail: "embedded", Cause: err}
		}
	}
	eo := opts.engineOptions()
	if eo.Logger == nil {
		eo.Logger = zap.NewNop()
	}
	r := engine.New(schema, lib, eo)
	defs, err := r.Run(ctx)
	d.ws = r.Warnings()
	if err != nil {
		return nil, d, err
	}
	eo.Logger.Info("converted", zap.Int("definitions", len(defs)), zap.Int("warnings", len(d.ws)))
	return &Result{Definitions: defs, resolver: r}, d, nil
}
