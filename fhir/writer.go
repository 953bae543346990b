package fhir

import (
	"bytes"
	"context"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/reoring/xsd2fhir/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", &errors.Error{Code: errors.CodeInvalidOption, Detail: "format " + s}
}

// Ext returns the file extension, with the leading dot.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Marshal encodes def in format f.
func Marshal(def *StructureDefinition, f Format) ([]byte, error) {
	if f == FormatYAML {
		buf := &bytes.Buffer{}
		enc := yaml.NewEncoder(buf)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Writer emits one document per definition under a destination URL.
type Writer struct {
	fs     afs.Service
	format Format
}

// NewWriter creates a writer. A nil fs uses afs.New().
func NewWriter(fs afs.Service, format Format) *Writer {
	if fs == nil {
		fs = afs.New()
	}
	if format == "" {
		format = FormatJSON
	}
	return &Writer{fs: fs, format: format}
}

// Write stores each definition at <destURL>/<id><ext>, in id order, and
// returns the written URLs.
func (w *Writer) Write(ctx context.Context, destURL string, defs []*StructureDefinition) ([]string, error) {
	sorted := append([]*StructureDefinition(nil), defs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	if ok, _ := w.fs.Exists(ctx, destURL); !ok {
		if err := w.fs.Create(ctx, destURL, file.DefaultDirOsMode, true); err != nil {
			return nil, &errors.Error{Code: errors.CodeOutputWrite, Detail: destURL, Cause: err}
		}
	}
	written := make([]string, 0, len(sorted))
	for _, def := range sorted {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		target := url.Join(destURL, def.ID+w.format.Ext())
		data, err := Marshal(def, w.format)
		if err != nil {
			return written, &errors.Error{Code: errors.CodeOutputWrite, Type: def.URL, Detail: target, Cause: err}
		}
		if err := w.fs.Upload(ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return written, &errors.Error{Code: errors.CodeOutputWrite, Type: def.URL, Detail: target, Cause: err}
		}
		written = append(written, target)
	}
	return written, nil
}
