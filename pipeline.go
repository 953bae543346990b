package xsd2fhir

import (
	"context"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/xsd"
)

// Job names the inputs and output of a file-to-file conversion. URLs are
// anything afs understands; plain paths are local files.
type Job struct {
	SourceURL string
	DestURL   string
	// LibraryURL is a directory or document of base-type definitions. Empty
	// uses the embedded library.
	LibraryURL string
	Format     fhir.Format
}

// Report summarizes a finished job.
type Report struct {
	Written     []string
	Definitions int
}

// Run loads the schema and library of job, converts, and writes one document
// per definition under job.DestURL. Nothing is written when conversion fails.
func Run(ctx context.Context, fs afs.Service, job Job, opts Options) (*Report, Diag, error) {
	if job.SourceURL == "" {
		return nil, &simpleDiag{}, &errors.Error{Code: errors.CodeMissingRequiredArgument, Detail: "source"}
	}
	if job.DestURL == "" {
		return nil, &simpleDiag{}, &errors.Error{Code: errors.CodeMissingRequiredArgument, Detail: "dest"}
	}
	if fs == nil {
		fs = afs.New()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	schema, err := xsd.NewLoader(fs).Load(ctx, job.SourceURL)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	log.Debug("schema loaded", zap.String("url", job.SourceURL), zap.Int("types", len(schema.Types())))

	var lib *fhir.Library
	if job.LibraryURL != "" {
		if lib, err = fhir.LoadLibrary(ctx, fs, job.LibraryURL); err != nil {
			return nil, &simpleDiag{}, err
		}
		log.Debug("library loaded", zap.String("url", job.LibraryURL), zap.Int("definitions", lib.Len()))
	}

	res, d, err := Convert(ctx, schema, lib, opts)
	if err != nil {
		return nil, d, err
	}
	written, err := fhir.NewWriter(fs, job.Format).Write(ctx, job.DestURL, res.Definitions)
	if err != nil {
		return nil, d, err
	}
	return &Report{Written: written, Definitions: len(res.Definitions)}, d, nil
}
