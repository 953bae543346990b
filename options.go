package xsd2fhir

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/internal/engine"
)

// Placeholder metadata stamped when no publisher details are configured.
const (
	DefaultPublisher        = "TODO: Publisher"
	DefaultPublisherContact = "TODO: Contact"
	DefaultPublisherURL     = "http://hl7.org/fhir"
	DefaultDescription      = "TODO: Description"
)

// AliasPolicy picks the alias of a namespace that has no explicit alias.
type AliasPolicy = engine.AliasPolicy

// Options controls a conversion.
type Options struct {
	// GenerateSimpleTypeExtensions and GenerateSimpleTypeRestrictions each
	// keep restricted simple types instead of collapsing them to their base.
	GenerateSimpleTypeExtensions   bool
	GenerateSimpleTypeRestrictions bool
	// GenerateEmptyComplexTypes keeps derived complex types that add no
	// members.
	GenerateEmptyComplexTypes bool

	Publisher        string
	PublisherContact string
	PublisherURL     string

	// ModelName aliases the target namespace and every namespace without an
	// explicit alias. Empty leaves names unqualified.
	ModelName        string
	NamespaceAliases map[string]string
	AliasPolicy      AliasPolicy

	// FHIRVersion is stamped into every definition. Empty takes the version
	// of the first base-type library definition.
	FHIRVersion        string
	DefaultDescription string

	Now    func() time.Time
	Logger *zap.Logger
}

// DefaultOptions returns options with the placeholder publisher metadata.
func DefaultOptions() Options {
	return Options{
		Publisher:          DefaultPublisher,
		PublisherContact:   DefaultPublisherContact,
		PublisherURL:       DefaultPublisherURL,
		DefaultDescription: DefaultDescription,
	}
}

// Validate checks option values.
func (o Options) Validate() error {
	if o.FHIRVersion != "" {
		if _, err := semver.NewVersion(o.FHIRVersion); err != nil {
			return &errors.Error{Code: errors.CodeInvalidOption, Detail: fmt.Sprintf("fhir version %q", o.FHIRVersion), Cause: err}
		}
	}
	if strings.Contains(o.ModelName, ".") {
		return &errors.Error{Code: errors.CodeInvalidOption, Detail: fmt.Sprintf("model name %q contains '.'", o.ModelName)}
	}
	for ns, alias := range o.NamespaceAliases {
		if strings.Contains(alias, ".") {
			return &errors.Error{Code: errors.CodeInvalidOption, Detail: fmt.Sprintf("alias %q of %q contains '.'", alias, ns)}
		}
	}
	return nil
}

func (o Options) engineOptions() engine.Options {
	if o.DefaultDescription == "" {
		o.DefaultDescription = DefaultDescription
	}
	return engine.Options{
		GenerateSimpleTypeExtensions:   o.GenerateSimpleTypeExtensions,
		GenerateSimpleTypeRestrictions: o.GenerateSimpleTypeRestrictions,
		GenerateEmptyComplexTypes:      o.GenerateEmptyComplexTypes,
		Publisher:                      o.Publisher,
		PublisherContact:               o.PublisherContact,
		PublisherURL:                   o.PublisherURL,
		ModelName:                      o.ModelName,
		NamespaceAliases:               o.NamespaceAliases,
		AliasPolicy:                    o.AliasPolicy,
		FHIRVersion:                    o.FHIRVersion,
		DefaultDescription:             o.DefaultDescription,
		Now:                            o.Now,
		Logger:                         o.Logger,
	}
}

// Diag carries non-fatal warnings produced during conversion.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool  { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string { return append([]string(nil), d.ws...) }
