package engine

import (
	"strings"

	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/xsd"
)

// definitionBuilder accumulates a definition locally. Nothing is visible to
// other resolutions until build hands back the finished value.
type definitionBuilder struct {
	def      fhir.StructureDefinition
	elements []fhir.ElementDefinition
}

// newBuilder creates the metadata skeleton for t, registered as e.
func (r *Resolver) newBuilder(t xsd.Type, e *entry) *definitionBuilder {
	doc := r.describe(t.Documentation())
	return &definitionBuilder{
		def: fhir.StructureDefinition{
			ResourceType: fhir.ResourceType,
			ID:           e.name,
			URL:          e.url,
			Name:         e.name,
			Display:      e.key,
			Status:       fhir.StatusDraft,
			Publisher:    r.opts.Publisher,
			Contact: []fhir.Contact{{
				Name:    r.opts.PublisherContact,
				Telecom: []fhir.ContactPoint{{System: "url", Value: r.opts.PublisherURL}},
			}},
			Date:        r.date,
			Description: doc,
			FHIRVersion: r.version,
			Kind:        fhir.KindLogical,
			Abstract:    false,
		},
		elements: []fhir.ElementDefinition{{
			Path:       e.name,
			Short:      e.name,
			Definition: doc,
			Min:        0,
			Max:        fhir.Unbounded,
		}},
	}
}

// base links the definition and its root element to base.
func (b *definitionBuilder) base(base *entry) {
	if base == nil {
		return
	}
	b.def.Base = base.url
	link := base.root()
	b.elements[0].Type = []fhir.TypeRef{{Code: base.name}}
	b.elements[0].Base = &link
}

func (b *definitionBuilder) add(members ...fhir.ElementDefinition) {
	b.elements = append(b.elements, members...)
}

// members is the number of elements beyond the root.
func (b *definitionBuilder) members() int {
	return len(b.elements) - 1
}

func (b *definitionBuilder) build() *fhir.StructureDefinition {
	def := b.def
	def.Snapshot = &fhir.Snapshot{Element: append([]fhir.ElementDefinition(nil), b.elements...)}
	return &def
}

// describe returns doc, or the configured fallback when doc is blank.
func (r *Resolver) describe(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return r.opts.DefaultDescription
	}
	return doc
}

// shortOf is the text before the first '.', or the whole text.
func shortOf(doc string) string {
	if i := strings.IndexByte(doc, '.'); i >= 0 {
		return strings.TrimSpace(doc[:i])
	}
	return doc
}
