// Package fhir holds the target model (StructureDefinition and its snapshot
// elements), the base-type library the conversion maps built-in types onto,
// and a writer that emits one file per definition.
package fhir

// Kind is the StructureDefinition kind.
type Kind string

// KindLogical is the kind of every generated definition. Library documents
// carry their own kinds.
const KindLogical Kind = "logical"

// StatusDraft is the status stamped into generated definitions.
const StatusDraft = "draft"

// ResourceType is the resourceType of every definition.
const ResourceType = "StructureDefinition"

// StructureDefinition is a named, versioned type definition with an ordered
// snapshot of element definitions.
type StructureDefinition struct {
	ResourceType string    `json:"resourceType" yaml:"resourceType"`
	ID           string    `json:"id,omitempty" yaml:"id,omitempty"`
	URL          string    `json:"url,omitempty" yaml:"url,omitempty"`
	Name         string    `json:"name" yaml:"name"`
	Display      string    `json:"display,omitempty" yaml:"display,omitempty"`
	Status       string    `json:"status,omitempty" yaml:"status,omitempty"`
	Publisher    string    `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Contact      []Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
	Date         string    `json:"date,omitempty" yaml:"date,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	FHIRVersion  string    `json:"fhirVersion,omitempty" yaml:"fhirVersion,omitempty"`
	Kind         Kind      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Abstract     bool      `json:"abstract" yaml:"abstract"`
	Base         string    `json:"base,omitempty" yaml:"base,omitempty"`
	Snapshot     *Snapshot `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

// Snapshot is the full ordered element list of a definition.
type Snapshot struct {
	Element []ElementDefinition `json:"element" yaml:"element"`
}

// Contact is a publisher contact.
type Contact struct {
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Telecom []ContactPoint `json:"telecom,omitempty" yaml:"telecom,omitempty"`
}

// ContactPoint is a telecom entry of a contact.
type ContactPoint struct {
	System string `json:"system,omitempty" yaml:"system,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}

// ElementDefinition is one member of a definition's snapshot.
type ElementDefinition struct {
	Path       string       `json:"path" yaml:"path"`
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`
	Short      string       `json:"short,omitempty" yaml:"short,omitempty"`
	Definition string       `json:"definition,omitempty" yaml:"definition,omitempty"`
	Min        int          `json:"min" yaml:"min"`
	Max        string       `json:"max" yaml:"max"`
	Type       []TypeRef    `json:"type,omitempty" yaml:"type,omitempty"`
	Base       *ElementBase `json:"base,omitempty" yaml:"base,omitempty"`
}

// TypeRef is a referenced-type code.
type TypeRef struct {
	Code string `json:"code" yaml:"code"`
}

// ElementBase links an element to the element it overrides in the base
// definition.
type ElementBase struct {
	Path string `json:"path" yaml:"path"`
	Min  int    `json:"min" yaml:"min"`
	Max  string `json:"max" yaml:"max"`
}

// Unbounded is the max sentinel for an unbounded upper cardinality.
const Unbounded = "*"

// Root returns the first snapshot element, or nil.
func (d *StructureDefinition) Root() *ElementDefinition {
	if d.Snapshot == nil || len(d.Snapshot.Element) == 0 {
		return nil
	}
	return &d.Snapshot.Element[0]
}

// Elements returns the snapshot elements, or nil.
func (d *StructureDefinition) Elements() []ElementDefinition {
	if d.Snapshot == nil {
		return nil
	}
	return d.Snapshot.Element
}

// Codes returns the type codes of an element.
func (e ElementDefinition) Codes() []string {
	out := make([]string, 0, len(e.Type))
	for _, t := range e.Type {
		out = append(out, t.Code)
	}
	return out
}
