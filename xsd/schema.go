package xsd

import "github.com/reoring/xsd2fhir/errors"

// Schema is a set of schema documents merged into one component table. Type
// declaration order is preserved across documents in load order.
type Schema struct {
	// TargetNamespace is the target namespace of the root document.
	TargetNamespace string
	// Doc is the top-level schema annotation of the root document.
	Doc string

	order           []QName
	types           map[QName]Type
	elements        map[QName]*Element
	attributes      map[QName]*Attribute
	groups          map[QName]*Group
	attributeGroups map[QName]*AttributeGroup
}

// NewSchema returns an empty schema set for the given target namespace.
func NewSchema(targetNamespace string) *Schema {
	return &Schema{
		TargetNamespace: targetNamespace,
		types:           map[QName]Type{},
		elements:        map[QName]*Element{},
		attributes:      map[QName]*Attribute{},
		groups:          map[QName]*Group{},
		attributeGroups: map[QName]*AttributeGroup{},
	}
}

// Types returns the top-level type declarations in declaration order.
func (s *Schema) Types() []Type {
	out := make([]Type, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.types[name])
	}
	return out
}

// Type looks up a top-level type declaration.
func (s *Schema) Type(name QName) (Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Element looks up a top-level element declaration.
func (s *Schema) Element(name QName) (*Element, bool) {
	e, ok := s.elements[name]
	return e, ok
}

// Attribute looks up a top-level attribute declaration.
func (s *Schema) Attribute(name QName) (*Attribute, bool) {
	a, ok := s.attributes[name]
	return a, ok
}

// Group looks up a top-level model group.
func (s *Schema) Group(name QName) (*Group, bool) {
	g, ok := s.groups[name]
	return g, ok
}

// AttributeGroup looks up a top-level attribute group.
func (s *Schema) AttributeGroup(name QName) (*AttributeGroup, bool) {
	g, ok := s.attributeGroups[name]
	return g, ok
}

// AddType registers a named top-level type. Redeclaring a name is an error.
func (s *Schema) AddType(t Type) error {
	name := t.TypeName()
	if name.Local == "" {
		return errors.Newf("xsd: top-level type without a name")
	}
	if _, exists := s.types[name]; exists {
		return errors.Newf("xsd: duplicate type %s", name)
	}
	s.types[name] = t
	s.order = append(s.order, name)
	return nil
}

// AddElement registers a top-level element.
func (s *Schema) AddElement(space string, e *Element) error {
	name := QName{Space: space, Local: e.Name}
	if _, exists := s.elements[name]; exists {
		return errors.Newf("xsd: duplicate element %s", name)
	}
	s.elements[name] = e
	return nil
}

// AddAttribute registers a top-level attribute.
func (s *Schema) AddAttribute(space string, a *Attribute) error {
	name := QName{Space: space, Local: a.Name}
	if _, exists := s.attributes[name]; exists {
		return errors.Newf("xsd: duplicate attribute %s", name)
	}
	s.attributes[name] = a
	return nil
}

// AddGroup registers a top-level model group.
func (s *Schema) AddGroup(g *Group) error {
	if _, exists := s.groups[g.Name]; exists {
		return errors.Newf("xsd: duplicate group %s", g.Name)
	}
	s.groups[g.Name] = g
	return nil
}

// AddAttributeGroup registers a top-level attribute group.
func (s *Schema) AddAttributeGroup(g *AttributeGroup) error {
	if _, exists := s.attributeGroups[g.Name]; exists {
		return errors.Newf("xsd: duplicate attribute group %s", g.Name)
	}
	s.attributeGroups[g.Name] = g
	return nil
}

// BaseChain follows the static base-type links starting at name and returns
// the visited names. The walk stops at a built-in or undeclared type. When a
// name repeats, the returned chain ends with the repeated name and cyclic is
// true.
func (s *Schema) BaseChain(name QName) (chain []QName, cyclic bool) {
	seen := map[QName]bool{}
	for cur := name; !cur.IsZero(); {
		chain = append(chain, cur)
		if seen[cur] {
			return chain, true
		}
		seen[cur] = true
		if cur.IsBuiltin() {
			break
		}
		t, ok := s.types[cur]
		if !ok {
			break
		}
		cur = baseOf(t)
	}
	return chain, false
}

func baseOf(t Type) QName {
	switch tt := t.(type) {
	case *SimpleType:
		return tt.BaseName()
	case *ComplexType:
		return tt.BaseName()
	}
	return QName{}
}
