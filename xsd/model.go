package xsd

// Package xsd holds the source model consumed by the conversion engine: the
// top-level type declarations of an XML Schema set together with the
// elements, attributes and groups they reference. Only the structural subset
// relevant to logical-model generation is kept; facets are not recorded.

// Namespace is the XML Schema namespace. Types in this namespace are built-ins.
const Namespace = "http://www.w3.org/2001/XMLSchema"

// QName is an expanded name (namespace URI, local name).
type QName struct {
	Space string
	Local string
}

// IsZero reports whether the name is unset.
func (q QName) IsZero() bool { return q.Space == "" && q.Local == "" }

// IsBuiltin reports whether the name lives in the XML Schema namespace.
func (q QName) IsBuiltin() bool { return q.Space == Namespace }

// String renders the name in Clark notation ("{ns}local"), or the bare local
// name when the namespace is empty.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// Type is either *SimpleType or *ComplexType.
type Type interface {
	TypeName() QName
	IsAnonymous() bool
	Documentation() string
	isType()
}

// SimpleType is a value-only type declaration.
type SimpleType struct {
	Name      QName
	Anonymous bool
	Doc       string
	// Exactly one of Restriction, List or Union is set for a well-formed
	// declaration.
	Restriction *SimpleRestriction
	List        *SimpleList
	Union       *SimpleUnion
}

func (t *SimpleType) TypeName() QName       { return t.Name }
func (t *SimpleType) IsAnonymous() bool     { return t.Anonymous }
func (t *SimpleType) Documentation() string { return t.Doc }
func (*SimpleType) isType()                 {}

// BaseName returns the restriction base, or the zero QName.
func (t *SimpleType) BaseName() QName {
	if t.Restriction == nil {
		return QName{}
	}
	return t.Restriction.Base
}

// SimpleRestriction derives a simple type by restriction. Facets are dropped.
type SimpleRestriction struct {
	Base   QName
	Inline *SimpleType
}

// SimpleList derives a simple type by list.
type SimpleList struct {
	ItemType QName
	Inline   *SimpleType
}

// SimpleUnion derives a simple type by union.
type SimpleUnion struct {
	MemberTypes []QName
	Inline      []*SimpleType
}

// ComplexType is a member-bearing type declaration. When Content is nil the
// type carries its own Particle and Attributes.
type ComplexType struct {
	Name       QName
	Anonymous  bool
	Abstract   bool
	Mixed      bool
	Doc        string
	Content    Content
	Particle   Particle
	Attributes []AttributeDecl
}

func (t *ComplexType) TypeName() QName       { return t.Name }
func (t *ComplexType) IsAnonymous() bool     { return t.Anonymous }
func (t *ComplexType) Documentation() string { return t.Doc }
func (*ComplexType) isType()                 {}

// BaseName returns the declared base type of the content model, or the zero
// QName when the type has no content model.
func (t *ComplexType) BaseName() QName {
	if t.Content == nil {
		return QName{}
	}
	return t.Content.BaseName()
}

// Occurs is a particle's occurrence range.
type Occurs struct {
	Min       int
	Max       int
	Unbounded bool
}

// once is the default occurrence range (1..1).
var once = Occurs{Min: 1, Max: 1}

// Use is the use-kind of an attribute.
type Use int

const (
	UseNone Use = iota
	UseOptional
	UseProhibited
	UseRequired
)

func (u Use) String() string {
	switch u {
	case UseOptional:
		return "optional"
	case UseProhibited:
		return "prohibited"
	case UseRequired:
		return "required"
	}
	return "none"
}

// Element is a local or top-level element declaration, or a reference to a
// top-level element when Ref is set.
type Element struct {
	Name   string
	Ref    QName
	Type   QName
	Inline Type
	Doc    string
	Occurs Occurs
}

// Attribute is a local or top-level attribute declaration, or a reference to
// a top-level attribute when Ref is set.
type Attribute struct {
	Name   string
	Ref    QName
	Type   QName
	Inline *SimpleType
	Doc    string
	Use    Use
}

// AttributeGroupRef references a named attribute group.
type AttributeGroupRef struct {
	Ref QName
}

// AttributeGroup is a named, top-level attribute group.
type AttributeGroup struct {
	Name       QName
	Attributes []AttributeDecl
}

// Group is a named, top-level model group.
type Group struct {
	Name     QName
	Particle Particle
}
