package xsd

// The particle, content and attribute dimensions are closed variant sets.
// Consumers match on them through the visitor interfaces below, so adding a
// variant breaks every consumer at compile time instead of surfacing as an
// unsupported case at conversion time.

// ParticleVisitor handles every particle variant.
type ParticleVisitor interface {
	VisitElement(*Element) error
	VisitSequence(*Sequence) error
	VisitAll(*All) error
	VisitChoice(*Choice) error
	VisitGroupRef(*GroupRef) error
	VisitAny(*Any) error
}

// Particle is a node of a complex type's content tree.
type Particle interface {
	Accept(ParticleVisitor) error
}

// Sequence is an ordered group.
type Sequence struct {
	Occurs    Occurs
	Particles []Particle
}

// All is an unordered group.
type All struct {
	Occurs    Occurs
	Particles []Particle
}

// Choice is a choice group.
type Choice struct {
	Occurs    Occurs
	Particles []Particle
}

// GroupRef references a named model group.
type GroupRef struct {
	Ref    QName
	Occurs Occurs
}

// Any is an element wildcard.
type Any struct {
	Namespace string
	Occurs    Occurs
}

func (p *Element) Accept(v ParticleVisitor) error  { return v.VisitElement(p) }
func (p *Sequence) Accept(v ParticleVisitor) error { return v.VisitSequence(p) }
func (p *All) Accept(v ParticleVisitor) error      { return v.VisitAll(p) }
func (p *Choice) Accept(v ParticleVisitor) error   { return v.VisitChoice(p) }
func (p *GroupRef) Accept(v ParticleVisitor) error { return v.VisitGroupRef(p) }
func (p *Any) Accept(v ParticleVisitor) error      { return v.VisitAny(p) }

// ContentVisitor handles every content-model variant.
type ContentVisitor interface {
	VisitComplexRestriction(*ComplexRestriction) error
	VisitComplexExtension(*ComplexExtension) error
	VisitSimpleContentRestriction(*SimpleContentRestriction) error
	VisitSimpleContentExtension(*SimpleContentExtension) error
}

// Content is the derivation of a complex type from its base.
type Content interface {
	BaseName() QName
	Accept(ContentVisitor) error
}

// ComplexRestriction is complexContent/restriction.
type ComplexRestriction struct {
	Base       QName
	Particle   Particle
	Attributes []AttributeDecl
}

// ComplexExtension is complexContent/extension.
type ComplexExtension struct {
	Base       QName
	Particle   Particle
	Attributes []AttributeDecl
}

// SimpleContentRestriction is simpleContent/restriction.
type SimpleContentRestriction struct {
	Base       QName
	Attributes []AttributeDecl
}

// SimpleContentExtension is simpleContent/extension.
type SimpleContentExtension struct {
	Base       QName
	Attributes []AttributeDecl
}

func (c *ComplexRestriction) BaseName() QName       { return c.Base }
func (c *ComplexExtension) BaseName() QName         { return c.Base }
func (c *SimpleContentRestriction) BaseName() QName { return c.Base }
func (c *SimpleContentExtension) BaseName() QName   { return c.Base }

func (c *ComplexRestriction) Accept(v ContentVisitor) error {
	return v.VisitComplexRestriction(c)
}

func (c *ComplexExtension) Accept(v ContentVisitor) error {
	return v.VisitComplexExtension(c)
}

func (c *SimpleContentRestriction) Accept(v ContentVisitor) error {
	return v.VisitSimpleContentRestriction(c)
}

func (c *SimpleContentExtension) Accept(v ContentVisitor) error {
	return v.VisitSimpleContentExtension(c)
}

// AttributeVisitor handles every attribute-declaration variant.
type AttributeVisitor interface {
	VisitAttribute(*Attribute) error
	VisitAttributeGroupRef(*AttributeGroupRef) error
}

// AttributeDecl is an attribute or an attribute group reference.
type AttributeDecl interface {
	Accept(AttributeVisitor) error
}

func (a *Attribute) Accept(v AttributeVisitor) error         { return v.VisitAttribute(a) }
func (a *AttributeGroupRef) Accept(v AttributeVisitor) error { return v.VisitAttributeGroupRef(a) }
