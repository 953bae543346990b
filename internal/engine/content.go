package engine

import (
	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/xsd"
)

// shape is what a complex type's body contributes to its member list.
type shape struct {
	attributes []xsd.AttributeDecl
	particle   xsd.Particle
	// value is the base of simple content, wrapped as a "value" member.
	value  xsd.QName
	simple bool
}

// shaper selects the attribute and particle sources of a content model.
type shaper struct {
	out shape
}

func (s *shaper) VisitComplexRestriction(c *xsd.ComplexRestriction) error {
	s.out = shape{attributes: c.Attributes, particle: c.Particle}
	return nil
}

func (s *shaper) VisitComplexExtension(c *xsd.ComplexExtension) error {
	s.out = shape{attributes: c.Attributes, particle: c.Particle}
	return nil
}

func (s *shaper) VisitSimpleContentRestriction(c *xsd.SimpleContentRestriction) error {
	s.out = shape{attributes: c.Attributes, value: c.Base, simple: true}
	return nil
}

func (s *shaper) VisitSimpleContentExtension(c *xsd.SimpleContentExtension) error {
	s.out = shape{attributes: c.Attributes, value: c.Base, simple: true}
	return nil
}

// shapeOf determines the content shape of t. A type without a content model
// uses its own attributes and particle; a type that has both is rejected.
func (r *Resolver) shapeOf(t *xsd.ComplexType, key string) (shape, error) {
	if t.Content == nil {
		return shape{attributes: t.Attributes, particle: t.Particle}, nil
	}
	if t.Particle != nil || len(t.Attributes) > 0 {
		return shape{}, &errors.Error{
			Code:   errors.CodeUnsupportedContentModel,
			Type:   key,
			Detail: "content model together with own particle or attributes",
		}
	}
	s := &shaper{}
	if err := t.Content.Accept(s); err != nil {
		return shape{}, err
	}
	return s.out, nil
}
