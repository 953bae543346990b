package engine

import (
	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/xsd"
)

// flattener turns particle and attribute trees into an ordered member list,
// depth-first and left to right. Compositor semantics are not kept: every
// branch of a choice becomes a sibling member.
type flattener struct {
	r      *Resolver
	parent string
	out    []fhir.ElementDefinition
	// named groups currently being expanded
	groups     map[xsd.QName]bool
	attrGroups map[xsd.QName]bool
}

func (r *Resolver) newFlattener(parent string) *flattener {
	return &flattener{r: r, parent: parent, groups: map[xsd.QName]bool{}, attrGroups: map[xsd.QName]bool{}}
}

func (f *flattener) emit(m *fhir.ElementDefinition) {
	if m != nil {
		f.out = append(f.out, *m)
	}
}

func (f *flattener) particle(p xsd.Particle) error {
	if p == nil {
		return nil
	}
	return p.Accept(f)
}

func (f *flattener) VisitElement(e *xsd.Element) error {
	m, err := f.r.element(e, f.parent)
	if err != nil {
		return err
	}
	f.emit(m)
	return nil
}

func (f *flattener) VisitSequence(s *xsd.Sequence) error {
	return f.each(s.Particles)
}

func (f *flattener) VisitAll(a *xsd.All) error {
	return f.each(a.Particles)
}

func (f *flattener) VisitChoice(c *xsd.Choice) error {
	for _, p := range c.Particles {
		e, ok := p.(*xsd.Element)
		if !ok {
			f.r.diag.warnf("%s: choice branch %T is not an element, skipped", f.parent, p)
			continue
		}
		if err := f.VisitElement(e); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) VisitGroupRef(g *xsd.GroupRef) error {
	group, ok := f.r.schema.Group(g.Ref)
	if !ok {
		return &errors.Error{Code: errors.CodeUnresolvedTypeReference, Type: f.r.current(), Ref: f.r.q.Qualify(g.Ref), Detail: "group"}
	}
	if f.groups[g.Ref] {
		f.r.diag.warnf("%s: group %s refers to itself, skipped", f.parent, g.Ref)
		return nil
	}
	f.groups[g.Ref] = true
	defer delete(f.groups, g.Ref)
	return f.particle(group.Particle)
}

func (f *flattener) VisitAny(*xsd.Any) error {
	f.r.diag.warnf("%s: element wildcard skipped", f.parent)
	return nil
}

func (f *flattener) each(ps []xsd.Particle) error {
	for _, p := range ps {
		if err := f.particle(p); err != nil {
			return err
		}
	}
	return nil
}

// attributes flattens attribute declarations in order, expanding attribute
// group references in place.
func (f *flattener) attributes(decls []xsd.AttributeDecl) error {
	for _, d := range decls {
		if err := d.Accept(f); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) VisitAttribute(a *xsd.Attribute) error {
	m, err := f.r.attribute(a, f.parent)
	if err != nil {
		return err
	}
	f.emit(m)
	return nil
}

func (f *flattener) VisitAttributeGroupRef(g *xsd.AttributeGroupRef) error {
	group, ok := f.r.schema.AttributeGroup(g.Ref)
	if !ok {
		return &errors.Error{Code: errors.CodeUnresolvedTypeReference, Type: f.r.current(), Ref: f.r.q.Qualify(g.Ref), Detail: "attribute group"}
	}
	if f.attrGroups[g.Ref] {
		f.r.diag.warnf("%s: attribute group %s refers to itself, skipped", f.parent, g.Ref)
		return nil
	}
	f.attrGroups[g.Ref] = true
	defer delete(f.attrGroups, g.Ref)
	return f.attributes(group.Attributes)
}
