package engine

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/xsd"
)

// element builds the member for a field declaration. A nil member means the
// field has no resolvable named type and contributes nothing.
func (r *Resolver) element(e *xsd.Element, parent string) (*fhir.ElementDefinition, error) {
	decl := e
	if !e.Ref.IsZero() {
		target, ok := r.schema.Element(e.Ref)
		if !ok {
			return nil, &errors.Error{Code: errors.CodeUnresolvedTypeReference, Type: r.current(), Ref: r.q.Qualify(e.Ref), Detail: "element"}
		}
		decl = target
	}

	var typ *entry
	var err error
	switch {
	case decl.Inline != nil:
		typ, err = r.resolveType(decl.Inline)
	case !decl.Type.IsZero():
		typ, err = r.resolve(decl.Type)
	}
	if err != nil {
		return nil, err
	}
	if typ == nil {
		r.skip(parent, decl.Name)
		return nil, nil
	}

	doc := decl.Doc
	if doc == "" {
		doc = e.Doc
	}
	doc = r.describe(doc)
	// occurrence belongs to the particle, so a reference keeps its own
	return &fhir.ElementDefinition{
		Path:       parent + "." + decl.Name,
		Name:       decl.Name,
		Short:      shortOf(doc),
		Definition: doc,
		Min:        e.Occurs.Min,
		Max:        maxOf(e.Occurs),
		Type:       []fhir.TypeRef{{Code: typ.name}},
	}, nil
}

// attribute builds the member for an attribute declaration.
func (r *Resolver) attribute(a *xsd.Attribute, parent string) (*fhir.ElementDefinition, error) {
	use := a.Use
	decl := a
	if !a.Ref.IsZero() {
		target, ok := r.schema.Attribute(a.Ref)
		if !ok {
			return nil, &errors.Error{Code: errors.CodeUnresolvedTypeReference, Type: r.current(), Ref: r.q.Qualify(a.Ref), Detail: "attribute"}
		}
		decl = target
		if use == xsd.UseNone {
			use = target.Use
		}
	}

	var typ *entry
	var err error
	switch {
	case decl.Inline != nil:
		typ, err = r.resolveType(decl.Inline)
	case !decl.Type.IsZero():
		typ, err = r.resolve(decl.Type)
	}
	if err != nil {
		return nil, err
	}
	if typ == nil {
		r.skip(parent, decl.Name)
		return nil, nil
	}

	doc := decl.Doc
	if doc == "" {
		doc = a.Doc
	}
	doc = r.describe(doc)
	m := &fhir.ElementDefinition{
		Path:       parent + "." + decl.Name,
		Name:       decl.Name,
		Short:      shortOf(doc),
		Definition: doc,
		Type:       []fhir.TypeRef{{Code: typ.name}},
	}
	// An absent use means optional, as in XML Schema.
	switch use {
	case xsd.UseNone, xsd.UseOptional:
		m.Min, m.Max = 0, "1"
	case xsd.UseProhibited:
		m.Min, m.Max = 0, "0"
	case xsd.UseRequired:
		m.Min, m.Max = 1, "1"
	}
	return m, nil
}

// value builds the member that carries the simple content of a type.
func (r *Resolver) value(typ *entry, parent string) fhir.ElementDefinition {
	doc := "Value of " + parent
	return fhir.ElementDefinition{
		Path:       parent + ".value",
		Name:       "value",
		Short:      doc,
		Definition: doc,
		Min:        0,
		Max:        "1",
		Type:       []fhir.TypeRef{{Code: typ.name}},
	}
}

func (r *Resolver) skip(parent, name string) {
	r.diag.warnf("%s.%s: no named type, member skipped", parent, name)
	r.log.Debug("skipped member", zap.String("path", parent+"."+name))
}

func maxOf(o xsd.Occurs) string {
	if o.Unbounded {
		return fhir.Unbounded
	}
	return strconv.Itoa(o.Max)
}
