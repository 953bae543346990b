package xsd

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/reoring/xsd2fhir/errors"
)

// Parse decodes a single schema document. include and import directives are
// recorded but not followed; use Loader to follow them.
func Parse(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, loadError("", err)
	}
	root, err := decodeDocument(data)
	if err != nil {
		return nil, loadError("", err)
	}
	tns := root.attrOr("targetNamespace", "")
	s := NewSchema(tns)
	s.Doc = root.documentation()
	if _, err := (&docBuilder{schema: s, tns: tns}).build(root); err != nil {
		return nil, loadError("", err)
	}
	return s, nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(data []byte) (*Schema, error) { return Parse(bytes.NewReader(data)) }

func loadError(location string, cause error) error {
	return &errors.Error{Code: errors.CodeSchemaLoad, Detail: location, Cause: cause}
}

func decodeDocument(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := &node{}
	if err := dec.Decode(root); err != nil {
		return nil, errors.Wrap(err, "decode xml")
	}
	if !root.is("schema") {
		return nil, errors.Newf("root element is {%s}%s, want {%s}schema", root.Name.Space, root.Name.Local, Namespace)
	}
	return root, nil
}

// directive is an include or import found in a document.
type directive struct {
	include   bool
	namespace string
	location  string
}

// docBuilder adds the components of one document to a schema set.
type docBuilder struct {
	schema *Schema
	tns    string
	// chameleon is set for a no-namespace document included into tns; its
	// unqualified references then name components of tns.
	chameleon bool
}

func (b *docBuilder) build(root *node) ([]directive, error) {
	var dirs []directive
	for _, c := range root.Children {
		if c.Name.Space != Namespace {
			continue
		}
		var err error
		switch c.Name.Local {
		case "include", "redefine":
			dirs = append(dirs, directive{include: true, location: c.attrOr("schemaLocation", "")})
		case "import":
			dirs = append(dirs, directive{namespace: c.attrOr("namespace", ""), location: c.attrOr("schemaLocation", "")})
		case "simpleType":
			var st *SimpleType
			if st, err = b.simpleType(c, true); err == nil {
				err = b.schema.AddType(st)
			}
		case "complexType":
			var ct *ComplexType
			if ct, err = b.complexType(c, true); err == nil {
				err = b.schema.AddType(ct)
			}
		case "element":
			var e *Element
			if e, err = b.element(c); err == nil {
				err = b.schema.AddElement(b.tns, e)
			}
		case "attribute":
			var a *Attribute
			if a, err = b.attribute(c); err == nil {
				err = b.schema.AddAttribute(b.tns, a)
			}
		case "group":
			err = b.group(c)
		case "attributeGroup":
			err = b.attributeGroup(c)
		}
		if err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

func (b *docBuilder) name(n *node) QName {
	return QName{Space: b.tns, Local: n.attrOr("name", "")}
}

// qname resolves a prefixed attribute value against the node's scope.
func (b *docBuilder) qname(n *node, attr string) (QName, error) {
	v, ok := n.attr(attr)
	if !ok {
		return QName{}, nil
	}
	q, err := b.resolveValue(n, strings.TrimSpace(v))
	if err != nil {
		return QName{}, errors.Wrapf(err, "attribute %s", attr)
	}
	return q, nil
}

func (b *docBuilder) simpleType(n *node, topLevel bool) (*SimpleType, error) {
	st := &SimpleType{Doc: n.documentation(), Anonymous: !topLevel}
	if topLevel {
		st.Name = b.name(n)
	}
	for _, c := range n.Children {
		switch {
		case c.is("restriction"):
			base, err := b.qname(c, "base")
			if err != nil {
				return nil, err
			}
			r := &SimpleRestriction{Base: base}
			if in := firstChild(c, "simpleType"); in != nil {
				if r.Inline, err = b.simpleType(in, false); err != nil {
					return nil, err
				}
			}
			st.Restriction = r
		case c.is("list"):
			item, err := b.qname(c, "itemType")
			if err != nil {
				return nil, err
			}
			l := &SimpleList{ItemType: item}
			if in := firstChild(c, "simpleType"); in != nil {
				if l.Inline, err = b.simpleType(in, false); err != nil {
					return nil, err
				}
			}
			st.List = l
		case c.is("union"):
			u := &SimpleUnion{}
			for _, m := range strings.Fields(c.attrOr("memberTypes", "")) {
				q, err := b.resolveValue(c, m)
				if err != nil {
					return nil, err
				}
				u.MemberTypes = append(u.MemberTypes, q)
			}
			for _, in := range c.Children {
				if !in.is("simpleType") {
					continue
				}
				t, err := b.simpleType(in, false)
				if err != nil {
					return nil, err
				}
				u.Inline = append(u.Inline, t)
			}
			st.Union = u
		}
	}
	return st, nil
}

func (b *docBuilder) resolveValue(n *node, v string) (QName, error) {
	prefix, local := "", v
	if i := strings.IndexByte(v, ':'); i >= 0 {
		prefix, local = v[:i], v[i+1:]
	}
	uri, ok := n.lookupPrefix(prefix)
	if !ok {
		return QName{}, errors.Newf("%q: prefix %q not declared", v, prefix)
	}
	if uri == "" && b.chameleon {
		uri = b.tns
	}
	return QName{Space: uri, Local: local}, nil
}

func (b *docBuilder) complexType(n *node, topLevel bool) (*ComplexType, error) {
	ct := &ComplexType{
		Doc:       n.documentation(),
		Anonymous: !topLevel,
		Abstract:  n.attrOr("abstract", "false") == "true",
		Mixed:     n.attrOr("mixed", "false") == "true",
	}
	if topLevel {
		ct.Name = b.name(n)
	}
	for _, c := range n.Children {
		switch {
		case c.is("simpleContent"), c.is("complexContent"):
			content, err := b.content(c)
			if err != nil {
				return nil, err
			}
			ct.Content = content
		}
	}
	if ct.Content != nil {
		return ct, nil
	}
	var err error
	if ct.Particle, err = b.particleOf(n); err != nil {
		return nil, err
	}
	if ct.Attributes, err = b.attributesOf(n); err != nil {
		return nil, err
	}
	return ct, nil
}

func (b *docBuilder) content(n *node) (Content, error) {
	simple := n.is("simpleContent")
	for _, c := range n.Children {
		restriction := c.is("restriction")
		if !restriction && !c.is("extension") {
			continue
		}
		base, err := b.qname(c, "base")
		if err != nil {
			return nil, err
		}
		attrs, err := b.attributesOf(c)
		if err != nil {
			return nil, err
		}
		if simple {
			if restriction {
				return &SimpleContentRestriction{Base: base, Attributes: attrs}, nil
			}
			return &SimpleContentExtension{Base: base, Attributes: attrs}, nil
		}
		p, err := b.particleOf(c)
		if err != nil {
			return nil, err
		}
		if restriction {
			return &ComplexRestriction{Base: base, Particle: p, Attributes: attrs}, nil
		}
		return &ComplexExtension{Base: base, Particle: p, Attributes: attrs}, nil
	}
	return nil, errors.Newf("%s without restriction or extension", n.Name.Local)
}

// particleOf returns the single top particle child of n, if any.
func (b *docBuilder) particleOf(n *node) (Particle, error) {
	for _, c := range n.Children {
		if c.is("sequence") || c.is("choice") || c.is("all") || c.is("group") {
			return b.particle(c)
		}
	}
	return nil, nil
}

func (b *docBuilder) particle(n *node) (Particle, error) {
	occ, err := occursOf(n)
	if err != nil {
		return nil, err
	}
	switch n.Name.Local {
	case "element":
		return b.element(n)
	case "any":
		return &Any{Namespace: n.attrOr("namespace", "##any"), Occurs: occ}, nil
	case "group":
		ref, err := b.qname(n, "ref")
		if err != nil {
			return nil, err
		}
		return &GroupRef{Ref: ref, Occurs: occ}, nil
	}
	children, err := b.particles(n)
	if err != nil {
		return nil, err
	}
	switch n.Name.Local {
	case "sequence":
		return &Sequence{Occurs: occ, Particles: children}, nil
	case "choice":
		return &Choice{Occurs: occ, Particles: children}, nil
	case "all":
		return &All{Occurs: occ, Particles: children}, nil
	}
	return nil, errors.Newf("unexpected particle %s", n.Name.Local)
}

func (b *docBuilder) particles(n *node) ([]Particle, error) {
	var out []Particle
	for _, c := range n.Children {
		if c.Name.Space != Namespace {
			continue
		}
		switch c.Name.Local {
		case "element", "sequence", "choice", "all", "group", "any":
			p, err := b.particle(c)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}

func (b *docBuilder) element(n *node) (*Element, error) {
	occ, err := occursOf(n)
	if err != nil {
		return nil, err
	}
	e := &Element{Name: n.attrOr("name", ""), Doc: n.documentation(), Occurs: occ}
	if e.Ref, err = b.qname(n, "ref"); err != nil {
		return nil, err
	}
	if e.Type, err = b.qname(n, "type"); err != nil {
		return nil, err
	}
	for _, c := range n.Children {
		switch {
		case c.is("complexType"):
			if e.Inline, err = b.complexType(c, false); err != nil {
				return nil, err
			}
		case c.is("simpleType"):
			if e.Inline, err = b.simpleType(c, false); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func (b *docBuilder) attributesOf(n *node) ([]AttributeDecl, error) {
	var out []AttributeDecl
	for _, c := range n.Children {
		switch {
		case c.is("attribute"):
			a, err := b.attribute(c)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		case c.is("attributeGroup"):
			ref, err := b.qname(c, "ref")
			if err != nil {
				return nil, err
			}
			out = append(out, &AttributeGroupRef{Ref: ref})
		}
	}
	return out, nil
}

func (b *docBuilder) attribute(n *node) (*Attribute, error) {
	a := &Attribute{Name: n.attrOr("name", ""), Doc: n.documentation()}
	var err error
	if a.Ref, err = b.qname(n, "ref"); err != nil {
		return nil, err
	}
	if a.Type, err = b.qname(n, "type"); err != nil {
		return nil, err
	}
	switch u := n.attrOr("use", ""); u {
	case "":
		a.Use = UseNone
	case "optional":
		a.Use = UseOptional
	case "prohibited":
		a.Use = UseProhibited
	case "required":
		a.Use = UseRequired
	default:
		return nil, errors.Newf("attribute %q: invalid use %q", a.Name, u)
	}
	if in := firstChild(n, "simpleType"); in != nil {
		if a.Inline, err = b.simpleType(in, false); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (b *docBuilder) group(n *node) error {
	g := &Group{Name: b.name(n)}
	var err error
	if g.Particle, err = b.particleOf(n); err != nil {
		return err
	}
	return b.schema.AddGroup(g)
}

func (b *docBuilder) attributeGroup(n *node) error {
	attrs, err := b.attributesOf(n)
	if err != nil {
		return err
	}
	return b.schema.AddAttributeGroup(&AttributeGroup{Name: b.name(n), Attributes: attrs})
}

func occursOf(n *node) (Occurs, error) {
	occ := once
	if v, ok := n.attr("minOccurs"); ok {
		m, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || m < 0 {
			return occ, errors.Newf("invalid minOccurs %q", v)
		}
		occ.Min = m
	}
	if v, ok := n.attr("maxOccurs"); ok {
		v = strings.TrimSpace(v)
		if v == "unbounded" {
			occ.Unbounded = true
			occ.Max = 0
		} else {
			m, err := strconv.Atoi(v)
			if err != nil || m < 0 {
				return occ, errors.Newf("invalid maxOccurs %q", v)
			}
			occ.Max = m
		}
	}
	if !occ.Unbounded && occ.Min > occ.Max {
		return occ, errors.Newf("minOccurs %d exceeds maxOccurs %d", occ.Min, occ.Max)
	}
	return occ, nil
}

func firstChild(n *node, local string) *node {
	for _, c := range n.Children {
		if c.is(local) {
			return c
		}
	}
	return nil
}
