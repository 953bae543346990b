package xsd

import (
	"encoding/xml"
	"strings"
)

// node is a generic element tree built from the token stream. Children keep
// document order, which struct-tag decoding would lose across sibling kinds
// (an element followed by a choice followed by an element).
type node struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*node
	// Text is the concatenated character data of the node and all of its
	// descendants, in document order.
	Text string

	parent *node
	// ns maps prefixes declared on this node to namespace URIs. The default
	// namespace is stored under "".
	ns map[string]string
}

func (n *node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.Name = start.Name
	n.Attr = start.Attr
	for _, a := range start.Attr {
		switch {
		case a.Name.Space == "xmlns":
			n.declare(a.Name.Local, a.Value)
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			n.declare("", a.Value)
		}
	}
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &node{parent: n}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
			text.WriteString(child.Text)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			n.Text = text.String()
			return nil
		}
	}
}

func (n *node) declare(prefix, uri string) {
	if n.ns == nil {
		n.ns = map[string]string{}
	}
	n.ns[prefix] = uri
}

// lookupPrefix resolves a prefix against the in-scope declarations.
func (n *node) lookupPrefix(prefix string) (string, bool) {
	if prefix == "xml" {
		return "http://www.w3.org/XML/1998/namespace", true
	}
	for cur := n; cur != nil; cur = cur.parent {
		if uri, ok := cur.ns[prefix]; ok {
			return uri, true
		}
	}
	return "", prefix == ""
}

// attr returns the value of an unqualified attribute.
func (n *node) attr(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) attrOr(local, def string) string {
	if v, ok := n.attr(local); ok {
		return v
	}
	return def
}

// is reports whether the node is the XML Schema element with the given local
// name.
func (n *node) is(local string) bool {
	return n.Name.Space == Namespace && n.Name.Local == local
}

// documentation returns the text of the first annotation/documentation child.
func (n *node) documentation() string {
	for _, c := range n.Children {
		if !c.is("annotation") {
			continue
		}
		for _, d := range c.Children {
			if d.is("documentation") {
				return strings.TrimSpace(d.Text)
			}
		}
	}
	return ""
}
