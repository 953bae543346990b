package xsd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/xsd"
)

const personXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:d="urn:demo"
           targetNamespace="urn:demo">
  <xs:annotation><xs:documentation>Demo model</xs:documentation></xs:annotation>
  <xs:complexType name="Person">
    <xs:annotation>
      <xs:documentation>A person. Known to the registry.</xs:documentation>
    </xs:annotation>
    <xs:sequence>
      <xs:element name="name" type="xs:string"/>
      <xs:choice>
        <xs:element name="email" type="xs:string"/>
        <xs:element name="phone" type="xs:string"/>
      </xs:choice>
      <xs:element name="nickname" type="xs:string" minOccurs="0" maxOccurs="unbounded"/>
      <xs:group ref="d:Audit"/>
    </xs:sequence>
    <xs:attribute name="id" type="xs:string" use="required"/>
    <xs:attributeGroup ref="d:Common"/>
  </xs:complexType>
  <xs:simpleType name="Code">
    <xs:restriction base="xs:string">
      <xs:maxLength value="10"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:complexType name="Amount">
    <xs:simpleContent>
      <xs:extension base="xs:decimal">
        <xs:attribute name="currency" type="d:Code"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>
  <xs:complexType name="Employee">
    <xs:complexContent>
      <xs:extension base="d:Person">
        <xs:all>
          <xs:element name="badge" type="xs:positiveInteger" maxOccurs="1"/>
        </xs:all>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
  <xs:group name="Audit">
    <xs:sequence>
      <xs:element name="created" type="xs:dateTime" minOccurs="0" maxOccurs="3"/>
    </xs:sequence>
  </xs:group>
  <xs:attributeGroup name="Common">
    <xs:attribute name="lang" type="xs:NCName" use="optional"/>
  </xs:attributeGroup>
  <xs:element name="person" type="d:Person"/>
</xs:schema>`

func TestParse_TypesInDeclarationOrder(t *testing.T) {
	s, err := xsd.ParseBytes([]byte(personXSD))
	require.NoError(t, err)

	assert.Equal(t, "urn:demo", s.TargetNamespace)
	assert.Equal(t, "Demo model", s.Doc)

	var names []string
	for _, typ := range s.Types() {
		names = append(names, typ.TypeName().Local)
	}
	assert.Equal(t, []string{"Person", "Code", "Amount", "Employee"}, names)
}

func TestParse_ParticleOrderAndOccurs(t *testing.T) {
	s, err := xsd.ParseBytes([]byte(personXSD))
	require.NoError(t, err)

	typ, ok := s.Type(xsd.QName{Space: "urn:demo", Local: "Person"})
	require.True(t, ok)
	ct := typ.(*xsd.ComplexType)
	assert.Equal(t, "A person. Known to the registry.", ct.Documentation())
	assert.Nil(t, ct.Content)

	seq, ok := ct.Particle.(*xsd.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Particles, 4)

	name := seq.Particles[0].(*xsd.Element)
	assert.Equal(t, "name", name.Name)
	assert.Equal(t, xsd.QName{Space: xsd.Namespace, Local: "string"}, name.Type)
	assert.Equal(t, xsd.Occurs{Min: 1, Max: 1}, name.Occurs)

	choice := seq.Particles[1].(*xsd.Choice)
	require.Len(t, choice.Particles, 2)

	nick := seq.Particles[2].(*xsd.Element)
	assert.Equal(t, xsd.Occurs{Min: 0, Unbounded: true}, nick.Occurs)

	ref := seq.Particles[3].(*xsd.GroupRef)
	assert.Equal(t, xsd.QName{Space: "urn:demo", Local: "Audit"}, ref.Ref)

	require.Len(t, ct.Attributes, 2)
	id := ct.Attributes[0].(*xsd.Attribute)
	assert.Equal(t, xsd.UseRequired, id.Use)
	assert.IsType(t, &xsd.AttributeGroupRef{}, ct.Attributes[1])

	g, ok := s.Group(xsd.QName{Space: "urn:demo", Local: "Audit"})
	require.True(t, ok)
	created := g.Particle.(*xsd.Sequence).Particles[0].(*xsd.Element)
	assert.Equal(t, xsd.Occurs{Min: 0, Max: 3}, created.Occurs)
}

func TestParse_ContentModels(t *testing.T) {
	s, err := xsd.ParseBytes([]byte(personXSD))
	require.NoError(t, err)

	amount, _ := s.Type(xsd.QName{Space: "urn:demo", Local: "Amount"})
	ext, ok := amount.(*xsd.ComplexType).Content.(*xsd.SimpleContentExtension)
	require.True(t, ok)
	assert.Equal(t, xsd.QName{Space: xsd.Namespace, Local: "decimal"}, ext.Base)
	require.Len(t, ext.Attributes, 1)

	emp, _ := s.Type(xsd.QName{Space: "urn:demo", Local: "Employee"})
	cext, ok := emp.(*xsd.ComplexType).Content.(*xsd.ComplexExtension)
	require.True(t, ok)
	assert.Equal(t, xsd.QName{Space: "urn:demo", Local: "Person"}, cext.Base)
	assert.IsType(t, &xsd.All{}, cext.Particle)

	code, _ := s.Type(xsd.QName{Space: "urn:demo", Local: "Code"})
	assert.Equal(t, xsd.QName{Space: xsd.Namespace, Local: "string"}, code.(*xsd.SimpleType).BaseName())
}

func TestParse_TopLevelComponents(t *testing.T) {
	s, err := xsd.ParseBytes([]byte(personXSD))
	require.NoError(t, err)

	e, ok := s.Element(xsd.QName{Space: "urn:demo", Local: "person"})
	require.True(t, ok)
	assert.Equal(t, xsd.QName{Space: "urn:demo", Local: "Person"}, e.Type)

	ag, ok := s.AttributeGroup(xsd.QName{Space: "urn:demo", Local: "Common"})
	require.True(t, ok)
	require.Len(t, ag.Attributes, 1)
	assert.Equal(t, xsd.UseOptional, ag.Attributes[0].(*xsd.Attribute).Use)
}

func TestParse_InlineTypesAreAnonymous(t *testing.T) {
	doc := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="Box">
    <xs:sequence>
      <xs:element name="inner">
        <xs:complexType><xs:sequence/></xs:complexType>
      </xs:element>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`
	s, err := xsd.ParseBytes([]byte(doc))
	require.NoError(t, err)
	box, ok := s.Type(xsd.QName{Local: "Box"})
	require.True(t, ok)
	inner := box.(*xsd.ComplexType).Particle.(*xsd.Sequence).Particles[0].(*xsd.Element)
	require.NotNil(t, inner.Inline)
	assert.True(t, inner.Inline.IsAnonymous())
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not xml", `<xs:schema`},
		{"wrong root", `<root/>`},
		{"undeclared prefix", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:simpleType name="A"><xs:restriction base="zz:string"/></xs:simpleType></xs:schema>`},
		{"bad occurs", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:complexType name="A"><xs:sequence><xs:element name="a" type="xs:string" minOccurs="x"/></xs:sequence></xs:complexType></xs:schema>`},
		{"duplicate type", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:complexType name="A"/><xs:complexType name="A"/></xs:schema>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := xsd.ParseBytes([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrSchemaLoad)
		})
	}
}

func TestSchema_BaseChain(t *testing.T) {
	s := xsd.NewSchema("urn:x")
	a := xsd.QName{Space: "urn:x", Local: "A"}
	b := xsd.QName{Space: "urn:x", Local: "B"}
	require.NoError(t, s.AddType(&xsd.ComplexType{Name: a, Content: &xsd.ComplexExtension{Base: b}}))
	require.NoError(t, s.AddType(&xsd.ComplexType{Name: b, Content: &xsd.ComplexRestriction{Base: a}}))

	chain, cyclic := s.BaseChain(a)
	assert.True(t, cyclic)
	assert.Equal(t, []xsd.QName{a, b, a}, chain)

	str := xsd.QName{Space: xsd.Namespace, Local: "string"}
	c := xsd.QName{Space: "urn:x", Local: "C"}
	require.NoError(t, s.AddType(&xsd.SimpleType{Name: c, Restriction: &xsd.SimpleRestriction{Base: str}}))
	chain, cyclic = s.BaseChain(c)
	assert.False(t, cyclic)
	assert.Equal(t, []xsd.QName{c, str}, chain)
}
