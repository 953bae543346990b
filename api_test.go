package xsd2fhir_test

import (
	"context"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/reoring/xsd2fhir"
	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/xsd"
)

const personXSD = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:d="urn:demo" targetNamespace="urn:demo">
  <xs:complexType name="Person">
    <xs:annotation><xs:documentation>A person. Registered once.</xs:documentation></xs:annotation>
    <xs:sequence>
      <xs:element name="name" type="xs:string"/>
      <xs:element name="nickname" type="xs:string" minOccurs="0" maxOccurs="unbounded"/>
      <xs:element name="parent" type="d:Person" minOccurs="0"/>
    </xs:sequence>
    <xs:attribute name="id" type="xs:string" use="required"/>
  </xs:complexType>
  <xs:simpleType name="Code"><xs:restriction base="xs:string"/></xs:simpleType>
</xs:schema>`

func fixedNow() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

func TestConvert_Minimal_Person(t *testing.T) {
	s, err := xsd.ParseBytes([]byte(personXSD))
	require.NoError(t, err)
	opts := xsd2fhir.DefaultOptions()
	opts.ModelName = "Demo"
	opts.Now = fixedNow

	res, diag, err := xsd2fhir.Convert(context.Background(), s, nil, opts)
	require.NoError(t, err)
	assert.False(t, diag.HasWarnings())
	require.Len(t, res.Definitions, 1)

	def := res.Definitions[0]
	assert.Equal(t, "Person", def.ID)
	assert.Equal(t, "Demo.Person", def.Display)
	assert.Equal(t, xsd2fhir.DefaultPublisher, def.Publisher)
	assert.Equal(t, "A person. Registered once.", def.Description)
	assert.Equal(t, "2026-03-04T05:06:07Z", def.Date)

	var paths []string
	for _, e := range def.Elements() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"Person", "Person.id", "Person.name", "Person.nickname", "Person.parent"}, paths)

	cached, ok := res.Lookup("Demo.Person")
	require.True(t, ok)
	assert.Same(t, def, cached)
	assert.Equal(t, "Demo.Code", res.Qualify(xsd.QName{Space: "urn:demo", Local: "Code"}))
	_, ok = res.Lookup("Demo.Code")
	assert.False(t, ok)
}

func TestConvert_NoModelNameLeavesNamesBare(t *testing.T) {
	s, err := xsd.ParseBytes([]byte(personXSD))
	require.NoError(t, err)

	res, _, err := xsd2fhir.Convert(context.Background(), s, nil, xsd2fhir.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Definitions, 1)
	assert.Equal(t, "Person", res.Definitions[0].Display)
}

func TestConvert_InvalidOptions(t *testing.T) {
	s := xsd.NewSchema("urn:x")
	for name, mutate := range map[string]func(*xsd2fhir.Options){
		"fhir version": func(o *xsd2fhir.Options) { o.FHIRVersion = "dstu-two" },
		"model name":   func(o *xsd2fhir.Options) { o.ModelName = "a.b" },
		"alias":        func(o *xsd2fhir.Options) { o.NamespaceAliases = map[string]string{"urn:x": "x.y"} },
	} {
		t.Run(name, func(t *testing.T) {
			opts := xsd2fhir.DefaultOptions()
			mutate(&opts)
			_, _, err := xsd2fhir.Convert(context.Background(), s, nil, opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidOption)
			assert.Equal(t, xsd2fhir.CodeInvalidOption, xsd2fhir.CodeOf(err))
		})
	}

	opts := xsd2fhir.DefaultOptions()
	opts.FHIRVersion = "4.0.1"
	assert.NoError(t, opts.Validate())
}

func TestConvert_NilSchema(t *testing.T) {
	_, _, err := xsd2fhir.Convert(context.Background(), nil, nil, xsd2fhir.DefaultOptions())
	assert.ErrorIs(t, err, errors.ErrMissingRequiredArgument)
}

func TestConvert_FailureDiscardsPass(t *testing.T) {
	s, err := xsd.ParseBytes([]byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="Good"><xs:attribute name="a" type="xs:string"/></xs:complexType>
  <xs:complexType name="Bad"><xs:attribute name="b" type="xs:float"/></xs:complexType>
</xs:schema>`))
	require.NoError(t, err)

	res, _, err := xsd2fhir.Convert(context.Background(), s, nil, xsd2fhir.DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, res)
	e, ok := xsd2fhir.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Bad", e.Type)
	assert.Equal(t, "xs:float", e.Ref)
}

func TestRun_WritesOneDocumentPerDefinition(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	base := "mem://localhost/xsd2fhir/run001"
	require.NoError(t, fs.Upload(ctx, base+"/model.xsd", file.DefaultFileOsMode, strings.NewReader(personXSD)))

	opts := xsd2fhir.DefaultOptions()
	opts.ModelName = "Demo"
	opts.GenerateSimpleTypeRestrictions = true
	report, _, err := xsd2fhir.Run(ctx, fs, xsd2fhir.Job{SourceURL: base + "/model.xsd", DestURL: base + "/out"}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Definitions)
	assert.Equal(t, []string{base + "/out/Code.json", base + "/out/Person.json"}, report.Written)

	data, err := fs.DownloadWithURL(ctx, base+"/out/Code.json")
	require.NoError(t, err)
	var code fhir.StructureDefinition
	require.NoError(t, json.Unmarshal(data, &code))
	assert.Equal(t, "http://hl7.org/fhir/StructureDefinition/string", code.Base)
	assert.Equal(t, "1.0.2", code.FHIRVersion)
}

func TestRun_CustomLibraryAndYAML(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	base := "mem://localhost/xsd2fhir/run002"
	require.NoError(t, fs.Upload(ctx, base+"/model.xsd", file.DefaultFileOsMode, strings.NewReader(personXSD)))
	require.NoError(t, fs.Upload(ctx, base+"/lib/string.json", file.DefaultFileOsMode,
		strings.NewReader(`{"resourceType":"StructureDefinition","name":"string","url":"http://example.org/string","fhirVersion":"4.0.1"}`)))

	opts := xsd2fhir.DefaultOptions()
	opts.ModelName = "Demo"
	report, _, err := xsd2fhir.Run(ctx, fs, xsd2fhir.Job{
		SourceURL:  base + "/model.xsd",
		DestURL:    base + "/out",
		LibraryURL: base + "/lib",
		Format:     fhir.FormatYAML,
	}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{base + "/out/Person.yaml"}, report.Written)

	data, err := fs.DownloadWithURL(ctx, base+"/out/Person.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "fhirVersion: 4.0.1")
}

func TestRun_MissingArguments(t *testing.T) {
	_, _, err := xsd2fhir.Run(context.Background(), nil, xsd2fhir.Job{DestURL: "mem://localhost/x"}, xsd2fhir.DefaultOptions())
	assert.ErrorIs(t, err, errors.ErrMissingRequiredArgument)
	assert.Contains(t, err.Error(), "source")

	_, _, err = xsd2fhir.Run(context.Background(), nil, xsd2fhir.Job{SourceURL: "mem://localhost/x.xsd"}, xsd2fhir.DefaultOptions())
	assert.ErrorIs(t, err, errors.ErrMissingRequiredArgument)
	assert.Contains(t, err.Error(), "dest")
}

func TestRun_SchemaLoadFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	base := "mem://localhost/xsd2fhir/run003"

	_, _, err := xsd2fhir.Run(ctx, fs, xsd2fhir.Job{SourceURL: base + "/missing.xsd", DestURL: base + "/out"}, xsd2fhir.DefaultOptions())
	assert.ErrorIs(t, err, errors.ErrSchemaLoad)
	ok, _ := fs.Exists(ctx, base+"/out")
	assert.False(t, ok)
}

func TestRun_ChameleonIncludeResolvesLocalReferences(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	base := "mem://localhost/xsd2fhir/run004"
	require.NoError(t, fs.Upload(ctx, base+"/main.xsd", file.DefaultFileOsMode, strings.NewReader(
		`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:x">
  <xs:include schemaLocation="inc.xsd"/>
</xs:schema>`)))
	require.NoError(t, fs.Upload(ctx, base+"/inc.xsd", file.DefaultFileOsMode, strings.NewReader(
		`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="A"><xs:sequence><xs:element name="b" type="B"/></xs:sequence></xs:complexType>
  <xs:complexType name="B"><xs:attribute name="v" type="xs:string"/></xs:complexType>
</xs:schema>`)))

	opts := xsd2fhir.DefaultOptions()
	opts.ModelName = "X"
	report, _, err := xsd2fhir.Run(ctx, fs, xsd2fhir.Job{SourceURL: base + "/main.xsd", DestURL: base + "/out"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{base + "/out/A.json", base + "/out/B.json"}, report.Written)

	data, err := fs.DownloadWithURL(ctx, base+"/out/A.json")
	require.NoError(t, err)
	var a fhir.StructureDefinition
	require.NoError(t, json.Unmarshal(data, &a))
	require.Len(t, a.Elements(), 2)
	assert.Equal(t, []string{"B"}, a.Elements()[1].Codes())
}
