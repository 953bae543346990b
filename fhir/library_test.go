package fhir_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
)

func upload(t *testing.T, fs afs.Service, URL, content string) {
	t.Helper()
	require.NoError(t, fs.Upload(context.Background(), URL, file.DefaultFileOsMode, strings.NewReader(content)))
}

func TestDefaultLibrary_HasMappedPrimitives(t *testing.T) {
	lib, err := fhir.DefaultLibrary()
	require.NoError(t, err)

	for _, name := range []string{"Element", "Duration", "dateTime", "date", "time", "decimal",
		"boolean", "base64Binary", "string", "uri", "unsignedInt", "positiveInt"} {
		def, ok := lib.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, def.Name)
		assert.Equal(t, "http://hl7.org/fhir/StructureDefinition/"+name, def.URL)
	}
	assert.Equal(t, "1.0.2", lib.FHIRVersion())
	assert.Equal(t, "Element", lib.Names()[0])
}

func TestLoadLibrary_DirectoryMixedFormats(t *testing.T) {
	fs := afs.New()
	dir := "mem://localhost/fhir/lib001"
	upload(t, fs, dir+"/a.json", `{"resourceType":"StructureDefinition","name":"string","url":"http://x/string","fhirVersion":"3.0.1","kind":"primitive-type"}`)
	upload(t, fs, dir+"/b.yaml", `resourceType: Bundle
entry:
  - resource:
      resourceType: StructureDefinition
      name: Element
      url: http://x/Element
      fhirVersion: 4.0.1
  - resource:
      resourceType: ValueSet
      name: ignored
`)
	upload(t, fs, dir+"/c.yml", `resourceType: StructureDefinition
name: uri
---
resourceType: StructureDefinition
name: boolean
`)
	upload(t, fs, dir+"/notes.txt", `not a definition`)

	lib, err := fhir.LoadLibrary(context.Background(), fs, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"string", "Element", "uri", "boolean"}, lib.Names())
	assert.Equal(t, "3.0.1", lib.FHIRVersion())
	_, ok := lib.Lookup("ignored")
	assert.False(t, ok)
}

func TestLoadLibrary_SingleDocument(t *testing.T) {
	fs := afs.New()
	URL := "mem://localhost/fhir/lib002/base.json"
	upload(t, fs, URL, `{"resourceType":"Bundle","entry":[{"resource":{"resourceType":"StructureDefinition","name":"date"}}]}`)

	lib, err := fhir.LoadLibrary(context.Background(), fs, URL)
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Len())
	assert.Equal(t, "", lib.FHIRVersion())
}

func TestLoadLibrary_Errors(t *testing.T) {
	fs := afs.New()
	upload(t, fs, "mem://localhost/fhir/lib003/bad.json", `{"resourceType":"Patient","name":"x"}`)
	upload(t, fs, "mem://localhost/fhir/lib004/broken.json", `{"resourceType":`)

	for _, URL := range []string{
		"mem://localhost/fhir/lib003/bad.json",
		"mem://localhost/fhir/lib004/broken.json",
		"mem://localhost/fhir/lib005/missing.json",
	} {
		_, err := fhir.LoadLibrary(context.Background(), fs, URL)
		require.Error(t, err, URL)
		assert.ErrorIs(t, err, errors.ErrLibraryLoad, URL)
	}
}

func TestLibrary_LaterDefinitionReplaces(t *testing.T) {
	lib := fhir.NewLibrary(
		&fhir.StructureDefinition{Name: "string", FHIRVersion: "1.0.2", URL: "a"},
		&fhir.StructureDefinition{Name: "string", FHIRVersion: "4.0.1", URL: "b"},
	)
	def, ok := lib.Lookup("string")
	require.True(t, ok)
	assert.Equal(t, "b", def.URL)
	assert.Equal(t, "1.0.2", lib.FHIRVersion())
	assert.Equal(t, 1, lib.Len())
}

func TestDecode_RejectsDuplicateKeys(t *testing.T) {
	for _, tc := range []struct{ doc, ptr string }{
		{`{"resourceType":"StructureDefinition","name":"a","name":"b"}`, "/name"},
		{`{"resourceType":"Bundle","entry":[{"resource":{}},{"resource":{"url":"x","kind":"a","url":"y"}}]}`, "/entry/1/resource/url"},
		{`{"snapshot":{"element":[{"path":"a","min":0,"min":1}]}}`, "/snapshot/element/0/min"},
	} {
		_, err := fhir.Decode([]byte(tc.doc))
		require.Error(t, err, tc.doc)
		assert.Contains(t, err.Error(), "duplicate key at "+tc.ptr)
	}

	defs, err := fhir.Decode([]byte(`{"resourceType":"StructureDefinition","name":"a","snapshot":{"element":[{"path":"a"},{"path":"b"}]}}`))
	require.NoError(t, err)
	require.Len(t, defs, 1)
}
