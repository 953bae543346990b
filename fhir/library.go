package fhir

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"path"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/reoring/xsd2fhir/errors"
)

//go:embed library/base.json
var baseLibrary []byte

// Library is the set of base-type definitions, keyed by name, that built-in
// schema types are mapped onto.
type Library struct {
	byName  map[string]*StructureDefinition
	order   []string
	version string
}

// NewLibrary builds a library from defs. A later definition with the same
// name replaces an earlier one.
func NewLibrary(defs ...*StructureDefinition) *Library {
	l := &Library{byName: map[string]*StructureDefinition{}}
	for _, d := range defs {
		l.Add(d)
	}
	return l
}

// Add registers def. The library version is taken from the first definition
// added.
func (l *Library) Add(def *StructureDefinition) {
	if def == nil || def.Name == "" {
		return
	}
	if len(l.order) == 0 && l.version == "" {
		l.version = def.FHIRVersion
	}
	if _, ok := l.byName[def.Name]; !ok {
		l.order = append(l.order, def.Name)
	}
	l.byName[def.Name] = def
}

// Lookup returns the definition registered under name.
func (l *Library) Lookup(name string) (*StructureDefinition, bool) {
	if l == nil {
		return nil, false
	}
	d, ok := l.byName[name]
	return d, ok
}

// FHIRVersion is the version declared by the first loaded definition.
func (l *Library) FHIRVersion() string {
	if l == nil {
		return ""
	}
	return l.version
}

// Names returns the definition names in load order.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.order...)
}

// Len is the number of definitions.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// DefaultLibrary returns the embedded base-type library.
func DefaultLibrary() (*Library, error) {
	defs, err := Decode(baseLibrary)
	if err != nil {
		return nil, errors.Wrap(err, "embedded library")
	}
	return NewLibrary(defs...), nil
}

// LoadLibrary reads definitions from URL. URL names either a single
// .json/.yaml/.yml document or a directory whose documents are read in name
// order. A document holds one StructureDefinition or a Bundle of them.
func LoadLibrary(ctx context.Context, fs afs.Service, URL string) (*Library, error) {
	if fs == nil {
		fs = afs.New()
	}
	urls := []string{URL}
	if !isDocument(URL) {
		objects, err := fs.List(ctx, URL)
		if err != nil {
			return nil, libraryError(URL, err)
		}
		urls = urls[:0]
		for _, object := range objects {
			if object.IsDir() || url.Equals(object.URL(), URL) || !isDocument(object.Name()) {
				continue
			}
			urls = append(urls, object.URL())
		}
		sort.Strings(urls)
		if len(urls) == 0 {
			return nil, libraryError(URL, errors.New("no definition documents found"))
		}
	}
	lib := NewLibrary()
	for _, u := range urls {
		data, err := fs.DownloadWithURL(ctx, u)
		if err != nil {
			return nil, libraryError(u, err)
		}
		defs, err := Decode(data)
		if err != nil {
			return nil, libraryError(u, err)
		}
		for _, d := range defs {
			lib.Add(d)
		}
	}
	return lib, nil
}

func isDocument(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func libraryError(location string, cause error) error {
	return &errors.Error{Code: errors.CodeLibraryLoad, Detail: location, Cause: cause}
}

type bundle struct {
	ResourceType string        `json:"resourceType" yaml:"resourceType"`
	Entry        []bundleEntry `json:"entry" yaml:"entry"`
}

type bundleEntry struct {
	Resource *StructureDefinition `json:"resource" yaml:"resource"`
}

// Decode reads the definitions in data. JSON is detected by its leading
// brace; anything else is read as YAML, which may carry several documents.
func Decode(data []byte) ([]*StructureDefinition, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) ([]*StructureDefinition, error) {
	if ptr, dup, err := duplicateKey(data); err != nil {
		return nil, errors.Wrap(err, "decode json")
	} else if dup {
		return nil, errors.Newf("decode json: duplicate key at %s", ptr)
	}
	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	if b.ResourceType == "Bundle" {
		return fromBundle(b)
	}
	def := &StructureDefinition{}
	if err := json.Unmarshal(data, def); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	return single(def)
}

func decodeYAML(data []byte) ([]*StructureDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []*StructureDefinition
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "decode yaml")
		}
		var b bundle
		if err := doc.Decode(&b); err != nil {
			return nil, errors.Wrap(err, "decode yaml")
		}
		if b.ResourceType == "Bundle" {
			defs, err := fromBundle(b)
			if err != nil {
				return nil, err
			}
			out = append(out, defs...)
			continue
		}
		def := &StructureDefinition{}
		if err := doc.Decode(def); err != nil {
			return nil, errors.Wrap(err, "decode yaml")
		}
		defs, err := single(def)
		if err != nil {
			return nil, err
		}
		out = append(out, defs...)
	}
	return out, nil
}

func fromBundle(b bundle) ([]*StructureDefinition, error) {
	out := make([]*StructureDefinition, 0, len(b.Entry))
	for i, e := range b.Entry {
		if e.Resource == nil || e.Resource.ResourceType != ResourceType {
			continue
		}
		if e.Resource.Name == "" {
			return nil, errors.Newf("bundle entry %d: definition without name", i)
		}
		out = append(out, e.Resource)
	}
	return out, nil
}

func single(def *StructureDefinition) ([]*StructureDefinition, error) {
	if def.ResourceType != ResourceType {
		return nil, errors.Newf("unexpected resourceType %q", def.ResourceType)
	}
	if def.Name == "" {
		return nil, errors.New("definition without name")
	}
	return []*StructureDefinition{def}, nil
}
