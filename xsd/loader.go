package xsd

import (
	"context"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/reoring/xsd2fhir/errors"
)

// Loader reads a schema document and every document it includes or imports
// through an afs.Service, so sources may live on disk, in memory (mem://) or
// in any storage afs supports.
type Loader struct {
	fs afs.Service
}

// NewLoader creates a loader over fs. A nil fs uses afs.New().
func NewLoader(fs afs.Service) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{fs: fs}
}

// Load reads the root document at URL and follows include, redefine and
// import directives that carry a schemaLocation. Each location is read once.
func (l *Loader) Load(ctx context.Context, URL string) (*Schema, error) {
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, loadError(URL, err)
	}
	root, err := decodeDocument(data)
	if err != nil {
		return nil, loadError(URL, err)
	}
	tns := root.attrOr("targetNamespace", "")
	s := NewSchema(tns)
	s.Doc = root.documentation()
	visited := map[string]bool{URL: true, resolveLocation(URL, path.Base(URL)): true}
	if err := l.add(ctx, s, root, URL, tns, false, visited); err != nil {
		return nil, err
	}
	return s, nil
}

func (l *Loader) add(ctx context.Context, s *Schema, root *node, location, tns string, chameleon bool, visited map[string]bool) error {
	dirs, err := (&docBuilder{schema: s, tns: tns, chameleon: chameleon}).build(root)
	if err != nil {
		return loadError(location, err)
	}
	for _, d := range dirs {
		if d.location == "" {
			continue
		}
		next := resolveLocation(location, d.location)
		if visited[next] {
			continue
		}
		visited[next] = true
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := l.fs.DownloadWithURL(ctx, next)
		if err != nil {
			return loadError(next, err)
		}
		child, err := decodeDocument(data)
		if err != nil {
			return loadError(next, err)
		}
		childNS := child.attrOr("targetNamespace", "")
		chameleon := d.include && childNS == "" && tns != ""
		if chameleon {
			// adopt the including document's namespace, references included
			childNS = tns
		}
		if !d.include && d.namespace != "" && childNS != d.namespace {
			return loadError(next, errors.Newf("imported namespace %q, document declares %q", d.namespace, childNS))
		}
		if err := l.add(ctx, s, child, next, childNS, chameleon, visited); err != nil {
			return err
		}
	}
	return nil
}

// resolveLocation resolves a schemaLocation relative to the URL of the
// document that declares it.
func resolveLocation(base, location string) string {
	if !url.IsRelative(location) {
		return location
	}
	parent, _ := url.Split(base, file.Scheme)
	joined := url.Join(parent, location)
	i := strings.Index(joined, "://")
	if i < 0 {
		return path.Clean(joined)
	}
	scheme, rest := joined[:i+3], joined[i+3:]
	host, p := rest, ""
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		host, p = rest[:j], rest[j:]
	}
	return scheme + host + path.Clean(p)
}
