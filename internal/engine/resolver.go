// Package engine resolves XML Schema type declarations into logical
// StructureDefinitions.
//
// Every declared type is resolved once. A complex type is reserved in the
// cache as Pending before its members are flattened, so a member that refers
// back to a type under construction resolves to that type's name instead of
// recursing. Base types are resolved before reservation; a qualified name
// reached again while its base is still being resolved is checked against
// the static base chain and fails with a cyclic_base_type error when the
// chain loops.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/reoring/xsd2fhir/errors"
	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/xsd"
)

// Options controls a resolution pass.
type Options struct {
	GenerateSimpleTypeExtensions   bool
	GenerateSimpleTypeRestrictions bool
	GenerateEmptyComplexTypes      bool

	Publisher        string
	PublisherContact string
	PublisherURL     string

	// ModelName is the alias of the target namespace and, through the
	// default policy, of every namespace without an explicit alias.
	ModelName        string
	NamespaceAliases map[string]string
	AliasPolicy      AliasPolicy

	// FHIRVersion overrides the version of the base-type library.
	FHIRVersion        string
	DefaultDescription string
	Now                func() time.Time
	Logger             *zap.Logger
}

// Resolver runs one resolution pass. It is not safe for concurrent use.
type Resolver struct {
	schema *xsd.Schema
	lib    *fhir.Library
	opts   Options
	q      *Qualifier
	cache  *cache
	diag   *diag
	log    *zap.Logger

	primitives map[string]*entry
	// qualified names whose base type is being resolved
	basing  map[string]bool
	stack   []string
	date    string
	version string
}

// New creates a resolver over schema and lib.
func New(schema *xsd.Schema, lib *fhir.Library, opts Options) *Resolver {
	policy := opts.AliasPolicy
	if policy == nil {
		policy = ModelNamePolicy(opts.ModelName)
	}
	q := NewQualifier(policy, opts.NamespaceAliases)
	q.Seed(schema.TargetNamespace, opts.ModelName)

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	version := opts.FHIRVersion
	if version == "" {
		version = lib.FHIRVersion()
	}
	return &Resolver{
		schema:     schema,
		lib:        lib,
		opts:       opts,
		q:          q,
		cache:      newCache(),
		diag:       &diag{},
		log:        log,
		primitives: map[string]*entry{},
		basing:     map[string]bool{},
		date:       now().Format(time.RFC3339),
		version:    version,
	}
}

// Run resolves every top-level type of the schema and returns the distinct
// generated definitions sorted by id.
func (r *Resolver) Run(ctx context.Context) ([]*fhir.StructureDefinition, error) {
	for _, t := range r.schema.Types() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := r.resolveType(t); err != nil {
			return nil, err
		}
	}
	defs := r.cache.definitions()
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].ID != defs[j].ID {
			return defs[i].ID < defs[j].ID
		}
		return defs[i].Display < defs[j].Display
	})
	for i := 1; i < len(defs); i++ {
		if defs[i].ID == defs[i-1].ID {
			r.diag.warnf("definitions %s and %s share id %q", defs[i-1].Display, defs[i].Display, defs[i].ID)
		}
	}
	return defs, nil
}

// Definition resolves ref and returns its definition. A nil definition
// without error means the reference names an anonymous type, or a type
// still being built.
func (r *Resolver) Definition(ref xsd.QName) (*fhir.StructureDefinition, error) {
	e, err := r.resolve(ref)
	if err != nil || e == nil {
		return nil, err
	}
	return e.def, nil
}

// Lookup returns the definition cached under a qualified name.
func (r *Resolver) Lookup(qualified string) (*fhir.StructureDefinition, bool) {
	e, ok := r.cache.get(qualified)
	if !ok || e.state != Ready {
		return nil, false
	}
	return e.def, true
}

// Qualify returns the qualified name of ref under this pass's aliases.
func (r *Resolver) Qualify(ref xsd.QName) string { return r.q.Qualify(ref) }

// Warnings returns the non-fatal observations of the pass.
func (r *Resolver) Warnings() []string { return r.diag.Warnings() }

// resolve maps a type reference to its entry.
func (r *Resolver) resolve(ref xsd.QName) (*entry, error) {
	if ref.IsBuiltin() {
		return r.primitive(ref.Local)
	}
	t, ok := r.schema.Type(ref)
	if !ok {
		return nil, &errors.Error{Code: errors.CodeUnresolvedTypeReference, Type: r.current(), Ref: r.q.Qualify(ref)}
	}
	return r.resolveType(t)
}

func (r *Resolver) resolveType(t xsd.Type) (*entry, error) {
	if t.IsAnonymous() {
		return nil, nil
	}
	key := r.q.Qualify(t.TypeName())
	if r.basing[key] {
		if err := r.cyclic(t.TypeName(), key); err != nil {
			return nil, err
		}
	}
	if e, ok := r.cache.get(key); ok {
		return e, nil
	}
	switch tt := t.(type) {
	case *xsd.SimpleType:
		return r.resolveSimple(tt, key)
	case *xsd.ComplexType:
		return r.resolveComplex(tt, key)
	}
	return nil, &errors.Error{Code: errors.CodeUnsupportedContentModel, Type: key, Detail: fmt.Sprintf("%T", t)}
}

// resolveBase resolves the base of the type registered under key. The key is
// marked for the duration so that reaching it again can be checked for a
// cycle.
func (r *Resolver) resolveBase(key string, base xsd.QName) (*entry, error) {
	if base.IsZero() {
		return nil, nil
	}
	if !r.basing[key] {
		r.basing[key] = true
		defer delete(r.basing, key)
	}
	return r.resolve(base)
}

// cyclic fails when the static base chain of name loops. Reaching a marked
// name through a member type is not a cycle.
func (r *Resolver) cyclic(name xsd.QName, key string) error {
	chain, loops := r.schema.BaseChain(name)
	if !loops {
		return nil
	}
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = r.q.Qualify(c)
	}
	return &errors.Error{Code: errors.CodeCyclicBaseType, Type: key, Chain: names}
}

func (r *Resolver) resolveSimple(t *xsd.SimpleType, key string) (*entry, error) {
	r.push(key)
	defer r.pop()

	base, err := r.resolveBase(key, t.BaseName())
	if err != nil {
		return nil, err
	}
	if e, ok := r.cache.get(key); ok {
		return e, nil
	}
	if r.collapseSimple(base) {
		r.log.Debug("collapsed", zap.String("type", key), zap.String("base", base.name))
		return base, nil
	}

	e := r.cache.reserve(key, Unqualify(key), t.Name.String())
	b := r.newBuilder(t, e)
	b.base(base)
	r.cache.publish(e, b.build())
	r.log.Debug("resolved", zap.String("type", key), zap.String("kind", "simple"))
	return e, nil
}

func (r *Resolver) resolveComplex(t *xsd.ComplexType, key string) (*entry, error) {
	r.push(key)
	defer r.pop()

	base, err := r.resolveBase(key, t.BaseName())
	if err != nil {
		return nil, err
	}
	if e, ok := r.cache.get(key); ok {
		return e, nil
	}

	e := r.cache.reserve(key, Unqualify(key), t.Name.String())
	b := r.newBuilder(t, e)
	b.base(base)

	s, err := r.shapeOf(t, key)
	if err != nil {
		return nil, err
	}
	f := r.newFlattener(e.name)
	if err := f.attributes(s.attributes); err != nil {
		return nil, err
	}
	if s.simple && !s.value.IsZero() {
		v, err := r.resolve(s.value)
		if err != nil {
			return nil, err
		}
		if v != nil {
			f.out = append(f.out, r.value(v, e.name))
		}
	}
	if err := f.particle(s.particle); err != nil {
		return nil, err
	}
	b.add(f.out...)

	if r.collapseComplex(base, b) {
		r.cache.alias(key, base)
		r.diag.warnf("%s collapsed to its base %s", key, base.key)
		r.log.Debug("collapsed", zap.String("type", key), zap.String("base", base.name))
		return base, nil
	}
	r.cache.publish(e, b.build())
	r.log.Debug("resolved", zap.String("type", key), zap.Int("members", b.members()))
	return e, nil
}

func (r *Resolver) push(key string) { r.stack = append(r.stack, key) }
func (r *Resolver) pop()            { r.stack = r.stack[:len(r.stack)-1] }

// current is the qualified name of the type being resolved, or "".
func (r *Resolver) current() string {
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1]
}

type diag struct{ ws []string }

func (d *diag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *diag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
