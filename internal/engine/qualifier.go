package engine

import (
	"strings"

	"github.com/reoring/xsd2fhir/xsd"
)

// AliasPolicy picks the alias for a namespace that has none yet.
type AliasPolicy func(namespace string) string

// ModelNamePolicy aliases every unseen namespace to model.
func ModelNamePolicy(model string) AliasPolicy {
	return func(string) string { return model }
}

// Qualifier assigns namespace aliases and builds qualified names
// ("alias.local"). An alias, once assigned, never changes.
type Qualifier struct {
	aliases map[string]string
	policy  AliasPolicy
}

// NewQualifier creates a qualifier seeded with explicit aliases. A nil policy
// leaves unseen namespaces without an alias.
func NewQualifier(policy AliasPolicy, seed map[string]string) *Qualifier {
	q := &Qualifier{aliases: make(map[string]string, len(seed)), policy: policy}
	for ns, alias := range seed {
		q.aliases[ns] = alias
	}
	return q
}

// Seed assigns alias to namespace unless the namespace already has one.
func (q *Qualifier) Seed(namespace, alias string) {
	if _, ok := q.aliases[namespace]; !ok {
		q.aliases[namespace] = alias
	}
}

// Alias returns the alias assigned to namespace.
func (q *Qualifier) Alias(namespace string) (string, bool) {
	a, ok := q.aliases[namespace]
	return a, ok
}

// Qualify returns the qualified name of ref, assigning an alias to its
// namespace on first use.
func (q *Qualifier) Qualify(ref xsd.QName) string {
	alias, ok := q.aliases[ref.Space]
	if !ok {
		if q.policy != nil {
			alias = q.policy(ref.Space)
		}
		q.aliases[ref.Space] = alias
	}
	local := strings.ReplaceAll(ref.Local, "-", "_")
	if alias == "" {
		return local
	}
	return alias + "." + local
}

// Unqualify strips everything up to and including the first '.'.
func Unqualify(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
