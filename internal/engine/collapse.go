package engine

// collapseSimple reports whether a simple type restricting base is replaced
// by base instead of getting a definition of its own. Either generation
// option keeps the restricted type.
func (r *Resolver) collapseSimple(base *entry) bool {
	return base != nil && !r.opts.GenerateSimpleTypeRestrictions && !r.opts.GenerateSimpleTypeExtensions
}

// collapseComplex reports whether a freshly built complex type is discarded
// in favour of its base: it has a base and adds nothing beyond its root
// element, not even a value member.
func (r *Resolver) collapseComplex(base *entry, b *definitionBuilder) bool {
	return base != nil && b.members() == 0 && !r.opts.GenerateEmptyComplexTypes
}
