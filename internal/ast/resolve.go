package ast

// Resolve follows identifier bindings from id to the declaration they name.
// Chains of identifiers bound to identifiers (forward references) are
// followed to the end; a cycle or an unbound identifier yields NoNodeID.
// Non-identifier nodes resolve to themselves. Resolve never mutates.
func (b *Builder) Resolve(id NodeID) NodeID {
	seen := 0
	limit := int(b.Nodes.Len())
	for id.IsValid() {
		ident, ok := b.Ident(id)
		if !ok {
			return id
		}
		if seen > limit {
			return NoNodeID
		}
		seen++
		id = ident.Decl
	}
	return NoNodeID
}

// Bind records that the identifier id refers to decl.
func (b *Builder) Bind(id, decl NodeID) bool {
	ident, ok := b.Ident(id)
	if !ok {
		return false
	}
	ident.Decl = decl
	return true
}
