package ast

// List is an intrusive singly-linked chain of nodes threaded through
// Node.Next. The list value owns nothing but the two end pointers; a node
// belongs to at most one list at a time.
type List struct {
	Head NodeID
	Tail NodeID
}

func (l List) Empty() bool {
	return !l.Head.IsValid()
}

// Append adds id at the end of l in O(1). The node is detached from whatever
// chain it was part of. Appending the current tail again is a no-op.
func (b *Builder) Append(l *List, id NodeID) {
	n := b.Get(id)
	if n == nil || id == l.Tail {
		return
	}
	n.Next = NoNodeID
	if !l.Head.IsValid() {
		l.Head, l.Tail = id, id
		return
	}
	b.Get(l.Tail).Next = id
	l.Tail = id
}

// Concat appends the whole of other to l, in O(1).
func (b *Builder) Concat(l *List, other List) {
	if other.Empty() {
		return
	}
	if l.Empty() {
		*l = other
		return
	}
	b.Get(l.Tail).Next = other.Head
	l.Tail = other.Tail
}

// ListOf chains ids, in order, into a fresh list.
func (b *Builder) ListOf(ids ...NodeID) List {
	var l List
	for _, id := range ids {
		b.Append(&l, id)
	}
	return l
}

// Count walks the chain. Callers that need the length repeatedly should
// keep the result.
func (b *Builder) Count(l List) int {
	n := 0
	for id := l.Head; id.IsValid(); id = b.Get(id).Next {
		n++
	}
	return n
}

// IDs copies the chain into a slice, in order.
func (b *Builder) IDs(l List) []NodeID {
	var out []NodeID
	for id := l.Head; id.IsValid(); id = b.Get(id).Next {
		out = append(out, id)
	}
	return out
}

// Each calls fn for every element until fn returns false. fn must not
// relink the list it is iterating.
func (b *Builder) Each(l List, fn func(i int, id NodeID) bool) {
	i := 0
	for id := l.Head; id.IsValid(); id = b.Get(id).Next {
		if !fn(i, id) {
			return
		}
		i++
	}
}

// At returns the i-th element or NoNodeID.
func (b *Builder) At(l List, i int) NodeID {
	found := NoNodeID
	b.Each(l, func(j int, id NodeID) bool {
		if j == i {
			found = id
			return false
		}
		return true
	})
	return found
}

// Splice replaces element at with the chain repl. An empty repl removes at.
// It reports false when at is not in l.
func (b *Builder) Splice(l *List, at NodeID, repl List) bool {
	prev := NoNodeID
	cur := l.Head
	for cur.IsValid() && cur != at {
		prev = cur
		cur = b.Get(cur).Next
	}
	if !cur.IsValid() {
		return false
	}
	next := b.Get(at).Next
	b.Get(at).Next = NoNodeID

	first, last := repl.Head, repl.Tail
	if repl.Empty() {
		first, last = next, prev
	} else {
		b.Get(last).Next = next
	}

	if prev.IsValid() {
		b.Get(prev).Next = first
	} else {
		l.Head = first
	}
	if !next.IsValid() {
		l.Tail = last
	}
	return true
}

// Remove unlinks at from l.
func (b *Builder) Remove(l *List, at NodeID) bool {
	return b.Splice(l, at, List{})
}
