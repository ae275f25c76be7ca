// Package testkit holds structural checks shared by tests of packages that
// build or rewrite trees.
package testkit

import (
	"fmt"

	"loom/internal/ast"
)

// CheckTree verifies the tree under root:
// 1) every occupied slot and list element names a live node
// 2) no node is reachable twice (the tree is not a DAG)
// 3) every list is acyclic and its Tail is the last element
func CheckTree(b *ast.Builder, root ast.NodeID) error {
	if b.Get(root) == nil {
		return fmt.Errorf("root %d not found", root)
	}
	seen := make(map[ast.NodeID]ast.NodeID)
	return checkNode(b, root, ast.NoNodeID, seen)
}

func checkNode(b *ast.Builder, id, parent ast.NodeID, seen map[ast.NodeID]ast.NodeID) error {
	if prev, ok := seen[id]; ok {
		return fmt.Errorf("node %d (%v) is a child of both %d and %d", id, b.TagOf(id), prev, parent)
	}
	seen[id] = parent

	e := b.Edges(id)
	var children []ast.NodeID
	for _, slot := range e.Nodes {
		if !slot.IsValid() {
			continue
		}
		if b.Get(*slot) == nil {
			return fmt.Errorf("node %d (%v): slot points to missing node %d", id, b.TagOf(id), *slot)
		}
		children = append(children, *slot)
	}
	for i, l := range e.Lists {
		items, err := listItems(b, *l)
		if err != nil {
			return fmt.Errorf("node %d (%v) list %d: %w", id, b.TagOf(id), i, err)
		}
		children = append(children, items...)
	}
	for _, c := range children {
		if err := checkNode(b, c, id, seen); err != nil {
			return err
		}
	}
	return nil
}

func listItems(b *ast.Builder, l ast.List) ([]ast.NodeID, error) {
	if l.Head.IsValid() != l.Tail.IsValid() {
		return nil, fmt.Errorf("half-empty list %+v", l)
	}
	var out []ast.NodeID
	onList := make(map[ast.NodeID]bool)
	last := ast.NoNodeID
	for id := l.Head; id.IsValid(); {
		n := b.Get(id)
		if n == nil {
			return nil, fmt.Errorf("element %d not found", id)
		}
		if onList[id] {
			return nil, fmt.Errorf("cycle through %d", id)
		}
		onList[id] = true
		out = append(out, id)
		last = id
		id = n.Next
	}
	if last != l.Tail {
		return nil, fmt.Errorf("tail is %d, last element is %d", l.Tail, last)
	}
	return out, nil
}

// CheckExpanded is CheckTree plus: no invoke node is left under root.
func CheckExpanded(b *ast.Builder, root ast.NodeID) error {
	if err := CheckTree(b, root); err != nil {
		return err
	}
	var left []ast.NodeID
	stack := []ast.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.TagOf(id) == ast.TagInvoke {
			left = append(left, id)
		}
		stack = append(stack, b.Children(id)...)
	}
	if len(left) > 0 {
		return fmt.Errorf("%d invoke node(s) left, first %d", len(left), left[0])
	}
	return nil
}
