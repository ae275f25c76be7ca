package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"loom/internal/ast"
	"loom/internal/source"
	"loom/internal/types"
)

// ASTNodeOutput is the JSON shape of one node in an AST dump.
type ASTNodeOutput struct {
	Tag      string          `json:"tag"`
	Name     string          `json:"name,omitempty"`
	Text     string          `json:"text,omitempty"`
	Type     string          `json:"type,omitempty"`
	Flags    []string        `json:"flags,omitempty"`
	Span     string          `json:"span,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the subtree rooted at root as an indented tree.
// tt may be nil; node types are then omitted.
func FormatASTPretty(w io.Writer, b *ast.Builder, root ast.NodeID, tt *types.Interner) error {
	if b.Get(root) == nil {
		return fmt.Errorf("node %d not found", root)
	}
	fmt.Fprintln(w, nodeLabel(b, root, tt))
	writeChildren(w, b, root, tt, "")
	return nil
}

func writeChildren(w io.Writer, b *ast.Builder, id ast.NodeID, tt *types.Interner, prefix string) {
	children := b.Children(id)
	for i, c := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(b, c, tt))
		writeChildren(w, b, c, tt, prefix+next)
	}
}

// FormatASTJSON writes the subtree rooted at root as indented JSON.
func FormatASTJSON(w io.Writer, b *ast.Builder, root ast.NodeID, tt *types.Interner) error {
	if b.Get(root) == nil {
		return fmt.Errorf("node %d not found", root)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildASTOutput(b, root, tt))
}

func buildASTOutput(b *ast.Builder, id ast.NodeID, tt *types.Interner) ASTNodeOutput {
	n := b.Get(id)
	out := ASTNodeOutput{
		Tag:   n.Tag.String(),
		Name:  lookupString(b, b.DeclName(id)),
		Text:  nodeText(b, id),
		Flags: n.Flags.Names(),
	}
	if tt != nil && n.Type != types.NoTypeID {
		out.Type = tt.Format(n.Type, b.Strings)
	}
	if n.Span.Known() {
		out.Span = n.Span.String()
	}
	for _, c := range b.Children(id) {
		out.Children = append(out.Children, buildASTOutput(b, c, tt))
	}
	return out
}

func nodeLabel(b *ast.Builder, id ast.NodeID, tt *types.Interner) string {
	n := b.Get(id)
	var sb strings.Builder
	sb.WriteString(n.Tag.String())
	if name := lookupString(b, b.DeclName(id)); name != "" {
		sb.WriteByte(' ')
		sb.WriteString(name)
	}
	if text := nodeText(b, id); text != "" {
		sb.WriteByte(' ')
		sb.WriteString(text)
	}
	if tt != nil && n.Type != types.NoTypeID {
		sb.WriteString(": ")
		sb.WriteString(tt.Format(n.Type, b.Strings))
	}
	if names := n.Flags.Names(); len(names) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(names, ","))
		sb.WriteByte(']')
	}
	return sb.String()
}

// nodeText is the tag-specific detail shown after the name.
func nodeText(b *ast.Builder, id ast.NodeID) string {
	switch b.TagOf(id) {
	case ast.TagIdent:
		ident, _ := b.Ident(id)
		return lookupString(b, ident.Name)
	case ast.TagTypeRef:
		ref, _ := b.TypeRef(id)
		return lookupString(b, ref.Name)
	case ast.TagIntLit:
		lit, _ := b.Lit(id)
		return strconv.FormatInt(lit.Int, 10)
	case ast.TagFloatLit:
		lit, _ := b.Lit(id)
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case ast.TagStringLit:
		lit, _ := b.Lit(id)
		return strconv.Quote(lookupString(b, lit.Str))
	case ast.TagBoolLit:
		lit, _ := b.Lit(id)
		return strconv.FormatBool(lit.Bool)
	case ast.TagBinary:
		bin, _ := b.Binary(id)
		return bin.Op.String()
	case ast.TagUnary:
		un, _ := b.Unary(id)
		return un.Op.String()
	case ast.TagMember:
		m, _ := b.Member(id)
		return "." + lookupString(b, m.Name)
	case ast.TagModule:
		m, _ := b.Module(id)
		return "(" + lookupString(b, m.Path) + ")"
	case ast.TagInvoke:
		inv, _ := b.Invoke(id)
		return "#" + lookupString(b, inv.Name)
	}
	return ""
}

func lookupString(b *ast.Builder, id source.StringID) string {
	if b.Strings == nil || id == source.NoStringID {
		return ""
	}
	s, _ := b.Strings.Lookup(id)
	return s
}
