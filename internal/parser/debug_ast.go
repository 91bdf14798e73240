package parser

import (
	"encoding/json"
	"fmt"
	"lispy/internal/ast"
	"strings"
)

// RenderASTAsText produces an indented listing of the tree, one node per line.
func RenderASTAsText(node *ast.Node, indent int) string {
	if node == nil {
		return "nil"
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", indent))
	if node.IsLeaf() {
		fmt.Fprintf(&sb, "%s:%d '%s'", node.Tag, node.Position, node.Contents)
		return sb.String()
	}
	sb.WriteString(node.Tag)
	for _, child := range node.Children {
		sb.WriteString("\n")
		sb.WriteString(RenderASTAsText(child, indent+1))
	}
	return sb.String()
}

// WalkAST recursively serializes a tree into a map structure for JSON output.
func WalkAST(node *ast.Node) interface{} {
	if node == nil {
		return nil
	}
	out := map[string]interface{}{
		"tag":      node.Tag,
		"position": node.Position,
	}
	if node.IsLeaf() {
		out["contents"] = node.Contents
		return out
	}
	children := make([]interface{}, len(node.Children))
	for i, c := range node.Children {
		children[i] = WalkAST(c)
	}
	out["children"] = children
	return out
}

// RenderASTAsJSON renders the tree as indented JSON.
func RenderASTAsJSON(node *ast.Node) (string, error) {
	b, err := json.MarshalIndent(WalkAST(node), "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not render tree: %w", err)
	}
	return string(b), nil
}
