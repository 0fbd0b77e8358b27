package langserver

import (
	"context"
	"fmt"
	"strings"

	"lantern/internal/ast"
	"lantern/internal/module"
	"lantern/internal/project"
	"lantern/internal/source"
	"lantern/internal/types"
)

// Hover is the inferred type of the expression under the cursor.
type Hover struct {
	// Contents is markdown: the type in a fenced code block.
	Contents string
	Range    source.Range
}

// Location is a range inside a file identified by URI.
type Location struct {
	URI   string
	Range source.Range
}

// CompletionItem is one plain completion suggestion.
type CompletionItem struct {
	Label string
}

// TextEdit replaces Range with NewText.
type TextEdit struct {
	Range   source.Range
	NewText string
}

// locate resolves an editor position to the innermost AST node of the cached
// module for uri. Every miss is a nil node, never an error.
func (c *Core) locate(uri string, pos source.Position) (*module.Snapshot, *source.LineIndex, ast.Located) {
	name, _, ok := c.layout().ModuleNameForURI(uri)
	if !ok {
		return nil, nil, nil
	}
	snap, ok := c.session.Module(name)
	if !ok {
		return nil, nil, nil
	}
	li := snap.LineIndex()
	node := snap.Find(li.Offset(pos))
	if node == nil {
		return snap, li, nil
	}
	return snap, li, node
}

// Hover reports the type of the expression at pos.
func (c *Core) Hover(_ context.Context, uri string, pos source.Position) Response[*Hover] {
	return respond(c, func() (*Hover, error) {
		_, li, node := c.locate(uri, pos)
		expr, ok := node.(*ast.Expression)
		if !ok {
			return nil, nil
		}
		typ := types.NewPrinter().Print(expr.Type)
		return &Hover{
			Contents: fmt.Sprintf("```%s\n%s\n```", c.fenceLanguage(), typ),
			Range:    li.Range(expr.Span),
		}, nil
	})
}

func (c *Core) fenceLanguage() string {
	if c.config == nil || c.config.Source.Extension == "" {
		return "gleam"
	}
	return c.config.Source.Extension
}

// GotoDefinition finds where the value at pos is defined. Definitions in
// other modules resolve only when that module is cached by the session.
func (c *Core) GotoDefinition(_ context.Context, uri string, pos source.Position) Response[*Location] {
	return respond(c, func() (*Location, error) {
		_, li, node := c.locate(uri, pos)
		if node == nil {
			return nil, nil
		}
		def, ok := node.DefinitionLocation()
		if !ok {
			return nil, nil
		}
		if def.Module == "" {
			return &Location{URI: uri, Range: li.Range(def.Span)}, nil
		}
		target, ok := c.session.Module(def.Module)
		if !ok {
			log.Debugf("definition in %s is not cached", def.Module)
			return nil, nil
		}
		return &Location{
			URI:   project.PathToURI(target.Path),
			Range: target.LineIndex().Range(def.Span),
		}, nil
	})
}

// Completion offers module names when the cursor is on an import or on no
// node at all. Other positions get no completion.
func (c *Core) Completion(_ context.Context, uri string, pos source.Position) Response[[]CompletionItem] {
	return respond(c, func() ([]CompletionItem, error) {
		_, _, node := c.locate(uri, pos)
		switch n := node.(type) {
		case nil:
			return c.importCompletions(), nil
		case *ast.Statement:
			if n.Kind == ast.StmtImport {
				return c.importCompletions(), nil
			}
		}
		return nil, nil
	})
}

func (c *Core) importCompletions() []CompletionItem {
	if c.config == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var items []CompletionItem
	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		items = append(items, CompletionItem{Label: name})
	}
	for _, name := range c.session.ImportableModules() {
		add(name)
	}
	for _, m := range c.session.Modules() {
		if m.Origin.IsSrc() {
			add(m.Name)
		}
	}
	return items
}

// Format formats the current text of uri, including unsaved edits, and
// returns one edit replacing the whole document.
func (c *Core) Format(ctx context.Context, uri string) Response[[]TextEdit] {
	return respond(c, func() ([]TextEdit, error) {
		path := project.URIToPath(uri)
		src, err := c.overlay.Read(path)
		if err != nil {
			return nil, err
		}
		formatted, err := c.formatter.Format(ctx, path, src)
		if err != nil {
			return nil, err
		}
		lines := source.Uint32(countLines(src))
		return []TextEdit{{
			Range: source.Range{
				Start: source.Position{Line: 0, Character: 0},
				End:   source.Position{Line: lines, Character: 0},
			},
			NewText: formatted,
		}}, nil
	})
}

// countLines counts lines the way a line iterator does: a trailing newline
// does not start another line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
