package compiler

import (
	"fmt"

	"lantern/internal/ast"
	"lantern/internal/diag"
	"lantern/internal/module"
	"lantern/internal/project"
	"lantern/internal/source"
	"lantern/internal/types"
	"lantern/internal/warning"
)

// Current schema version - increment when the request or response format changes
const wireSchemaVersion uint16 = 1

type wireRequest struct {
	Schema       uint16            `msgpack:"schema"`
	Root         string            `msgpack:"root"`
	Name         string            `msgpack:"name"`
	Dependencies map[string]string `msgpack:"dependencies,omitempty"`
	Files        []wireFile        `msgpack:"files"`
}

type wireFile struct {
	Path   string `msgpack:"path"`
	Module string `msgpack:"module"`
	Origin uint8  `msgpack:"origin"`
	Text   string `msgpack:"text"`
}

type wireResponse struct {
	Schema     uint16        `msgpack:"schema"`
	Modules    []wireModule  `msgpack:"modules"`
	Importable []string      `msgpack:"importable,omitempty"`
	Warnings   []wireWarning `msgpack:"warnings,omitempty"`
	Error      *wireError    `msgpack:"error,omitempty"`
}

type wireModule struct {
	Name       string          `msgpack:"name"`
	Path       string          `msgpack:"path"`
	Origin     uint8           `msgpack:"origin"`
	Statements []wireStatement `msgpack:"statements"`
}

type wireDefinition struct {
	Module string `msgpack:"module,omitempty"`
	Start  uint32 `msgpack:"start"`
	End    uint32 `msgpack:"end"`
}

type wireStatement struct {
	Kind       uint8           `msgpack:"kind"`
	Name       string          `msgpack:"name"`
	Start      uint32          `msgpack:"start"`
	End        uint32          `msgpack:"end"`
	Definition *wireDefinition `msgpack:"definition,omitempty"`
	Body       []wireExpr      `msgpack:"body,omitempty"`
}

type wireExpr struct {
	Kind       uint8           `msgpack:"kind"`
	Start      uint32          `msgpack:"start"`
	End        uint32          `msgpack:"end"`
	Type       *wireType       `msgpack:"type,omitempty"`
	Definition *wireDefinition `msgpack:"definition,omitempty"`
	Children   []wireExpr      `msgpack:"children,omitempty"`
}

type wireType struct {
	Kind   uint8       `msgpack:"kind"`
	Module string      `msgpack:"module,omitempty"`
	Name   string      `msgpack:"name,omitempty"`
	Args   []*wireType `msgpack:"args,omitempty"`
	Return *wireType   `msgpack:"return,omitempty"`
	Var    uint64      `msgpack:"var,omitempty"`
}

type wireWarning struct {
	Kind     string    `msgpack:"kind"`
	Path     string    `msgpack:"path"`
	Start    uint32    `msgpack:"start"`
	End      uint32    `msgpack:"end"`
	Todo     uint8     `msgpack:"todo,omitempty"`
	Type     *wireType `msgpack:"type,omitempty"`
	Name     string    `msgpack:"name,omitempty"`
	Imported bool      `msgpack:"imported,omitempty"`
}

type wireError struct {
	Title string `msgpack:"title"`
	Text  string `msgpack:"text,omitempty"`
	Hint  string `msgpack:"hint,omitempty"`
	Path  string `msgpack:"path,omitempty"`
	Start uint32 `msgpack:"start,omitempty"`
	End   uint32 `msgpack:"end,omitempty"`
	Label string `msgpack:"label,omitempty"`
}

// canonicalize rewrites every reported path into the form the overlay and
// the feedback bookkeeping key files by.
func (r *wireResponse) canonicalize() {
	for i := range r.Modules {
		r.Modules[i].Path = project.CanonicalPath(r.Modules[i].Path)
	}
	for i := range r.Warnings {
		r.Warnings[i].Path = project.CanonicalPath(r.Warnings[i].Path)
	}
	if r.Error != nil {
		r.Error.Path = project.CanonicalPath(r.Error.Path)
	}
}

func (m *wireModule) snapshot(src string) *module.Snapshot {
	stmts := make([]*ast.Statement, 0, len(m.Statements))
	for i := range m.Statements {
		stmts = append(stmts, m.Statements[i].statement())
	}
	return &module.Snapshot{
		Name:   m.Name,
		Path:   m.Path,
		Origin: module.Origin(m.Origin),
		Source: src,
		AST:    &ast.Module{Name: m.Name, Statements: stmts},
	}
}

func (s *wireStatement) statement() *ast.Statement {
	return &ast.Statement{
		Kind:       ast.StatementKind(s.Kind),
		Name:       s.Name,
		Span:       source.Span{Start: s.Start, End: s.End},
		Definition: s.Definition.location(),
		Body:       expressions(s.Body),
	}
}

func expressions(in []wireExpr) []*ast.Expression {
	if len(in) == 0 {
		return nil
	}
	out := make([]*ast.Expression, 0, len(in))
	for i := range in {
		e := &in[i]
		out = append(out, &ast.Expression{
			Kind:       ast.ExpressionKind(e.Kind),
			Span:       source.Span{Start: e.Start, End: e.End},
			Type:       e.Type.typ(),
			Definition: e.Definition.location(),
			Children:   expressions(e.Children),
		})
	}
	return out
}

func (d *wireDefinition) location() *ast.DefinitionLocation {
	if d == nil {
		return nil
	}
	return &ast.DefinitionLocation{Module: d.Module, Span: source.Span{Start: d.Start, End: d.End}}
}

func (t *wireType) typ() *types.Type {
	if t == nil {
		return nil
	}
	out := &types.Type{
		Kind:   types.Kind(t.Kind),
		Module: t.Module,
		Name:   t.Name,
		Return: t.Return.typ(),
		VarID:  t.Var,
	}
	for _, a := range t.Args {
		out.Args = append(out.Args, a.typ())
	}
	return out
}

// warning decodes a kind-tagged warning. Unknown kinds are an error so that a
// newer compiler cannot silently drop warnings.
func (w *wireWarning) warning(src string) (warning.Warning, error) {
	at := source.Span{Start: w.Start, End: w.End}
	var d warning.Detail
	switch w.Kind {
	case "todo":
		d = warning.Todo{Kind: warning.TodoKind(w.Todo), At: at, Type: w.Type.typ()}
	case "implicitly_discarded_result":
		d = warning.ImplicitlyDiscardedResult{At: at}
	case "unused_literal":
		d = warning.UnusedLiteral{At: at}
	case "no_fields_record_update":
		d = warning.NoFieldsRecordUpdate{At: at}
	case "all_fields_record_update":
		d = warning.AllFieldsRecordUpdate{At: at}
	case "unused_type":
		d = warning.UnusedType{At: at, Name: w.Name, Imported: w.Imported}
	case "unused_constructor":
		d = warning.UnusedConstructor{At: at, Name: w.Name, Imported: w.Imported}
	case "unused_imported_module":
		d = warning.UnusedImportedModule{At: at, Name: w.Name}
	case "unused_imported_value":
		d = warning.UnusedImportedValue{At: at, Name: w.Name}
	case "unused_private_constant":
		d = warning.UnusedPrivateConstant{At: at, Name: w.Name}
	case "unused_private_function":
		d = warning.UnusedPrivateFunction{At: at, Name: w.Name}
	case "unused_variable":
		d = warning.UnusedVariable{At: at, Name: w.Name}
	default:
		return warning.Warning{}, fmt.Errorf("unknown warning kind %q", w.Kind)
	}
	return warning.Warning{Path: w.Path, Source: src, Detail: d}, nil
}

func (e *wireError) compileError(src string, hasSrc bool) *Error {
	d := diag.Diagnostic{
		Title: e.Title,
		Text:  e.Text,
		Hint:  e.Hint,
		Level: diag.LevelError,
	}
	if e.Path != "" && hasSrc {
		d.Location = &diag.Location{
			Path: e.Path,
			Src:  src,
			Label: diag.Label{
				Text: e.Label,
				Span: source.Span{Start: e.Start, End: e.End},
			},
		}
	}
	return &Error{Diag: d}
}
