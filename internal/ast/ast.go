package ast

import (
	"lantern/internal/source"
	"lantern/internal/types"
)

// StatementKind classifies top-level module statements.
type StatementKind uint8

const (
	StmtInvalid StatementKind = iota
	StmtImport
	StmtFunction
	StmtExternalFunction
	StmtConstant
	StmtTypeDefinition
	StmtTypeAlias
	StmtExternalType
)

func (k StatementKind) String() string {
	switch k {
	case StmtImport:
		return "import"
	case StmtFunction:
		return "function"
	case StmtExternalFunction:
		return "external function"
	case StmtConstant:
		return "constant"
	case StmtTypeDefinition:
		return "type"
	case StmtTypeAlias:
		return "type alias"
	case StmtExternalType:
		return "external type"
	default:
		return "invalid"
	}
}

// ExpressionKind classifies typed expressions.
type ExpressionKind uint8

const (
	ExprInvalid ExpressionKind = iota
	ExprInt
	ExprFloat
	ExprString
	ExprVar
	ExprCall
	ExprFn
	ExprList
	ExprTuple
	ExprSequence
	ExprAssignment
	ExprPipeline
	ExprBinOp
	ExprCase
	ExprRecordAccess
	ExprRecordUpdate
	ExprModuleSelect
	ExprTodo
)

// IsLiteral reports whether the expression is a literal constant.
func (k ExpressionKind) IsLiteral() bool {
	return k == ExprInt || k == ExprFloat || k == ExprString
}

// DefinitionLocation points at the site where a name is defined. Module is
// empty when the definition lives in the module that contains the reference.
type DefinitionLocation struct {
	Module string
	Span   source.Span
}

// Located is the result of resolving a byte offset: either a *Statement or an
// *Expression owned by a Module.
type Located interface {
	Location() source.Span
	DefinitionLocation() (DefinitionLocation, bool)
	located()
}

// Statement is a top-level item of a module.
type Statement struct {
	Kind StatementKind
	Name string // declared name; the imported module for StmtImport
	Span source.Span
	// Definition is set for statements that refer elsewhere, e.g. an import
	// pointing at its module.
	Definition *DefinitionLocation
	Body       []*Expression
}

func (s *Statement) Location() source.Span { return s.Span }

func (s *Statement) DefinitionLocation() (DefinitionLocation, bool) {
	if s.Definition == nil {
		return DefinitionLocation{}, false
	}
	return *s.Definition, true
}

func (*Statement) located() {}

// Expression is a typed expression node.
type Expression struct {
	Kind ExpressionKind
	Span source.Span
	Type *types.Type
	// Definition is the def-site of the value the expression refers to, if any.
	// Literals and most compound expressions have none.
	Definition *DefinitionLocation
	Children   []*Expression
}

func (e *Expression) Location() source.Span { return e.Span }

func (e *Expression) DefinitionLocation() (DefinitionLocation, bool) {
	if e.Definition == nil {
		return DefinitionLocation{}, false
	}
	return *e.Definition, true
}

func (*Expression) located() {}

// Module is the typed AST of one compiled module.
type Module struct {
	Name       string
	Statements []*Statement
}
