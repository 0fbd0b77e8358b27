package ast

// Find returns the innermost node whose span contains offset, or nil. Inside a
// statement the deepest enclosing expression wins; the statement itself is
// returned when no expression encloses offset.
func (m *Module) Find(offset uint32) Located {
	if m == nil {
		return nil
	}
	for _, stmt := range m.Statements {
		if stmt == nil || !stmt.Span.Contains(offset) {
			continue
		}
		if expr := findExpression(stmt.Body, offset); expr != nil {
			return expr
		}
		return stmt
	}
	return nil
}

func findExpression(list []*Expression, offset uint32) *Expression {
	for _, expr := range list {
		if expr == nil || !expr.Span.Contains(offset) {
			continue
		}
		if inner := findExpression(expr.Children, offset); inner != nil {
			return inner
		}
		return expr
	}
	return nil
}
