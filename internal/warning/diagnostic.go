package warning

import (
	"fmt"

	"lantern/internal/diag"
)

const todoText = "This code will crash if it is run. Be sure to finish it before\nrunning your program."

const incompleteUseText = "\nA use expression must always be followed by at least one more\nexpression."

// ToDiagnostic converts w to its display form. Every Detail kind maps to
// exactly one diagnostic.
func ToDiagnostic(w Warning) diag.Diagnostic {
	var title, text, hint, label string

	switch d := w.Detail.(type) {
	case Todo:
		text = todoText
		switch d.Kind {
		case TodoKeyword:
			title = "Todo found"
		case TodoEmptyFunction:
			title = "Unimplemented function"
		case TodoIncompleteUse:
			title = "Incomplete use expression"
			text += incompleteUseText
		}
		if !d.Type.IsVariable() {
			text += fmt.Sprintf("\n\nHint: I think its type is `%s`.\n", d.Type)
		}
		label = "This code is incomplete"

	case ImplicitlyDiscardedResult:
		title = "Unused result value"
		hint = "If you are sure you don't need it you can assign it to `_`"
		label = "The Result value created here is unused"

	case UnusedLiteral:
		title = "Unused literal"
		hint = "You can safely remove it."
		label = "This value is never used"

	case NoFieldsRecordUpdate:
		title = "Fieldless record update"
		hint = "Add some fields to change or replace it with the record itself."
		label = "This record update doesn't change any fields."

	case AllFieldsRecordUpdate:
		title = "Redundant record update"
		hint = "It is better style to use the record creation syntax."
		label = "This record update specifies all fields"

	case UnusedType:
		hint = "You can safely remove it."
		if d.Imported {
			title, label = "Unused imported type", "This imported type is never used."
		} else {
			title, label = "Unused private type", "This private type is never used."
		}

	case UnusedConstructor:
		hint = "You can safely remove it."
		if d.Imported {
			title, label = "Unused imported item", "This imported constructor is never used."
		} else {
			title, label = "Unused private constructor", "This private constructor is never used."
		}

	case UnusedImportedModule:
		title = "Unused imported module"
		hint = "You can safely remove it."
		label = "This imported module is never used."

	case UnusedImportedValue:
		title = "Unused imported value"
		hint = "You can safely remove it."
		label = "This imported value is never used."

	case UnusedPrivateConstant:
		title = "Unused private constant"
		hint = "You can safely remove it."
		label = "This private constant is never used."

	case UnusedPrivateFunction:
		title = "Unused private function"
		hint = "You can safely remove it."
		label = "This private function is never used."

	case UnusedVariable:
		title = "Unused variable"
		hint = fmt.Sprintf("You can ignore it with an underscore: `_%s`.", d.Name)
		label = "This variable is never used."

	default:
		title = "Unknown warning"
	}

	return diag.Diagnostic{
		Title: title,
		Text:  text,
		Hint:  hint,
		Level: diag.LevelWarning,
		Location: &diag.Location{
			Path: w.Path,
			Src:  w.Source,
			Label: diag.Label{
				Text: label,
				Span: w.Span(),
			},
		},
	}
}
