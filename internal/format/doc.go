// Package format turns source text into its canonical layout.
//
// Formatter is the contract used by the language server and the CLI. Command
// pipes text through an external formatter named in the project manifest;
// Layout is the built-in fallback that re-indents by bracket depth and
// normalises whitespace without parsing the language.
package format
