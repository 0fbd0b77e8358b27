// Package diag defines the diagnostic model shared by the compiler session,
// the feedback bookkeeper and the renderers.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Title – one line summary, e.g. "Unused variable".
//   - Text – optional free-form body.
//   - Hint – optional suggestion shown after the body.
//   - Level – Error or Warning.
//   - Location – optional; the path, the full source text and a primary
//     Label (span + message) plus any secondary labels.
//
// Diagnostics carry the source text they point into so that a renderer can
// produce an excerpt without touching the file system, and so that the
// language server can convert spans to editor ranges for exactly the text the
// compiler saw.
//
// # Errors
//
// Errors that surface through a request (file IO, compile, format) implement
// Reportable. FromError falls back to a location-less diagnostic for anything
// else.
//
// # Consumers
//
//   - internal/diagfmt renders diagnostics for terminals.
//   - internal/lsp converts them to protocol diagnostics.
package diag
