// Package compiler owns the project compiler as seen by the language server.
//
// A Session wraps at most one Backend. Compile runs the backend against the
// current overlay, installs the resulting module snapshots on success and
// leaves the previous snapshots untouched on failure. Warnings emitted while
// compiling are collected in an explicit accumulator owned by the session and
// handed out exactly once through TakeWarnings.
//
// ExecBackend talks to an out-of-process compiler: a msgpack request with the
// project files goes to its stdin, a msgpack response with typed modules,
// warnings and an optional error comes back on stdout.
package compiler
