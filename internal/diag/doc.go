// Package diag defines the diagnostic model shared by the verifier, the
// fixture loader and the CLI.
//
// A Diagnostic carries a Severity (Warning, SyntaxError, VerifyError), a
// numeric Code, a primary source.Span and an Args map of named arguments.
// The human text is not stored: Code owns a message template and
// Diagnostic.Message substitutes the arguments, so diagnostics stay
// data-only and can be cached or compared field by field in tests.
//
// Producers emit through a Reporter. Unit is the per-source-unit sink the
// verifier writes to; it tracks validity (no non-warning collected) and the
// units pulled in by include directives. BagReporter and DedupReporter are
// small adapters for tools that only need a list.
//
// Rendering lives in internal/diagfmt; FormatShort is the one stable
// single-line form used by golden tests.
package diag
