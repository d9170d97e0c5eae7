// Package diag defines the diagnostic model used to report bad
// specifications and bad data.
//
// # Purpose
//
//   - Turn configuration errors raised by the interpreter (a layout with a
//     missing attribute, a row outside a table, an unknown field) into
//     deterministic records pointing at the offending specification node.
//   - Offer light-weight utilities (Reporter, Bag) that let the batch driver
//     and the CLI collect diagnostics without coupling to formatting.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – Location of the specification node (origin file and line).
//   - Notes – optional secondary messages, e.g. the underlying cause.
//
// Errors that implement Coded (interp.ConfigError, spec.SyntaxError) convert
// with FromError; diag itself imports neither package.
//
// # Emitting diagnostics
//
// Producers use a Reporter. BagReporter aggregates diagnostics into a Bag,
// which supports a limit, sorting and deduplication; DedupReporter drops the
// repeats that bulk rendering produces when many roots share a layout.
// FormatShort renders one line per entry for the CLI.
package diag
