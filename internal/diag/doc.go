// Package diag defines the diagnostic model shared by the frontend, the
// capability pass and the lint engine.
//
// # Data model
//
// Diagnostic is a closed tagged union: Kind says which stage produced it
// (KindFrontend, KindPass, KindLint) and every kind projects onto the same
// fields:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message / Help – human oriented text; keep it short and actionable.
//   - Primary – span in the package offset space of the unit that produced it.
//   - Source – name of the source the span falls in (see WithSource).
//
// Diagnostics are append-only within one compilation: later stages look at
// whether the list is empty to decide whether they may run, so producers must
// never drop or reorder what is already there.
//
// # Emitting diagnostics
//
// Producers either return []Diagnostic or report through a Reporter.
// BagReporter aggregates into a Bag; DedupReporter filters repeated findings.
//
// Package diag does not perform formatting; rendering lives in
// internal/diagfmt.
package diag
