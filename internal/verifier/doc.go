// Package verifier type-checks programs against the symbol and type model.
//
// Verification runs in phases over every program:
//
//	phase1  declare definitions and queue import-like directives
//	        fixed-point resolution of the queued directives
//	phase2  heritage clauses, generic bounds, signatures, annotated types
//	phase3  overrides, inherited-member shadowing, interface conformance
//	phase4  reserved
//	phase5  reserved
//	phase7  statements and expressions
//
// Package definitions of every program complete all phases before the
// top-level statements of any program are verified. Failures are reported
// to the diag.Unit of the program they occur in and never stop the run.
package verifier
