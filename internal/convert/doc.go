// Package convert decides whether a value may flow into a context that
// expects another type, and how.
//
// Every successful conversion other than identity and constant folding is
// returned as a *model.Conversion tagged with the rule that allowed it;
// later stages need the tag to materialise the conversion. Failures
// return nil and leave reporting to the caller.
package convert
