// Package match provides predicates that can stand in for a literal value
// inside an event pattern.
//
// A Matcher answers one question: does this runtime value satisfy me?
// Matchers are built once when a handler is registered and are immutable
// afterwards, so a single Matcher may be shared by any number of patterns.
//
// No Matcher ever matches the Unset sentinel or nil. The guard is applied by
// the package for every variant, including those built with Func.
package match
