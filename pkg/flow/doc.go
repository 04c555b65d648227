// Package flow defines the activity-diagram graph model and the builder that
// turns parsed flow descriptions into it.
//
// A [Graph] owns the typed nodes, guarded control-flow edges and swimlanes of
// exactly one conversion. Graphs are created by [Build] from a [Document]
// (the contract with the external diagram-source parser), then flow forward
// through the layout, repair and serialization phases. Nothing is shared
// across conversions; independent conversions may run concurrently on
// separate graphs without locking.
//
// # Diagnostics
//
// Non-fatal findings are collected into a [Report] threaded through every
// phase. Callers always receive either (document, diagnostics) or a fatal
// error - never a silently incomplete document.
//
// # Determinism
//
// All accessors return elements in insertion order. Two conversions of an
// identical document produce identical graphs, layouts and serialized output.
package flow
