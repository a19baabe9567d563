// Package cfa builds the control-flow abstractions backing lowering
// and SPIR-V emission: per-function Scopes (a graph of Function entry,
// BasicBlock, and AnonymousLambda nodes), reverse postorder, dominator
// and post-dominator trees (Cooper-Harvey-Kennedy), dominance
// frontiers, and the loop tree.
//
// The algorithms mirror shady's analysis/scope.c: forward edges model
// Jump/Branch/Switch, structural edges model descent into the nested
// AnonymousLambda bodies of If/Match/Loop/Control/Block instructions
// and Let continuations. Merge*/Return/Join/TailCall/Unreachable are
// scope-local sinks; their real targets are resolved by the
// instructions that introduced the structures they exit, not by this
// package.
package cfa
