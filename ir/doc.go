// Package ir defines the hash-consed, typed intermediate representation
// used throughout shadyc.
//
// The IR is the universal medium for every pass in the pipeline: a
// uniquely-interned node graph where structural equality is pointer
// equality (hash-consing), and where an Arena's configuration
// (Config) determines which invariants currently hold for the nodes
// it owns — whether names are bound, whether types are checked,
// whether constant folding is permitted, and so on.
//
// # Node families
//
// Every IR entity is a *Node with a discriminating Tag and a
// tag-specific Payload. Nodes fall into six disjoint families:
//
//   - types: Int, Bool, Float, Mask, Ptr, Record, FnType, Qualified, Array
//   - values: IntLiteral, True, False, Variable, Unbound, UntypedNumber
//   - instructions: PrimOp, Call, If, Match, Loop, Control, Block
//   - terminators: Jump, Branch, Switch, Return, Let, Join, MergeBreak,
//     MergeContinue, MergeYield, TailCall, Unreachable
//   - abstractions: Function, BasicBlock, AnonymousLambda
//   - declarations: GlobalVariable, Constant, Root
//
// # Arenas
//
// A Node lives in exactly one Arena. Two structurally equal nodes
// constructed in the same arena are identical: pointer equality is
// semantic equality. Arenas are destroyed whole — releasing one frees
// every node it owns.
//
// # References
//
// This IR's control-flow model (basic blocks and anonymous lambdas
// connected by structural and forward edges, analyzed via dominance
// and loop trees) is adapted from the shady compiler
// (https://github.com/Hugobros3/shady); the node/arena/registry
// plumbing follows the conventions of gogpu/naga.
package ir
