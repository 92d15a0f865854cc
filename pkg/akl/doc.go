// Package akl implements an execution engine for the Andorra Kernel
// Language (AKL), a concurrent constraint logic language whose
// operational semantics is tree rewriting rather than SLD-resolution
// with chronological backtracking.
//
// The package is organized by concern rather than by Go sub-package,
// following the layout of the miniKanren engine it grew out of: term
// algebra, unification and the trail, the and-box/choice-box execution
// tree, the rewriting engine (goal expansion, guard discipline,
// promotion, splitting), builtin dispatch, ports and reflections, the
// clause database, surface syntax, and the REPL driver all live in this
// one package, split across many files named for their concern.
package akl
