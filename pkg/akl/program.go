package akl

import (
	"fmt"
	"os"
	"sync"
)

// Predicate is every clause defining one name/arity.
//
// Grounded on pyakl/program.py's `Predicate` dataclass.
type Predicate struct {
	Name    string
	Arity   int
	Clauses []*Clause
}

type predKey struct {
	name  string
	arity int
}

// Program is the clause database: predicates indexed by name/arity.
// It is loaded before execution and is read-only during execution:
// AddClause refuses to add a clause while a solve is in progress
// (§5, "Shared resources").
//
// Grounded on pyakl/program.py's `Program` class.
type Program struct {
	mu         sync.RWMutex
	predicates map[predKey]*Predicate
	arena      *envArena

	// solving is set while a Worker is actively inside Solve, so that
	// AddClause can refuse to run concurrently with a live solve — see
	// DESIGN.md's resolution of the "consult/1 during live execution"
	// open question: this engine forbids it and errors out rather
	// than snapshotting the predicate table per goal.
	solving bool
}

// NewProgram returns an empty clause database.
func NewProgram() *Program {
	return &Program{
		predicates: make(map[predKey]*Predicate),
		arena:      newEnvArena(),
	}
}

// AddClause compiles term and appends it to its predicate's clause
// list, creating the predicate if this is its first clause.
func (p *Program) AddClause(term Term) error {
	c, err := compileClause(term)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.solving {
		return &ConsultError{Reason: "cannot modify the clause database while a goal is executing"}
	}

	key := predKey{c.Functor().Name(), c.Arity()}
	pred, ok := p.predicates[key]
	if !ok {
		pred = &Predicate{Name: key.name, Arity: key.arity}
		p.predicates[key] = pred
	}
	pred.Clauses = append(pred.Clauses, c)
	return nil
}

// Lookup returns the predicate for name/arity, or nil if none exists.
func (p *Program) Lookup(name string, arity int) *Predicate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.predicates[predKey{name, arity}]
}

// Clauses returns the clause list for name/arity, or nil.
func (p *Program) Clauses(name string, arity int) []*Clause {
	if pred := p.Lookup(name, arity); pred != nil {
		return pred.Clauses
	}
	return nil
}

// Len returns the number of distinct predicates loaded.
func (p *Program) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.predicates)
}

// LoadString parses source as a sequence of clauses and adds each to
// p in order.
func (p *Program) LoadString(source string) error {
	clauses, err := ParseClauses(source)
	if err != nil {
		return err
	}
	for _, term := range clauses {
		if err := p.AddClause(term); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads path and loads it via LoadString, wrapping any
// failure as a ConsultError (§7).
func (p *Program) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConsultError{Reason: fmt.Sprintf("reading %s: %v", path, err)}
	}
	if err := p.LoadString(string(data)); err != nil {
		return &ConsultError{Reason: fmt.Sprintf("loading %s: %v", path, err)}
	}
	return nil
}

// beginSolving and endSolving bracket a Worker.Solve call so AddClause
// can detect and refuse concurrent modification.
func (p *Program) beginSolving() {
	p.mu.Lock()
	p.solving = true
	p.mu.Unlock()
}

func (p *Program) endSolving() {
	p.mu.Lock()
	p.solving = false
	p.mu.Unlock()
}
