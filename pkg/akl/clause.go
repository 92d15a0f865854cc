package akl

// Clause is a preprocessed source clause: a head, an optional guard
// goal and its guard kind, and a body (a flattened conjunction of
// goals). All three (head, guard, body) share the same set of
// template *Var cells allocated when the clause was parsed — a single
// clause instantiation (instantiateClause) copies head+guard+body
// through one shared variable map so that a variable name reused
// across them shares one fresh cell in the copy, exactly as §4.2.2
// requires.
//
// Grounded on pyakl/program.py's `Clause` dataclass.
type Clause struct {
	Head      Term
	Guard     Term // nil when GuardKind == GuardNone
	GuardKind GuardType
	Body      []Term
	Source    Term // the original, unsplit parsed term, kept for the printer
}

// IsFact reports whether c has no guard and an empty body.
func (c *Clause) IsFact() bool {
	return c.Guard == nil && len(c.Body) == 0
}

// Functor returns the clause head's functor atom (NIL-arity heads are
// bare atoms).
func (c *Clause) Functor() *Atom {
	switch h := c.Head.(type) {
	case *Atom:
		return h
	case *Compound:
		return h.Functor
	default:
		panic("akl: clause head is neither atom nor compound")
	}
}

// Arity returns the clause head's arity.
func (c *Clause) Arity() int {
	switch h := c.Head.(type) {
	case *Atom:
		return 0
	case *Compound:
		return len(h.Args)
	default:
		panic("akl: clause head is neither atom nor compound")
	}
}

var guardOperatorKind = map[string]GuardType{
	"?":  GuardWait,
	"??": GuardQuietWait,
	"->": GuardArrow,
	"|":  GuardCommit,
	"!":  GuardCut,
}

// compileClause converts one parsed clause term — either a bare head
// (fact) or `Head :- Rest` — into a Clause. Rest's outermost functor,
// if one of ?, ??, ->, |, !, splits it into guard and body; otherwise
// the whole of Rest is the body under GuardNone.
func compileClause(source Term) (*Clause, error) {
	if neck, ok := source.(*Compound); ok && neck.Functor.name == ":-" && len(neck.Args) == 2 {
		head := neck.Args[0]
		rest := neck.Args[1]

		if g, ok := rest.(*Compound); ok && len(g.Args) == 2 {
			if kind, isGuard := guardOperatorKind[g.Functor.name]; isGuard {
				return &Clause{
					Head:      head,
					Guard:     g.Args[0],
					GuardKind: kind,
					Body:      flattenConjunction(g.Args[1]),
					Source:    source,
				}, nil
			}
		}

		return &Clause{
			Head:      head,
			GuardKind: GuardNone,
			Body:      flattenConjunction(rest),
			Source:    source,
		}, nil
	}

	return &Clause{Head: source, GuardKind: GuardNone, Source: source}, nil
}

// flattenConjunction walks a right-associative chain of ','/2 goals
// into a flat, left-to-right slice.
func flattenConjunction(t Term) []Term {
	var out []Term
	var walk func(Term)
	walk = func(t Term) {
		if c, ok := t.(*Compound); ok && c.Functor.name == "," && len(c.Args) == 2 {
			walk(c.Args[0])
			walk(c.Args[1])
			return
		}
		out = append(out, t)
	}
	walk(t)
	return out
}

// instantiateClause deep-copies c's head, guard and body into a fresh
// child environment of parentEnv, sharing the copy's variable map
// across all three parts (§4.2.2: "reused name ⇒ same fresh cell
// within the one clause copy"). It returns the fresh and-box env, the
// copied pieces and the fresh variables; the caller still owes
// unifying the call-site arguments
// against the copied head.
func instantiateClause(arena *envArena, parentEnv EnvId, c *Clause) (env EnvId, head, guard Term, body []Term, localVars []*Var) {
	env = arena.Child(parentEnv)
	seen := make(map[*Var]*Var)

	head = copyTerm(c.Head, env, seen)
	if c.Guard != nil {
		guard = copyTerm(c.Guard, env, seen)
	}
	body = make([]Term, len(c.Body))
	for i, g := range c.Body {
		body[i] = copyTerm(g, env, seen)
	}

	localVars = make([]*Var, 0, len(seen))
	for _, v := range seen {
		localVars = append(localVars, v)
	}
	return env, head, guard, body, localVars
}
