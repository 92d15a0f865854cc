package akl

import "strconv"

// parser is a Pratt (operator-precedence) parser over lexer tokens,
// producing Term values using the shared infixOps/prefixOps/postfixOps
// table from operators.go. Higher precedence numbers bind looser, in
// the Prolog convention.
//
// Grounded on pyakl/parser.py's `Parser` class.
type parser struct {
	lx      *lexer
	cur     token
	varMap  map[string]*Var
	tmplEnv EnvId
}

func newParser(source string) (*parser, error) {
	p := &parser{lx: newLexer(source), varMap: make(map[string]*Var), tmplEnv: 0}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.cur.kind != kind {
		return &ParseError{Line: p.cur.line, Message: "expected " + what}
	}
	return p.advance()
}

// currentOpName returns the current token's operator name, if the
// token could name one (an OPERATOR token, an ATOM that happens to be
// declared as an operator, a comma, or a pipe).
func (p *parser) currentOpName() (string, bool) {
	switch p.cur.kind {
	case tokOperator:
		return p.cur.text, true
	case tokAtom:
		if _, ok := lookupInfix(p.cur.text); ok {
			return p.cur.text, true
		}
		if _, ok := lookupPrefix(p.cur.text); ok {
			return p.cur.text, true
		}
		return "", false
	case tokComma:
		return ",", true
	case tokPipe:
		return "|", true
	}
	return "", false
}

// parseTerm parses a term with infix operators up to maxPrec.
func (p *parser) parseTerm(maxPrec int) (Term, error) {
	left, err := p.parsePrefixOrPrimary()
	if err != nil {
		return nil, err
	}

	leftPrec := 0
	for {
		name, ok := p.currentOpName()
		if !ok {
			break
		}
		def, ok := lookupInfix(name)
		if !ok {
			break
		}
		if def.priority > maxPrec {
			break
		}
		// The left operand of an xfx/xfy operator must bind tighter than
		// the operator; only yfx accepts an equal-precedence left operand.
		leftMax := def.priority - 1
		if def.typ == opYFX {
			leftMax = def.priority
		}
		if leftPrec > leftMax {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		var rightPrec int
		switch def.typ {
		case opXFY:
			rightPrec = def.priority
		default: // opXFX, opYFX
			rightPrec = def.priority - 1
		}

		right, err := p.parseTerm(rightPrec)
		if err != nil {
			return nil, err
		}
		left = NewCompound(Intern(name), left, right)
		leftPrec = def.priority
	}

	return left, nil
}

// canStartTerm reports whether the current token could begin a term,
// used to decide whether a prefix operator token is being used as an
// operator application or standing alone as a plain atom.
func (p *parser) canStartTerm() bool {
	switch p.cur.kind {
	case tokVariable, tokInteger, tokFloat, tokAtom, tokQuotedAtom, tokString,
		tokLBracket, tokLParen, tokLBrace:
		return true
	case tokOperator:
		_, ok := lookupPrefix(p.cur.text)
		return ok
	case tokPipe:
		_, ok := lookupPrefix("|")
		return ok
	}
	return false
}

// prefixIsAtom reports whether a prefix operator with priority opPrec
// should be read as a bare atom rather than applied to an argument,
// because what follows cannot be its operand or because a looser-or-
// equal infix operator would otherwise claim it.
func (p *parser) prefixIsAtom(opPrec int) bool {
	if !p.canStartTerm() {
		return true
	}
	if name, ok := p.currentOpName(); ok {
		if def, ok := lookupInfix(name); ok && def.priority >= opPrec {
			return true
		}
	}
	return false
}

func (p *parser) parsePrefixOrPrimary() (Term, error) {
	var opName string
	switch p.cur.kind {
	case tokOperator:
		opName = p.cur.text
	case tokPipe:
		opName = "|"
	case tokAtom:
		if _, ok := lookupPrefix(p.cur.text); ok {
			opName = p.cur.text
		}
	}

	if opName != "" {
		if def, ok := lookupPrefix(opName); ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.prefixIsAtom(def.priority) {
				return Intern(opName), nil
			}
			argPrec := def.priority - 1
			if def.typ == opFY {
				argPrec = def.priority
			}
			arg, err := p.parseTerm(argPrec)
			if err != nil {
				return nil, err
			}
			return NewCompound(Intern(opName), arg), nil
		}
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Term, error) {
	tok := p.cur

	switch tok.kind {
	case tokVariable:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var v *Var
		if tok.text == "_" {
			v = NewVar(p.tmplEnv, "_")
		} else if existing, ok := p.varMap[tok.text]; ok {
			v = existing
		} else {
			v = NewVar(p.tmplEnv, tok.text)
			p.varMap[tok.text] = v
		}
		if p.cur.kind == tokLParen {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokRParen {
				if err := p.advance(); err != nil {
					return nil, err
				}
				return NewCompound(Intern("apply"), v, NIL), nil
			}
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRParen, ")"); err != nil {
				return nil, err
			}
			return NewCompound(Intern("apply"), v, MakeList(args...)), nil
		}
		return v, nil

	case tokInteger:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, &ParseError{Line: tok.line, Message: "invalid integer: " + tok.text}
		}
		return Int(n), nil

	case tokFloat:
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, &ParseError{Line: tok.line, Message: "invalid float: " + tok.text}
		}
		return Float(f), nil

	case tokAtom, tokQuotedAtom, tokOperator:
		return p.parseAtomOrStruct()

	case tokLBracket:
		return p.parseList()

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		term, err := p.parseTerm(1200)
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return term, nil

	case tokLBrace:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseTerm(1200)
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRBrace, "}"); err != nil {
			return nil, err
		}
		return NewCompound(Intern("{}"), inner), nil

	case tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		codes := make([]Term, 0, len(tok.text))
		for _, r := range tok.text {
			codes = append(codes, Int(r))
		}
		return MakeList(codes...), nil
	}

	return nil, &ParseError{Line: tok.line, Message: "unexpected token"}
}

func (p *parser) parseAtomOrStruct() (Term, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	atom := Intern(tok.text)

	if p.cur.kind == tokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokRParen {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return NewCompound(atom), nil
		}
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return NewCompound(atom, args...), nil
	}

	return atom, nil
}

// parseArgList parses comma-separated arguments inside parentheses, at
// precedence 999 so a bare comma always separates arguments rather
// than forming the ','/2 conjunction operator.
func (p *parser) parseArgList() ([]Term, error) {
	first, err := p.parseTerm(999)
	if err != nil {
		return nil, err
	}
	args := []Term{first}
	for p.cur.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseTerm(999)
		if err != nil {
			return nil, err
		}
		args = append(args, next)
	}
	return args, nil
}

func (p *parser) parseList() (Term, error) {
	if err := p.expect(tokLBracket, "["); err != nil {
		return nil, err
	}
	if p.cur.kind == tokRBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NIL, nil
	}

	first, err := p.parseTerm(999)
	if err != nil {
		return nil, err
	}
	elements := []Term{first}
	for p.cur.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseTerm(999)
		if err != nil {
			return nil, err
		}
		elements = append(elements, next)
	}

	tail := Term(NIL)
	if p.cur.kind == tokPipe {
		if err := p.advance(); err != nil {
			return nil, err
		}
		tail, err = p.parseTerm(999)
		if err != nil {
			return nil, err
		}
	}

	if err := p.expect(tokRBracket, "]"); err != nil {
		return nil, err
	}

	result := tail
	for i := len(elements) - 1; i >= 0; i-- {
		result = &Cons{Head: elements[i], Tail: result}
	}
	return result, nil
}

// ParseTerm parses a single term from source, requiring the entire
// input (aside from trailing whitespace) to be consumed.
func ParseTerm(source string) (Term, error) {
	p, err := newParser(source)
	if err != nil {
		return nil, err
	}
	term, err := p.parseTerm(1200)
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, &ParseError{Line: p.cur.line, Message: "unexpected token after term"}
	}
	return term, nil
}

// ParseClauses parses source as a sequence of dot-terminated clauses
// and returns each clause's term in order, resetting the variable name
// map between clauses so that a name reused across clauses — e.g. `X`
// in two unrelated facts — does not alias the same cell.
//
// Grounded on pyakl/parser.py's `parse_clauses` function.
func ParseClauses(source string) ([]Term, error) {
	p, err := newParser(source)
	if err != nil {
		return nil, err
	}

	var clauses []Term
	for p.cur.kind != tokEOF {
		p.varMap = make(map[string]*Var)
		term, err := p.parseTerm(1200)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, term)

		if p.cur.kind == tokDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.cur.kind != tokEOF {
			return nil, &ParseError{Line: p.cur.line, Message: "expected '.' or end of input"}
		}
	}
	return clauses, nil
}
