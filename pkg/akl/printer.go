package akl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// printer.go is a Go translation of pyakl/printer.py's precedence-
// aware writer: an operator-table-driven pretty-printer rather than a
// naive recursive-descent one, so its output round-trips through the
// parser for any term it produces.

// WriteTerm renders t as AKL/Prolog source text. When quoted is true,
// atoms requiring it are wrapped in single quotes (write/1 passes
// false, writeq-style callers pass true).
func WriteTerm(t Term, quoted bool) string {
	var sb strings.Builder
	writeOut(&sb, t, 1200, quoted)
	return sb.String()
}

func writeOut(sb *strings.Builder, t Term, maxPrec int, quoted bool) {
	t = Deref(t)
	switch x := t.(type) {
	case *Var:
		sb.WriteString("_" + x.Name())
	case *Atom:
		writeAtom(sb, x.name, quoted)
	case Int:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		sb.WriteString(formatFloat(float64(x)))
	case *Cons:
		writeList(sb, x, quoted)
	case *Port:
		sb.WriteString(fmt.Sprintf("<port:%p>", x))
	case *Reflection:
		sb.WriteString(fmt.Sprintf("<reflection:%s>", x.id.String()))
	case *Compound:
		writeCompound(sb, x, maxPrec, quoted)
	default:
		sb.WriteString(fmt.Sprintf("%v", t))
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeList(sb *strings.Builder, c *Cons, quoted bool) {
	sb.WriteByte('[')
	writeOut(sb, c.Head, 999, quoted)
	cur := Deref(c.Tail)
	for {
		switch x := cur.(type) {
		case *Cons:
			sb.WriteByte(',')
			writeOut(sb, x.Head, 999, quoted)
			cur = Deref(x.Tail)
			continue
		case *Atom:
			if x == NIL {
				sb.WriteByte(']')
				return
			}
		}
		sb.WriteByte('|')
		writeOut(sb, cur, 999, quoted)
		sb.WriteByte(']')
		return
	}
}

func writeCompound(sb *strings.Builder, c *Compound, maxPrec int, quoted bool) {
	name := c.Functor.name

	if len(c.Args) == 2 {
		if def, ok := lookupInfix(name); ok {
			writeInfix(sb, name, def, c.Args[0], c.Args[1], maxPrec, quoted)
			return
		}
	}
	if len(c.Args) == 1 {
		if def, ok := lookupPrefix(name); ok {
			writePrefix(sb, name, def, c.Args[0], maxPrec, quoted)
			return
		}
		if def, ok := lookupPostfix(name); ok {
			writePostfix(sb, name, def, c.Args[0], maxPrec, quoted)
			return
		}
	}
	writeStruct(sb, c, quoted)
}

func writeStruct(sb *strings.Builder, c *Compound, quoted bool) {
	writeAtom(sb, c.Functor.name, quoted)
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeOut(sb, a, 999, quoted)
	}
	sb.WriteByte(')')
}

func writeInfix(sb *strings.Builder, name string, def opDef, left, right Term, maxPrec int, quoted bool) {
	leftMax, rightMax := def.priority, def.priority
	switch def.typ {
	case opXFX:
		leftMax, rightMax = def.priority-1, def.priority-1
	case opXFY:
		leftMax = def.priority - 1
	case opYFX:
		rightMax = def.priority - 1
	}

	needParen := def.priority > maxPrec
	if needParen {
		sb.WriteByte('(')
	}
	writeOut(sb, left, leftMax, quoted)
	if isAlphaOp(name) {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteByte(' ')
	} else {
		sb.WriteString(name)
	}
	writeOut(sb, right, rightMax, quoted)
	if needParen {
		sb.WriteByte(')')
	}
}

func writePrefix(sb *strings.Builder, name string, def opDef, arg Term, maxPrec int, quoted bool) {
	argMax := def.priority
	if def.typ == opFX {
		argMax--
	}
	needParen := def.priority > maxPrec
	if needParen {
		sb.WriteByte('(')
	}
	sb.WriteString(name)
	if isAlphaOp(name) {
		sb.WriteByte(' ')
	}
	writeOut(sb, arg, argMax, quoted)
	if needParen {
		sb.WriteByte(')')
	}
}

func writePostfix(sb *strings.Builder, name string, def opDef, arg Term, maxPrec int, quoted bool) {
	argMax := def.priority
	if def.typ == opXF {
		argMax--
	}
	needParen := def.priority > maxPrec
	if needParen {
		sb.WriteByte('(')
	}
	writeOut(sb, arg, argMax, quoted)
	sb.WriteString(name)
	if needParen {
		sb.WriteByte(')')
	}
}

func isAlphaOp(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(name) > 0
}

func writeAtom(sb *strings.Builder, name string, quoted bool) {
	if quoted && needsQuoting(name) {
		sb.WriteByte('\'')
		for _, r := range name {
			if r == '\'' {
				sb.WriteByte('\'')
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\'')
		return
	}
	sb.WriteString(name)
}

// needsQuoting reports whether name cannot be written as a bare atom:
// it must either start with a lowercase letter and contain only
// alphanumerics/underscore, be one of the reserved symbolic-atom
// forms ([], {}, !, ;), or consist entirely of "symbol" characters.
func needsQuoting(name string) bool {
	if name == "[]" || name == "{}" || name == "!" || name == ";" {
		return false
	}
	if name == "" {
		return true
	}
	runes := []rune(name)
	if unicode.IsLower(runes[0]) {
		for _, r := range runes[1:] {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return true
			}
		}
		return false
	}
	allSymbol := true
	for _, r := range runes {
		if !strings.ContainsRune("+-*/\\^<>=~:.?@#&$", r) {
			allSymbol = false
			break
		}
	}
	return !allSymbol
}
