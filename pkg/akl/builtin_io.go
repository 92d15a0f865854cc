package akl

import (
	"bufio"
	"fmt"
	"strings"
)

// readOneTerm reads runes from r up to and including the first
// unquoted, unescaped '.' that is followed by whitespace or EOF — the
// clause terminator convention every other builtin_*.go file's parser
// companion (lexer.go) also uses.
func readOneTerm(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	inQuote := rune(0)
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			if sb.Len() == 0 {
				return "", err
			}
			return sb.String(), nil
		}
		sb.WriteRune(ch)
		if inQuote != 0 {
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			inQuote = ch
		case '.':
			next, _, err := r.ReadRune()
			if err != nil || next == ' ' || next == '\n' || next == '\t' || next == '\r' {
				return sb.String(), nil
			}
			sb.WriteRune(next)
		}
	}
}

func init() {
	registerBuiltin("write", 1, builtinWrite)
	registerBuiltin("writeln", 1, builtinWriteln)
	registerBuiltin("nl", 0, builtinNl)
	registerBuiltin("put", 1, builtinPut)
	registerBuiltin("format", 1, builtinFormat1)
	registerBuiltin("format", 2, builtinFormat2)
	registerBuiltin("read_term", 2, builtinReadTerm)
	registerBuiltin("getc", 2, builtinGetc)
	registerBuiltin("fflush", 1, builtinFflush)
}

func builtinWrite(w *Worker, b *AndBox, args []Term) BuiltinResult {
	fmt.Fprint(w.stdout, WriteTerm(args[0], false))
	return success()
}

func builtinWriteln(w *Worker, b *AndBox, args []Term) BuiltinResult {
	fmt.Fprintln(w.stdout, WriteTerm(args[0], false))
	return success()
}

func builtinNl(w *Worker, b *AndBox, args []Term) BuiltinResult {
	fmt.Fprintln(w.stdout)
	return success()
}

func builtinPut(w *Worker, b *AndBox, args []Term) BuiltinResult {
	n, ok := Deref(args[0]).(Int)
	if !ok {
		return fail()
	}
	fmt.Fprintf(w.stdout, "%c", rune(n))
	return success()
}

func builtinFormat1(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return runFormat(w, args[0], NIL)
}

func builtinFormat2(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return runFormat(w, args[0], args[1])
}

// runFormat implements the `~w`, `~q`, `~a`, `~n`, `~~` codes of
// format/1,2 (§4.3).
func runFormat(w *Worker, fmtTerm, argsTerm Term) BuiltinResult {
	spec, ok := formatString(Deref(fmtTerm))
	if !ok {
		return fail()
	}
	fargs, tail := ListSlice(argsTerm)
	if Deref(argsTerm) != NIL && tail != NIL {
		fargs = []Term{argsTerm}
	}

	var sb strings.Builder
	ai := 0
	runes := []rune(spec)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '~' || i+1 >= len(runes) {
			sb.WriteRune(r)
			continue
		}
		i++
		switch runes[i] {
		case 'w', 'q':
			quoted := runes[i] == 'q'
			if ai < len(fargs) {
				sb.WriteString(WriteTerm(fargs[ai], quoted))
				ai++
			}
		case 'a':
			if ai < len(fargs) {
				if at, ok := Deref(fargs[ai]).(*Atom); ok {
					sb.WriteString(at.name)
				} else {
					sb.WriteString(WriteTerm(fargs[ai], false))
				}
				ai++
			}
		case 'n':
			sb.WriteByte('\n')
		case '~':
			sb.WriteByte('~')
		default:
			sb.WriteByte('~')
			sb.WriteRune(runes[i])
		}
	}
	fmt.Fprint(w.stdout, sb.String())
	return success()
}

// formatString accepts either an atom or a code-list as the format
// spec, matching common Prolog format/2 usage.
func formatString(t Term) (string, bool) {
	if a, ok := t.(*Atom); ok && a != NIL {
		return a.name, true
	}
	elems, tail := ListSlice(t)
	if tail != NIL {
		return "", false
	}
	var sb strings.Builder
	for _, e := range elems {
		n, ok := Deref(e).(Int)
		if !ok {
			return "", false
		}
		sb.WriteRune(rune(n))
	}
	return sb.String(), true
}

// builtinReadTerm reads one clause-terminated term from stdin,
// returning term(T) on success or exception(end_of_file) at EOF
// (§4.3).
func builtinReadTerm(w *Worker, b *AndBox, args []Term) BuiltinResult {
	src, err := readOneTerm(w.stdin)
	if err != nil {
		return boolResult(Unify(args[1], NewCompound(Intern("exception"), Intern("end_of_file")), w.trail))
	}
	terms, perr := ParseClauses(src)
	if perr != nil || len(terms) == 0 {
		return boolResult(Unify(args[1], NewCompound(Intern("exception"), Intern("end_of_file")), w.trail))
	}
	env := b.env
	term := CopyTerm(terms[0], env)
	return boolResult(Unify(args[0], term, w.trail) &&
		Unify(args[1], NewCompound(Intern("term"), term), w.trail))
}

// builtinGetc reads a single character code from stdin.
func builtinGetc(w *Worker, b *AndBox, args []Term) BuiltinResult {
	r, _, err := w.stdin.ReadRune()
	if err != nil {
		return boolResult(Unify(args[1], Int(-1), w.trail))
	}
	return boolResult(Unify(args[1], Int(r), w.trail))
}

// builtinFflush is a no-op: the engine writes to w.stdout unbuffered
// via fmt.Fprint, so there is nothing to flush. Kept as a builtin
// since pyakl scripts call it unconditionally between batched queries.
func builtinFflush(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return success()
}
