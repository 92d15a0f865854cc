package akl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/joeycumines/go-prompt"
)

// ExecuteQuery parses queryText as a single term and solves it against
// prog, writing bindings (or "true") for each solution to out. When
// showAll is true every solution is printed without pausing; otherwise
// the caller is asked " ? " after each one and a line reading ";"
// (surrounding whitespace ignored) requests the next solution,
// anything else stops the search. pool
// may be nil; when set, it backs numberof/2 and reflective_call/3 for
// this query (§4.4, the CLI's --parallel flag).
//
// Grounded on pyakl/repl.py's `execute_query` function.
func ExecuteQuery(queryText string, prog *Program, out io.Writer, in *bufio.Reader, showAll bool, pool *Pool) error {
	queryText = strings.TrimSuffix(strings.TrimSpace(queryText), ".")

	goal, err := ParseTerm(queryText)
	if err != nil {
		fmt.Fprintf(out, "Syntax error: %v\n", err)
		return nil
	}

	queryVars := CollectVars(goal, nil, nil)
	opts := []WorkerOption{WithIO(out, in)}
	if pool != nil {
		opts = append(opts, WithParallelPool(pool))
	}
	w := NewWorker(prog, opts...)

	count := 0
	solveErr := w.Solve(goal, queryVars, func(sol *Solution) bool {
		count++
		if count == 1 {
			fmt.Fprintln(out)
		}
		printSolution(out, sol)

		if showAll {
			fmt.Fprintln(out, " ;")
			return true
		}

		fmt.Fprint(out, " ? ")
		line, _ := in.ReadString('\n')
		return strings.TrimSpace(line) == ";"
	})
	if solveErr != nil {
		return solveErr
	}

	fmt.Fprintln(out)
	if count > 0 {
		fmt.Fprintln(out, "yes")
	} else {
		fmt.Fprintln(out, "no")
	}
	return nil
}

func printSolution(out io.Writer, sol *Solution) {
	if len(sol.Bindings) == 0 {
		fmt.Fprint(out, "true")
		return
	}
	for i, b := range sol.Bindings {
		if i < len(sol.Bindings)-1 {
			fmt.Fprintf(out, "%s = %s,\n", b.Name, WriteTerm(b.Value, false))
		} else {
			fmt.Fprintf(out, "%s = %s", b.Name, WriteTerm(b.Value, false))
		}
	}
}

// REPL is an interactive top-level reading queries with go-prompt's
// line editor and executing each against a shared Program.
//
// Grounded on pyakl/repl.py's `run_repl` function, adapted from its
// readline-via-input() loop to the teacher domain's interactive-CLI
// dependency, github.com/joeycumines/go-prompt (sourced from the
// joeycumines-go-utilpkg example pack, used the way its _example/
// exec-command/main.go drives prompt.New(executor).Run()).
type REPL struct {
	program *Program
	out     io.Writer
	in      *bufio.Reader
	pool    *Pool
}

// NewREPL returns a REPL bound to prog. pool may be nil; when set, it
// backs every query's numberof/2 and reflective_call/3 (§4.4, the
// CLI's --parallel flag).
func NewREPL(prog *Program, pool *Pool) *REPL {
	return &REPL{program: prog, out: os.Stdout, in: bufio.NewReader(os.Stdin), pool: pool}
}

// Run starts the interactive prompt loop; it returns when the user
// exits (Ctrl-D). A "halt" or "halt." line is skipped rather than run
// as a query; it does not end the loop.
func (r *REPL) Run() {
	executor := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		if line == "halt" || line == "halt." {
			return
		}
		if err := ExecuteQuery(line, r.program, r.out, r.in, false, r.pool); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
	}

	p := prompt.New(
		executor,
		prompt.WithPrefix("?- "),
		prompt.WithTitle("goakl"),
	)
	p.Run()
}
