// Command akl is the AKL execution engine's command-line entry point:
// consult files given as positional arguments, then either run a
// single query (-e) or drop into an interactive REPL.
//
// Grounded on the teacher's cmd/example/main.go entry-point shape
// (package main, a handful of top-level functions dispatched from
// main), adapted to drive the REPL instead of printing fixed demos.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gitrdm/goakl/pkg/akl"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("akl", flag.ContinueOnError)
	execute := fs.String("e", "", "execute query and exit")
	fs.StringVar(execute, "execute", "", "execute query and exit")
	showAll := fs.Bool("all", false, "show all solutions without prompting")
	verbose := fs.Bool("v", false, "enable debug logging")
	parallel := fs.Int("parallel", 0, "size of the worker pool backing numberof/2 and reflective_call/3 (0 disables pooling)")
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *verbose {
		akl.SetLogLevel(logrus.DebugLevel)
	}

	var pool *akl.Pool
	if *parallel > 0 {
		pool = akl.NewPool(*parallel)
		defer pool.Shutdown()
	}

	program := akl.NewProgram()
	for _, path := range fs.Args() {
		if err := program.LoadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
			return 1
		}
		fmt.Printf("%% Loaded %s\n", path)
	}

	if *execute != "" {
		if err := akl.ExecuteQuery(*execute, program, os.Stdout, bufio.NewReader(os.Stdin), *showAll, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return 0
	}

	akl.NewREPL(program, pool).Run()
	return 0
}
