package akl

import "runtime"

// portState is the block shared between a Port handle and its
// finalizer closure, grounded directly on pyakl/term.py's
// `_PortState` dataclass (initial_stream, stream_tail, closed).
type portState struct {
	tail   *Var
	closed bool
}

// Port is a multi-sender handle whose stream grows with each Send and
// closes — binding its current tail to NIL — when no more references
// to the Port remain. The closing behavior is driven by
// runtime.SetFinalizer rather than explicit Close, mirroring
// pyakl/term.py's `weakref.finalize(self, Port._do_close, self._state)`
// and the Design Notes row "weakref.finalize for port closure" /
// "RAII-style drop on the port handle."
type Port struct {
	state *portState
}

func (p *Port) deref() Term { return p }
func (*Port) isTerm()       {}

// OpenPort allocates a fresh Port together with its initial stream
// tail variable, installs a finalizer that closes the stream if the
// Port becomes unreachable while still open, and returns both —
// matching open_port/2's contract of unifying its first argument with
// the port and its second with the initial tail cell.
func OpenPort(env EnvId) (*Port, *Var) {
	tail := NewVar(env, "")
	state := &portState{tail: tail}
	p := &Port{state: state}
	runtime.SetFinalizer(p, finalizePort)
	return p, tail
}

func finalizePort(p *Port) {
	doClosePort(p.state)
}

func doClosePort(s *portState) {
	if s.closed {
		return
	}
	if s.tail.binding == nil {
		s.tail.binding = NIL
		// Finalizers run outside the worker loop's trail discipline —
		// a closed port's tail binding is never undone, matching
		// §3.5's "A Port dies... its finalizer appends the empty list
		// to its stream tail" with no trail entry, since there is no
		// in-flight Unify call to roll back.
	}
	s.closed = true
}

// Send appends message to p's stream: it allocates a cons (message,
// freshTail), binds the current tail to it via trail (so a Send
// performed speculatively inside a guard can be undone), and advances
// the current tail.
func Send(w *Worker, p *Port, message Term) bool {
	if p.state.closed {
		return false
	}
	freshTail := NewVar(p.state.tail.env, "")
	cell := &Cons{Head: message, Tail: freshTail}
	ok := Unify(p.state.tail, cell, w.trail)
	if !ok {
		return false
	}
	p.state.tail = freshTail
	return true
}
