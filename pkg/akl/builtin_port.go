package akl

func init() {
	registerBuiltin("open_port", 2, builtinOpenPort)
	registerBuiltin("send", 2, builtinSend2)
	registerBuiltin("send", 3, builtinSend3)
}

func builtinOpenPort(w *Worker, b *AndBox, args []Term) BuiltinResult {
	p, tail := OpenPort(b.env)
	return boolResult(Unify(args[0], p, w.trail) && Unify(args[1], tail, w.trail))
}

// builtinSend2 is send/2: send(Message, Port), matching send/3's own
// message-first argument order.
func builtinSend2(w *Worker, b *AndBox, args []Term) BuiltinResult {
	p, ok := Deref(args[1]).(*Port)
	if !ok {
		return fail()
	}
	return boolResult(Send(w, p, args[0]))
}

// builtinSend3 is send/3 with an explicit result port, used to chain
// multiple sends: send(Message, OldPort, NewPort).
func builtinSend3(w *Worker, b *AndBox, args []Term) BuiltinResult {
	p, ok := Deref(args[1]).(*Port)
	if !ok {
		return fail()
	}
	if !Send(w, p, args[0]) {
		return fail()
	}
	return boolResult(Unify(args[2], p, w.trail))
}
