package akl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPortSendGrowsStream(t *testing.T) {
	prog := NewProgram()

	sols := solveAll(t, prog, "open_port(P, S0), send(hello, P), S0 = [hello|_]")
	require.Len(t, sols, 1)
}

func TestSendFailsOnNonPortArgument(t *testing.T) {
	prog := NewProgram()

	sols := solveAll(t, prog, "send(hello, not_a_port)")
	assert.Len(t, sols, 0)
}

func TestSend3ChainsAcrossMultipleMessages(t *testing.T) {
	prog := NewProgram()

	sols := solveAll(t, prog,
		"open_port(P0, S0), send(a, P0, P1), send(b, P1, P2), S0 = [a,b|_]")
	require.Len(t, sols, 1)

	// Bindings, in first-occurrence order: P0, S0, P1, P2.
	p0, ok := Deref(sols[0].Bindings[0].Value).(*Port)
	require.True(t, ok)
	p1, ok := Deref(sols[0].Bindings[2].Value).(*Port)
	require.True(t, ok)
	p2, ok := Deref(sols[0].Bindings[3].Value).(*Port)
	require.True(t, ok)
	assert.Same(t, p0, p1)
	assert.Same(t, p1, p2)
}

func TestOpenPortEachCallAllocatesADistinctPort(t *testing.T) {
	prog := NewProgram()

	sols := solveAll(t, prog, "open_port(P1, _), open_port(P2, _)")
	require.Len(t, sols, 1)

	p1, ok := Deref(sols[0].Bindings[0].Value).(*Port)
	require.True(t, ok)
	p2, ok := Deref(sols[0].Bindings[2].Value).(*Port)
	require.True(t, ok)
	assert.NotSame(t, p1, p2)
}
