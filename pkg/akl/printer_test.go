package akl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTermAtomsAndNumbers(t *testing.T) {
	assert.Equal(t, "foo", WriteTerm(Intern("foo"), false))
	assert.Equal(t, "42", WriteTerm(Int(42), false))
}

func TestWriteTermListRoundTrip(t *testing.T) {
	list := MakeList(Int(1), Int(2), Int(3))
	text := WriteTerm(list, false)

	reparsed, err := ParseTerm(text)
	require.NoError(t, err)
	assert.True(t, Variant(list, reparsed))
}

func TestWriteTermInfixOperatorRoundTrip(t *testing.T) {
	original, err := ParseTerm("1 + 2 = 3")
	require.NoError(t, err)

	text := WriteTerm(original, false)
	reparsed, err := ParseTerm(text)
	require.NoError(t, err)

	assert.True(t, Variant(original, reparsed))
}

func TestWriteTermCompoundRoundTrip(t *testing.T) {
	original := NewCompound(Intern("foo"), Int(1), Intern("bar"))
	text := WriteTerm(original, false)

	reparsed, err := ParseTerm(text)
	require.NoError(t, err)
	assert.True(t, Variant(original, reparsed))
}

func TestWriteTermQuotesAtomsNeedingThem(t *testing.T) {
	quoted := WriteTerm(Intern("Foo Bar"), true)
	assert.Contains(t, quoted, "'")

	unquoted := WriteTerm(Intern("Foo Bar"), false)
	assert.NotContains(t, unquoted, "'")
}
