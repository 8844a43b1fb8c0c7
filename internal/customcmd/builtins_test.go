package customcmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinNamesAllResolve(t *testing.T) {
	t.Parallel()

	names := BuiltinNames()
	require.Len(t, names, len(builtins))
	for _, name := range names {
		b, ok := LookupBuiltin(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, b.Label, name)
		assert.NotNil(t, b.Eval, name)
	}
}

func TestBuiltinsProduceOutput(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	for _, name := range BuiltinNames() {
		b, _ := LookupBuiltin(name)
		out := b.Eval(ctx)
		assert.NotEmpty(t, out, name)
	}
}

func TestLookupBuiltinUnknown(t *testing.T) {
	t.Parallel()

	_, ok := LookupBuiltin("getNothing")
	assert.False(t, ok)
}

func TestGetRoastMentionsUser(t *testing.T) {
	t.Parallel()

	b, ok := LookupBuiltin("getRoast")
	require.True(t, ok)

	// Every roast template addresses the invoking user.
	for i := 0; i < 30; i++ {
		out := b.Eval(testContext())
		assert.Contains(t, out, "<@111>")
	}
}

func TestCoinflipFaces(t *testing.T) {
	t.Parallel()

	b, _ := LookupBuiltin("coinflip")
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		out := b.Eval(testContext())
		assert.Contains(t, []string{coinflipFaces[0], coinflipFaces[1]}, out)
		seen[out] = true
	}
	assert.Len(t, seen, 2)
}
