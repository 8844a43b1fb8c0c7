package customcmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxLastExpressionIsResult(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	out, err := sb.Run(`"hello " + user.name`, testContext())
	require.NoError(t, err)
	assert.Equal(t, "hello alice", out)
}

func TestSandboxTopLevelReturn(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	out, err := sb.Run(`
var x = 2 + 2;
return "result: " + x;
`, testContext())
	require.NoError(t, err)
	assert.Equal(t, "result: 4", out)
}

func TestSandboxContextBindings(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)

	tests := []struct {
		body string
		want string
	}{
		{`user.id`, "111"},
		{`user.mention`, "<@111>"},
		{`server.name`, "Test Server"},
		{`"" + server.members`, "42"},
		{`channel.name`, "general"},
	}
	for _, tt := range tests {
		out, err := sb.Run(tt.body, testContext())
		require.NoError(t, err, tt.body)
		assert.Equal(t, tt.want, out, tt.body)
	}
}

func TestSandboxRandomHelper(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	for i := 0; i < 20; i++ {
		out, err := sb.Run(`"" + random(1, 6)`, testContext())
		require.NoError(t, err)
		assert.Contains(t, []string{"1", "2", "3", "4", "5", "6"}, out)
	}

	// Swapped bounds still work.
	out, err := sb.Run(`"" + random(6, 1)`, testContext())
	require.NoError(t, err)
	assert.Contains(t, []string{"1", "2", "3", "4", "5", "6"}, out)
}

func TestSandboxPickHelper(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	out, err := sb.Run(`pick("a", "b", "c")`, testContext())
	require.NoError(t, err)
	assert.Contains(t, []string{"a", "b", "c"}, out)
}

func TestSandboxInfiniteLoopTimesOut(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(100 * time.Millisecond)
	start := time.Now()
	_, err := sb.Run(`while (true) {}`, testContext())
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestSandboxDivisionByZeroIsDiagnostic(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	_, err := sb.Run(`return 1/0;`, testContext())

	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Message, "non-finite")
}

func TestSandboxRandomExtremeBoundsIsDiagnostic(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	_, err := sb.Run(`return random(-9000000000000000000, 9000000000000000000);`, testContext())

	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Message, "range too large")
}

func TestSandboxThrownErrorSurfaces(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	_, err := sb.Run(`throw new Error("boom")`, testContext())

	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Message, "boom")
}

func TestSandboxSyntaxErrorSurfaces(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	_, err := sb.Run(`this is not javascript ~~~`, testContext())

	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.NotEmpty(t, se.Message)
}

func TestSandboxNoHostCapabilities(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)

	// None of these exist in the runtime; referencing them must be a
	// contained script failure, never host access.
	bodies := []string{
		`require("fs")`,
		`process.exit(1)`,
		`fetch("http://example.com")`,
		`XMLHttpRequest()`,
		`setTimeout(function(){}, 10)`,
	}
	for _, body := range bodies {
		_, err := sb.Run(body, testContext())
		var se *ScriptError
		require.ErrorAs(t, err, &se, body)
	}
}

func TestSandboxNoResultYieldsEmpty(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)

	for _, body := range []string{`var x = 1;`, `undefined`, `null`} {
		out, err := sb.Run(body, testContext())
		require.NoError(t, err, body)
		assert.Equal(t, "", out, body)
	}
}

func TestSandboxObjectResultIsJSON(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	out, err := sb.Run(`({a: 1, b: "two"})`, testContext())
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1, "b": "two"}`, out)

	out, err = sb.Run(`[1, 2, 3]`, testContext())
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, out)
}

func TestSandboxOutputCap(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	_, err := sb.Run(`var s = "x"; for (var i = 0; i < 13; i++) { s += s; } s`, testContext())
	require.ErrorIs(t, err, ErrOutputTooLarge)
}

func TestSandboxDeepRecursionIsContained(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(time.Second)
	_, err := sb.Run(`function f() { return f(); } f()`, testContext())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrOutputTooLarge))
}

func TestSandboxRunsAreIsolated(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)

	_, err := sb.Run(`globalThis.leak = "set"; "ok"`, testContext())
	require.NoError(t, err)

	out, err := sb.Run(`typeof leak`, testContext())
	require.NoError(t, err)
	assert.Equal(t, "undefined", out)
}

func TestSandboxNumberResult(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	out, err := sb.Run(`6 * 7`, testContext())
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestSandboxConcurrentRuns(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(time.Second)
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			out, err := sb.Run(`"hi " + user.name`, testContext())
			if err == nil && out != "hi alice" {
				err = errors.New("unexpected output: " + out)
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}

func TestTrimErrorMessageKeepsFirstLine(t *testing.T) {
	t.Parallel()

	sb := NewSandbox(0)
	_, err := sb.Run("syntax error here (", testContext())
	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.False(t, strings.Contains(se.Message, "\n"))
}
