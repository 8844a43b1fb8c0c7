package customcmd

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/dop251/goja"
)

const (
	// DefaultScriptDeadline bounds a single script run wall-clock.
	DefaultScriptDeadline = time.Second

	// maxScriptOutput is the cap on a script result before the run is
	// rejected outright; the dispatcher separately truncates normal output
	// to the platform message limit.
	maxScriptOutput = 4000

	// maxCallStackSize bounds recursion inside the interpreter.
	maxCallStackSize = 512
)

// Sandbox evaluates user-authored scripts in a capability-restricted
// JavaScript interpreter. Each run gets a fresh runtime, so concurrent runs
// share nothing. Scripts see only a read-only snapshot of the invocation
// context, random/pick helpers, and the ECMAScript standard library. No
// filesystem, network, process state, or message-sending handle exists in
// the runtime at all.
type Sandbox struct {
	deadline time.Duration
}

// NewSandbox returns a Sandbox with the given wall-clock deadline per run.
// A non-positive deadline falls back to DefaultScriptDeadline.
func NewSandbox(deadline time.Duration) *Sandbox {
	if deadline <= 0 {
		deadline = DefaultScriptDeadline
	}
	return &Sandbox{deadline: deadline}
}

// Run executes body and returns its result as a string. The deadline is
// enforced by interrupting the interpreter from the host side, so a script
// that never yields (while(true){}) still terminates with ErrTimeout.
// Runtime faults come back as *ScriptError; a script that completes without
// producing a value yields "".
func (sb *Sandbox) Run(body string, ctx InvocationContext) (out string, err error) {
	// goja raises faults as panics in a few edge paths; nothing a script
	// does may crash the dispatching process.
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &ScriptError{Message: fmt.Sprint(r)}
		}
	}()

	prog, err := compileScript(body)
	if err != nil {
		return "", &ScriptError{Message: trimErrorMessage(err)}
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStackSize)
	bindContext(vm, ctx)

	timer := time.AfterFunc(sb.deadline, func() {
		vm.Interrupt(ErrTimeout)
	})
	defer timer.Stop()

	value, err := vm.RunProgram(prog)
	if err != nil {
		if _, ok := err.(*goja.InterruptedError); ok {
			return "", ErrTimeout
		}
		if ex, ok := err.(*goja.Exception); ok {
			return "", &ScriptError{Message: ex.Value().String()}
		}
		return "", &ScriptError{Message: trimErrorMessage(err)}
	}

	if value != nil && !goja.IsUndefined(value) && !goja.IsNull(value) {
		if f, ok := value.Export().(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return "", &ScriptError{Message: "non-finite number (division by zero?)"}
		}
	}

	result := stringifyValue(value)
	if len(result) > maxScriptOutput {
		return "", ErrOutputTooLarge
	}
	return result, nil
}

// compileScript handles the result-vs-expression duality: the body is first
// compiled as a plain program so its final expression is the result; if that
// fails only because of a top-level return statement, it is recompiled as an
// immediately-invoked function so return works.
func compileScript(body string) (*goja.Program, error) {
	prog, err := goja.Compile("command", body, false)
	if err == nil {
		return prog, nil
	}
	if strings.Contains(err.Error(), "Illegal return statement") {
		wrapped := "(function(){\n" + body + "\n})()"
		if prog, werr := goja.Compile("command", wrapped, false); werr == nil {
			return prog, nil
		}
	}
	return nil, err
}

// bindContext installs the curated capability surface: read-only identity
// objects plus random(min, max) and pick(...items).
func bindContext(vm *goja.Runtime, ctx InvocationContext) {
	vm.Set("user", map[string]any{
		"id":      ctx.UserID,
		"name":    ctx.Username,
		"mention": ctx.UserMention(),
	})
	vm.Set("server", map[string]any{
		"id":      ctx.GuildID,
		"name":    ctx.GuildName,
		"members": ctx.MemberCount,
	})
	vm.Set("channel", map[string]any{
		"id":      ctx.ChannelID,
		"name":    ctx.ChannelName,
		"mention": ctx.ChannelMention(),
	})
	vm.Set("random", func(call goja.FunctionCall) goja.Value {
		lo := call.Argument(0).ToInteger()
		hi := call.Argument(1).ToInteger()
		if lo > hi {
			lo, hi = hi, lo
		}
		// hi-lo+1 wraps for extreme bounds; surface that as a script
		// error instead of letting rand.Int63n panic.
		span := hi - lo + 1
		if span <= 0 {
			panic(vm.ToValue("random(): range too large"))
		}
		return vm.ToValue(lo + rand.Int63n(span))
	})
	vm.Set("pick", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Undefined()
		}
		return call.Arguments[rand.Intn(len(call.Arguments))]
	})
}

// stringifyValue renders a script result: nothing for undefined/null,
// JSON for objects and arrays, ToString for everything else.
func stringifyValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	exported := v.Export()
	switch exported.(type) {
	case map[string]any, []any:
		if b, err := json.Marshal(exported); err == nil {
			return string(b)
		}
	}
	return v.String()
}

// trimErrorMessage keeps interpreter errors to their first line; stack
// traces are noise in a chat diagnostic.
func trimErrorMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}
