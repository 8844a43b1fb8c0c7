package customcmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// DiagnosticPrefix marks output that replaced a failed evaluation, so
// operators can tell failures apart from intended command output.
const DiagnosticPrefix = "⚠️ "

// Output is the result of a matched dispatch: the text to deliver and the
// matched command's display hint.
type Output struct {
	Text  string
	Embed bool
}

// Evaluator runs one definition against one context, selecting the
// evaluation path by Kind. Failures never escape as errors; they come back
// as diagnostic-prefixed text.
type Evaluator struct {
	sandbox *Sandbox
}

// NewEvaluator returns an Evaluator whose scripts run under the given
// wall-clock deadline.
func NewEvaluator(sandbox *Sandbox) *Evaluator {
	return &Evaluator{sandbox: sandbox}
}

// Evaluate produces the output string for a definition. Templates never
// fail; an unknown built-in (registry drift after an edit or a registry
// change) and every sandbox failure produce a visible diagnostic instead of
// silence.
func (e *Evaluator) Evaluate(def Definition, ctx InvocationContext) string {
	switch def.Kind {
	case KindText:
		return Render(def.Response, ctx)
	case KindFunction:
		b, ok := LookupBuiltin(def.FunctionName)
		if !ok {
			return fmt.Sprintf("%sUnknown built-in function %q — edit `%s` to fix it.",
				DiagnosticPrefix, def.FunctionName, def.Trigger)
		}
		return b.Eval(ctx)
	case KindCode:
		out, err := e.sandbox.Run(def.Code, ctx)
		if err != nil {
			return scriptDiagnostic(err)
		}
		return out
	default:
		return fmt.Sprintf("%sCommand `%s` has unknown type %q.", DiagnosticPrefix, def.Trigger, def.Kind)
	}
}

func scriptDiagnostic(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return DiagnosticPrefix + "Script timed out."
	case errors.Is(err, ErrOutputTooLarge):
		return DiagnosticPrefix + "Script output too large."
	}
	var se *ScriptError
	if errors.As(err, &se) {
		return DiagnosticPrefix + "Script error: " + se.Message
	}
	return DiagnosticPrefix + "Script failed: " + err.Error()
}

// Dispatcher resolves inbound messages against a guild's stored commands.
// It owns all per-actor rate-limit state explicitly; nothing here lives in
// package-level maps, so tests get clean isolation.
type Dispatcher struct {
	store Store
	eval  *Evaluator

	limit rate.Limit
	burst int

	mu     sync.Mutex
	actors map[string]*rate.Limiter
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithActorLimit applies a per-actor token bucket to dispatches. Without
// this option dispatch is unlimited.
func WithActorLimit(limit rate.Limit, burst int) DispatcherOption {
	return func(d *Dispatcher) {
		d.limit = limit
		d.burst = burst
	}
}

// NewDispatcher returns a Dispatcher over the given store and evaluator.
func NewDispatcher(store Store, eval *Evaluator, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		eval:   eval,
		actors: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch matches raw message text against the guild's triggers and
// evaluates the matched command. The bool reports whether anything matched;
// false is the normal outcome for ordinary chat messages and for
// rate-limited actors, never an error. Output text is truncated to the
// platform message limit.
func (d *Dispatcher) Dispatch(guildID string, ctx InvocationContext, raw string) (Output, bool) {
	defs, err := d.store.ListCommands(guildID)
	if err != nil || len(defs) == 0 {
		return Output{}, false
	}

	def, ok := matchTrigger(defs, raw)
	if !ok {
		return Output{}, false
	}

	if !d.allowActor(guildID, ctx.UserID) {
		return Output{}, false
	}

	text := truncate(d.eval.Evaluate(def, ctx), MessageLimit)
	return Output{Text: text, Embed: def.Embed}, true
}

// matchTrigger normalizes the message and finds the matching definition:
// exact trigger, or trigger followed by a space and argument text. Longer
// triggers win over shorter ones so overlapping triggers resolve
// deterministically.
func matchTrigger(defs []Definition, raw string) (Definition, bool) {
	content := strings.ToLower(strings.TrimSpace(raw))
	if content == "" {
		return Definition{}, false
	}

	sorted := make([]Definition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i].Trigger) != len(sorted[j].Trigger) {
			return len(sorted[i].Trigger) > len(sorted[j].Trigger)
		}
		return sorted[i].Trigger < sorted[j].Trigger
	})

	for _, def := range sorted {
		if content == def.Trigger || strings.HasPrefix(content, def.Trigger+" ") {
			return def, true
		}
	}
	return Definition{}, false
}

// allowActor consults the per-actor token bucket, creating it lazily.
func (d *Dispatcher) allowActor(guildID, userID string) bool {
	if d.limit == 0 {
		return true
	}

	key := guildID + ":" + userID
	d.mu.Lock()
	lim, ok := d.actors[key]
	if !ok {
		// Drop the whole map when it grows unreasonably; idle buckets refill
		// to full anyway, so forgetting them only resets bursts.
		if len(d.actors) > 4096 {
			d.actors = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(d.limit, d.burst)
		d.actors[key] = lim
	}
	d.mu.Unlock()

	return lim.Allow()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
