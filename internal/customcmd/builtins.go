package customcmd

import (
	"fmt"
	"math/rand"
)

// Builtin is one entry of the fixed function registry: a human-readable
// label plus an evaluator. Evaluators are pure or pseudo-random, never do
// I/O, and always terminate in bounded time.
type Builtin struct {
	Label string
	Eval  func(ctx InvocationContext) string
}

// builtins is the compile-time registry. Not user-extensible; stored
// definitions reference entries by name.
var builtins = map[string]Builtin{
	"getJoke": {
		Label: "😂 Random Joke",
		Eval: func(InvocationContext) string {
			j := jokes[rand.Intn(len(jokes))]
			return fmt.Sprintf("**%s**\n%s", j.Setup, j.Punchline)
		},
	},
	"getRoast": {
		Label: "🔥 Random Roast",
		Eval: func(ctx InvocationContext) string {
			r := roasts[rand.Intn(len(roasts))]
			return Render(r, ctx)
		},
	},
	"getFact": {
		Label: "📚 Random Fact",
		Eval: func(InvocationContext) string {
			return facts[rand.Intn(len(facts))]
		},
	},
	"getHebrewWord": {
		Label: "🇮🇱 Random Hebrew Word",
		Eval: func(InvocationContext) string {
			w := hebrewWords[rand.Intn(len(hebrewWords))]
			return fmt.Sprintf("**%s** (*%s*) — %s", w.Word, w.Transliteration, w.Meaning)
		},
	},
	"getMemeCaption": {
		Label: "🎭 Random Meme Caption",
		Eval: func(InvocationContext) string {
			return memeCaptions[rand.Intn(len(memeCaptions))]
		},
	},
	"coinflip": {
		Label: "🎲 Coin Flip",
		Eval: func(InvocationContext) string {
			return coinflipFaces[rand.Intn(2)]
		},
	},
	"eightball": {
		Label: "🎱 8-Ball",
		Eval: func(InvocationContext) string {
			return "🎱 " + eightballAnswers[rand.Intn(len(eightballAnswers))]
		},
	},
	"random_number": {
		Label: "🔢 Random Number",
		Eval: func(InvocationContext) string {
			return fmt.Sprintf("🎲 Your number is **%d**", 1+rand.Intn(100))
		},
	},
}

// LookupBuiltin returns the registry entry for name.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// BuiltinNames returns registry names in stable order for authoring UIs.
func BuiltinNames() []string {
	return []string{
		"getJoke", "getRoast", "getFact", "getHebrewWord",
		"getMemeCaption", "coinflip", "eightball", "random_number",
	}
}
