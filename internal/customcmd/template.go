package customcmd

import (
	"math/rand"
	"regexp"
	"strconv"
)

var placeholderRegex = regexp.MustCompile(`\{(user|username|server|members|channel|random:-?\d+--?\d+)\}`)

// Render substitutes placeholders in a text command's template. It is total:
// unknown or malformed placeholders pass through as literal text. The string
// is scanned exactly once, so substituted values (e.g. a display name
// containing "{server}") are never re-expanded.
func Render(template string, ctx InvocationContext) string {
	return placeholderRegex.ReplaceAllStringFunc(template, func(token string) string {
		switch token {
		case "{user}":
			return ctx.UserMention()
		case "{username}":
			return ctx.Username
		case "{server}":
			return ctx.GuildName
		case "{members}":
			return strconv.Itoa(ctx.MemberCount)
		case "{channel}":
			return ctx.ChannelMention()
		}
		if lo, hi, ok := parseRandomToken(token); ok {
			return strconv.Itoa(lo + rand.Intn(hi-lo+1))
		}
		return token
	})
}

// parseRandomToken parses "{random:A-B}" and reports whether A <= B with a
// representable span. The range separator is the last '-' not part of B's
// sign, so negative bounds like {random:-5--1} work.
func parseRandomToken(token string) (lo, hi int, ok bool) {
	m := randomTokenRegex.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(m[1])
	hi, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || lo > hi {
		return 0, 0, false
	}
	// hi-lo+1 can wrap for extreme bounds (the true span may exceed
	// MaxInt); a wrapped span is never positive, so treat it as malformed
	// and pass the token through rather than hand rand.Intn a non-positive
	// argument.
	if hi-lo+1 <= 0 {
		return 0, 0, false
	}
	return lo, hi, true
}

var randomTokenRegex = regexp.MustCompile(`^\{random:(-?\d+)-(-?\d+)\}$`)
