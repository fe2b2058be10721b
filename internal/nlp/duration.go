package nlp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// unitFactors maps the accepted unit spellings onto their duration.
// Anything not listed here ("a while", "forever") fails rather than guesses.
var unitFactors = map[string]time.Duration{
	"ms": time.Millisecond, "millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

var wordNumbers = map[string]int64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "twelve": 12,
	"twenty": 20, "thirty": 30, "sixty": 60, "ninety": 90,
}

// ParseDurationPhrase deterministically normalizes a human retention phrase
// into a single duration. Accepted forms:
//
//	"24h", "90m"           Go duration syntax
//	"7d", "2w"             day/week shorthand
//	"24 hours", "1 day"    number plus unit word
//	"one day", "a week"    small word-number plus unit word
//
// Ambiguous phrases ("a while", "some time") return an error; the parser
// surfaces that as a parse failure instead of guessing.
func ParseDurationPhrase(phrase string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(phrase))
	if s == "" {
		return 0, fmt.Errorf("empty duration phrase")
	}

	// Go duration syntax first ("24h", "90m", "1h30m").
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("duration %q is not positive", phrase)
		}
		return d, nil
	}

	// Compact day/week shorthand ("7d", "2w") that time.ParseDuration rejects.
	if len(s) > 1 {
		if factor, ok := unitFactors[s[len(s)-1:]]; ok {
			if n, err := strconv.ParseInt(s[:len(s)-1], 10, 64); err == nil {
				return scale(n, factor, phrase)
			}
		}
	}

	// "<number> <unit>" with an optional word-number.
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, fmt.Errorf("cannot interpret duration phrase %q", phrase)
	}

	var n int64
	if parsed, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
		n = parsed
	} else if word, ok := wordNumbers[fields[0]]; ok {
		n = word
	} else {
		return 0, fmt.Errorf("cannot interpret %q as a number in %q", fields[0], phrase)
	}

	factor, ok := unitFactors[fields[1]]
	if !ok {
		return 0, fmt.Errorf("unknown duration unit %q in %q", fields[1], phrase)
	}
	return scale(n, factor, phrase)
}

func scale(n int64, factor time.Duration, phrase string) (time.Duration, error) {
	if n <= 0 {
		return 0, fmt.Errorf("duration %q is not positive", phrase)
	}
	// The multiplication must not wrap into a value the retention bounds
	// would accept.
	if n > math.MaxInt64/int64(factor) {
		return 0, fmt.Errorf("duration %q is too large", phrase)
	}
	return time.Duration(n) * factor, nil
}
