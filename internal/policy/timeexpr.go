package policy

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// Time expressions are <number><unit> with no whitespace, unit one of
// m(inutes), h(ours), d(ays), w(eeks).
var timeExprRegex = regexp.MustCompile(`^(\d+)([mhdw])$`)

// ParseTimeExpression parses a duration argument like "30m" or "3d".
// It is validated before any state changes, so a bad expression leaves
// both the ledger and the platform untouched.
func ParseTimeExpression(s string) (time.Duration, error) {
	match := timeExprRegex.FindStringSubmatch(s)
	if match == nil {
		return 0, &InvalidTimeExpressionError{Input: s}
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, &InvalidTimeExpressionError{Input: s}
	}

	var unit time.Duration
	switch match[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	}

	// A count large enough to overflow int64 nanoseconds would wrap to a
	// negative duration and put the expiry in the past.
	if n > math.MaxInt64/int64(unit) {
		return 0, &InvalidTimeExpressionError{Input: s}
	}
	return time.Duration(n) * unit, nil
}
