package fits

import (
	"math"
	"strconv"
	"strings"
)

// fortranExponent maps the Fortran double precision exponent marker to
// the one strconv understands.
var fortranExponent = strings.NewReplacer("D", "E")

// classify converts a trimmed, non-string value token. Tokens the grammar
// has no rule for, and numbers that fail to parse, come back as Raw.
func classify(token string) Value {
	if token == "" {
		return Value{}
	}

	switch first := token[0]; {
	case first >= '0' && first <= '9', first == '+', first == '-':
		return classifyNumber(token)
	case first == 'T':
		return BoolValue(true)
	case first == 'F':
		return BoolValue(false)
	case first == '(':
		if x, y, ok := parsePair(token); ok {
			return PairValue(x, y)
		}
	}

	return RawValue(token)
}

func classifyNumber(token string) Value {
	if strings.ContainsAny(token, ".DE") {
		if f, ok := parseFloat(token); ok {
			return FloatValue(f)
		}
		return RawValue(token)
	}

	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return IntValue(i)
	}

	// Out of int64 range, or a lower case exponent.
	if f, ok := parseFloat(token); ok {
		return FloatValue(f)
	}
	return RawValue(token)
}

func parseFloat(token string) (float64, bool) {
	f, err := strconv.ParseFloat(fortranExponent.Replace(token), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parsePair reads "(x,y)".
func parsePair(token string) (x, y float64, ok bool) {
	if !strings.HasPrefix(token, "(") || !strings.HasSuffix(token, ")") {
		return 0, 0, false
	}

	xs, ys, found := strings.Cut(token[1:len(token)-1], ",")
	if !found {
		return 0, 0, false
	}

	if x, ok = parseFloat(strings.TrimSpace(xs)); !ok {
		return 0, 0, false
	}
	if y, ok = parseFloat(strings.TrimSpace(ys)); !ok {
		return 0, 0, false
	}
	return x, y, true
}
