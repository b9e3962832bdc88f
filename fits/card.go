package fits

import (
	"regexp"
	"strings"
)

var keyRegex = regexp.MustCompile(`^[A-Z0-9_-]{1,8}$`)

// valueForm records how a card's value was written, which decides how the
// HDU accumulator stores it.
type valueForm uint8

const (
	formBlank      valueForm = iota // padding card, no key
	formNone                        // key without a value
	formClassified                  // number, logical, pair or raw token
	formQuoted                      // 'quoted string'
	formSentinel                    // _'string' continuation
)

type card struct {
	key   string
	value Value
	form  valueForm
}

// parseCard splits one 80 byte card into its key and value.
func parseCard(line string) (card, error) {
	if len(line) > LineLength {
		line = line[:LineLength]
	}

	key := strings.TrimSpace(head(line, KeyLength))
	if key == "" {
		return card{form: formBlank}, nil
	}

	if !keyRegex.MatchString(key) {
		return card{}, &InvalidKeyError{Key: key}
	}

	// Columns 9-18 hold the value indicator. Without '=' or a blank in
	// there the card carries no value.
	if !strings.ContainsAny(slice(line, KeyLength, 18), "= ") {
		return card{key: key, form: formNone}, nil
	}

	token := strings.TrimSpace(slice(line, 10, len(line)))
	if token == "" {
		return card{key: key, form: formNone}, nil
	}

	switch token[0] {
	case '\'':
		s, err := scanQuoted(token)
		if err != nil {
			return card{}, err
		}
		return card{key: key, value: TextValue(s), form: formQuoted}, nil

	case continuationSentinel:
		s, err := scanQuoted(token[1:])
		if err != nil {
			if merr, ok := err.(*MalformedStringError); ok {
				merr.Token = token
			}
			return card{}, err
		}
		return card{key: key, value: TextValue(s), form: formSentinel}, nil
	}

	token = stripComment(token)
	if token == "" {
		return card{key: key, form: formNone}, nil
	}

	return card{key: key, value: classify(token), form: formClassified}, nil
}

// stripComment drops an inline "/ comment" from a non-string token.
func stripComment(token string) string {
	if i := strings.IndexByte(token, '/'); i >= 0 {
		token = token[:i]
	}
	return strings.TrimSpace(token)
}

func head(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func slice(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
