package fits

import "strings"

type scanState uint8

const (
	stateOpen       scanState = iota // expecting the opening quote
	stateInside                      // copying string characters
	stateMaybeClose                  // saw a quote: closing, or first half of ''
	stateDone
	stateError
)

// scanStep is the transition function of the quoted string scanner. It
// returns the next state and the byte to append to the buffer, if any.
func scanStep(s scanState, c byte) (next scanState, out byte, emit bool) {
	quote := c == '\''

	switch s {
	case stateOpen:
		if !quote {
			return stateError, 0, false
		}
		return stateInside, 0, false

	case stateInside:
		if quote {
			return stateMaybeClose, 0, false
		}
		return stateInside, c, true

	case stateMaybeClose:
		if quote {
			return stateInside, '\'', true
		}
		return stateDone, 0, false
	}

	return s, 0, false
}

// scanQuoted extracts the string literal at the start of token. A doubled
// quote inside the literal stands for one quote character. Anything after
// the closing quote is ignored, and trailing blanks of the literal are
// trimmed.
func scanQuoted(token string) (string, error) {
	var buf strings.Builder
	state := stateOpen

	for i := 0; i < len(token); i++ {
		next, out, emit := scanStep(state, token[i])
		switch next {
		case stateError:
			return "", &MalformedStringError{Token: token, Reason: "does not start with a quote"}
		case stateDone:
			return strings.TrimRight(buf.String(), " "), nil
		}
		if emit {
			buf.WriteByte(out)
		}
		state = next
	}

	// A closing quote that ends the token.
	if state == stateMaybeClose {
		return strings.TrimRight(buf.String(), " "), nil
	}

	if state == stateOpen {
		return "", &MalformedStringError{Token: token, Reason: "does not start with a quote"}
	}
	return "", &MalformedStringError{Token: token, Reason: "ends prematurely"}
}
