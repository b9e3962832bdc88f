package fits

import (
	"bytes"
	"fmt"
	"strings"
)

// kv renders a "KEY     = value" card.
func kv(key, value string) string {
	return pad(fmt.Sprintf("%-8s= %s", key, value))
}

// bare renders a card with nothing after the key field but text.
func bare(key, text string) string {
	return pad(fmt.Sprintf("%-8s%s", key, text))
}

func end() string { return pad("END") }

func pad(card string) string {
	if len(card) > LineLength {
		panic("card too long: " + card)
	}
	return card + strings.Repeat(" ", LineLength-len(card))
}

// blocks joins cards and pads the result with blank cards to a whole
// number of blocks.
func blocks(cards ...string) []byte {
	var buf bytes.Buffer
	for _, c := range cards {
		buf.WriteString(c)
	}
	if rem := buf.Len() % BlockLength; rem != 0 || buf.Len() == 0 {
		buf.WriteString(strings.Repeat(" ", BlockLength-rem))
	}
	return buf.Bytes()
}
