package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func card(key, value string) string {
	s := key + strings.Repeat(" ", 8-len(key)) + "= " + value
	return s + strings.Repeat(" ", 80-len(s))
}

// writeFits writes a header-only FITS file holding cards and END.
func writeFits(t *testing.T, path string, cards ...string) {
	t.Helper()

	data := strings.Join(cards, "") + strings.Repeat(" ", 80) // blank card
	data += "END" + strings.Repeat(" ", 77)
	data += strings.Repeat(" ", 2880-len(data)%2880)

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
