package fits

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		value Value
		form  valueForm
	}{
		{pad(""), "", Value{}, formBlank},
		{kv("SIMPLE", "T"), "SIMPLE", BoolValue(true), formClassified},
		{kv("BITPIX", "-32 / bits per pixel"), "BITPIX", IntValue(-32), formClassified},
		{kv("EXPTIME", "1.5D+03"), "EXPTIME", FloatValue(1500), formClassified},
		{kv("OBJECT", "'M8      '   / Lagoon"), "OBJECT", TextValue("M8"), formQuoted},
		{kv("NOTE", "'IT''S OK'"), "NOTE", TextValue("IT'S OK"), formQuoted},
		{kv("CPIX", "(1.0,2.0)"), "CPIX", PairValue(1, 2), formClassified},
		{kv("LONGSTR", "_'tail'"), "LONGSTR", TextValue("tail"), formSentinel},
		{kv("EMPTY", ""), "EMPTY", Value{}, formNone},
		{kv("ONLYCOM", "/ nothing here"), "ONLYCOM", Value{}, formNone},
		{bare("HISTORY", "ABCDEFGHIJKLMNOPQRST"), "HISTORY", Value{}, formNone},
		{bare("COMMENT", "  plain words"), "COMMENT", RawValue("plain words"), formClassified},
		{pad("END"), "END", Value{}, formNone},
		{pad("  DATE-O= 5"), "DATE-O", IntValue(5), formClassified},
	}

	for _, tt := range tests {
		c, err := parseCard(tt.line)
		if err != nil {
			t.Fatalf("parseCard(%q) failed: %v", tt.line, err)
		}
		if c.key != tt.key || c.value != tt.value || c.form != tt.form {
			t.Errorf("parseCard(%q): expected %s=%v (%d), got %s=%v (%d)",
				strings.TrimRight(tt.line, " "), tt.key, tt.value, tt.form, c.key, c.value, c.form)
		}
	}
}

func TestParseCardInvalidKey(t *testing.T) {
	for _, key := range []string{"KEY.NAME", "lower", "A B", "KEY*"} {
		_, err := parseCard(kv(key, "1"))
		if !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
		if !strings.Contains(err.Error(), `"`+key+`"`) {
			t.Errorf("key %q: error does not name the key: %v", key, err)
		}
	}
}

func TestParseCardMalformedString(t *testing.T) {
	for _, line := range []string{kv("OBJECT", "'unterminated"), kv("LONGSTR", "_no quote")} {
		_, err := parseCard(line)
		if !errors.Is(err, ErrMalformedString) {
			t.Errorf("parseCard(%q): expected ErrMalformedString, got %v", line, err)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"'Light Frame'", TextValue("Light Frame")},
		{" 300.0 ", FloatValue(300)},
		{"12 / binned", IntValue(12)},
		{"T", BoolValue(true)},
		{"", Value{}},
		{"Light", RawValue("Light")},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		if err != nil {
			t.Fatalf("ParseValue(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseValue(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParseValue("'open"); !errors.Is(err, ErrMalformedString) {
		t.Errorf("expected ErrMalformedString, got %v", err)
	}
}
