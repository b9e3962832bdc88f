package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rickbassham/fitshdr/common"
)

func TestScanForTokens(t *testing.T) {
	got := scanForTokens("{OBJECT}/{FILTER}_{EXPTIME:%.0f}s_")
	want := []token{
		{header: "OBJECT"},
		{raw: true, header: "/"},
		{header: "FILTER"},
		{raw: true, header: "_"},
		{header: "EXPTIME", format: "%.0f"},
		{raw: true, header: "s_"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if tokens := scanForTokens(""); tokens != nil {
		t.Errorf("expected no tokens for an empty pattern, got %+v", tokens)
	}
}

func TestDefaultMap(t *testing.T) {
	d := defaultMap{}
	if err := d.Set("FILTER=RGB;OBS=Me;"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if d["FILTER"] != "RGB" || d["OBS"] != "Me" {
		t.Errorf("unexpected map %v", d)
	}
	if err := d.Set("NOVALUE"); err == nil {
		t.Error("expected an error for a pair without =")
	}
}

func testRenamer(t *testing.T, cfg *Config) *renamer {
	t.Helper()

	r, err := newRenamer(cfg, true, false, discard())
	if err != nil {
		t.Fatalf("newRenamer failed: %v", err)
	}
	return r
}

func TestTokenConvert(t *testing.T) {
	cfg := defaultConfig()
	cfg.Defaults["FILTER"] = "'RGB'"
	cfg.Defaults["GAIN"] = "120"
	cfg.Overrides["OBSERVER"] = "'Me'"
	r := testRenamer(t, cfg)

	hdr := common.Header{
		"EXPOSURE": 300.0,
		"CCD-TEMP": -10.4,
		"XBINNING": int64(2),
		"DATE-OBS": "2021-11-12T23:03:07.123",
		"OBJECT":   "M 8 ",
		"FLIPPED":  true,
		"OBSERVER": "Someone",
		"CRPIX":    [2]float64{1.5, 2},
	}

	tests := []struct {
		tok  token
		want string
	}{
		{token{raw: true, header: "_"}, "_"},
		{token{header: "EXPTIME", format: "%.0f"}, "300"},
		{token{header: "CCD-TEMP", format: "%d"}, "-10"},
		{token{header: "XBINNING", format: "%.1f"}, "2.0"},
		{token{header: "XBINNING"}, "2"},
		{token{header: "DATE-OBS", format: "date2006-01-02"}, "2021-11-12"},
		{token{header: "DATE-OBS", format: "dateunix"}, "1636758187"},
		{token{header: "OBJECT"}, "M 8"},
		{token{header: "FLIPPED"}, "true"},
		{token{header: "FILTER"}, "RGB"},
		{token{header: "GAIN", format: "%04d"}, "0120"},
		{token{header: "OBSERVER"}, "Me"},
		{token{header: "CRPIX"}, "1.5_2"},
	}

	for _, tt := range tests {
		got, err := tt.tok.convert(hdr, r)
		if err != nil {
			t.Fatalf("convert(%+v) failed: %v", tt.tok, err)
		}
		if got != tt.want {
			t.Errorf("convert(%+v): expected %q, got %q", tt.tok, tt.want, got)
		}
	}

	if _, err := (token{header: "MISSING"}).convert(hdr, r); err == nil {
		t.Error("expected an error for a missing header")
	}
	if _, err := (token{header: "OBJECT", format: "date2006"}).convert(hdr, r); err == nil {
		t.Error("expected an error for an unparseable timestamp")
	}
}

func TestFrameType(t *testing.T) {
	tests := map[string]string{
		"Light Frame":    "LIGHT",
		"Tricolor Image": "LIGHT",
		"DARK":           "DARK",
		"Flat":           "FLAT",
		"Bias Frame":     "BIAS",
		"Focus":          "",
	}
	for in, want := range tests {
		if got := frameType(in); got != want {
			t.Errorf("frameType(%s): expected %q, got %q", in, want, got)
		}
	}
}

func TestNewRenamerSuffixCheck(t *testing.T) {
	cfg := defaultConfig()
	cfg.Suffix = ".fits"

	if _, err := newRenamer(cfg, true, false, discard()); err == nil {
		t.Errorf("expected an error for a suffix without %%d")
	}

	r, err := newRenamer(cfg, true, true, discard())
	if err != nil {
		t.Fatalf("newRenamer failed: %v", err)
	}
	if r.formatSuffix {
		t.Error("expected the suffix to be appended verbatim")
	}
}

func TestRenameCmd(t *testing.T) {
	dir := t.TempDir()

	light := filepath.Join(dir, "raw_0001.fits")
	writeFits(t, light,
		card("SIMPLE", "T"),
		card("NAXIS", "0"),
		card("IMAGETYP", "'Light Frame'"),
		card("EXPOSURE", "300."),
		card("FILTER", "'Ha      '"),
	)
	dark := filepath.Join(dir, "raw_0002.fits")
	writeFits(t, dark,
		card("SIMPLE", "T"),
		card("IMAGETYP", "'Dark Frame'"),
		card("EXPTIME", "60"),
	)
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	args := []string{
		"--light", filepath.Join(dir, "lights", "{FILTER}_{EXPTIME:%.0f}s_"),
		"--suffix", "%03d.fits",
		filepath.Join(dir, "*"),
	}
	if err := renameCmd(args, discard()); err != nil {
		t.Fatalf("renameCmd failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "lights", "Ha_300s_000.fits")); err != nil {
		t.Errorf("expected the light to be renamed: %v", err)
	}
	if _, err := os.Stat(light); !os.IsNotExist(err) {
		t.Errorf("expected the original light to be gone, got %v", err)
	}
	if _, err := os.Stat(dark); err != nil {
		t.Errorf("darks have no pattern and should stay put: %v", err)
	}
	if _, err := os.Stat(notes); err != nil {
		t.Errorf("unsupported files should stay put: %v", err)
	}
}

func TestRenameCmdWithData(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "m31.fits")
	writeFits(t, file,
		card("SIMPLE", "T"),
		card("BITPIX", "16"),
		card("NAXIS", "2"),
		card("NAXIS1", "10"),
		card("NAXIS2", "10"),
		card("IMAGETYP", "'Light Frame'"),
		card("OBJECT", "'M31'"),
	)
	f, err := os.OpenFile(file, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, err := f.Write(make([]byte, 2880)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	f.Close()

	args := []string{"--light", filepath.Join(dir, "{OBJECT}_"), file}
	if err := renameCmd(args, discard()); err != nil {
		t.Fatalf("renameCmd failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "M31_000")); err != nil {
		t.Errorf("expected the light to be renamed: %v", err)
	}
}

func TestRenameCmdDigestAndDryRun(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "bias.fit")
	writeFits(t, file, card("SIMPLE", "T"), card("FRAME", "'Bias'"))

	args := []string{
		"--bias", filepath.Join(dir, "bias_{BLAKE3}_"),
		"--dry-run",
		file,
	}
	if err := renameCmd(args, discard()); err != nil {
		t.Fatalf("renameCmd failed: %v", err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("dry run should not rename: %v", err)
	}

	args = args[:2]
	args = append(args, file)
	if err := renameCmd(args, discard()); err != nil {
		t.Fatalf("renameCmd failed: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "bias_*_000"))
	if len(matches) != 1 {
		t.Fatalf("expected one renamed bias, got %v", matches)
	}
	digest := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(matches[0]), "bias_"), "_000")
	if len(digest) != 12 {
		t.Errorf("expected a 12 digit digest, got %q", digest)
	}
}

func TestRenameCmdInvalidKey(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.fits")
	writeFits(t, file, card("SIMPLE", "T"), card("KEY.NAME", "1"))

	err := renameCmd([]string{"--light", "x_", file}, discard())
	if err == nil || !strings.Contains(err.Error(), "KEY.NAME") {
		t.Errorf("expected an error naming KEY.NAME, got %v", err)
	}
}
