package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"
)

func TestThumbCmd(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	f, err := fitsio.Create(&buf)
	if err != nil {
		t.Fatalf("fitsio.Create failed: %v", err)
	}
	img := fitsio.NewImage(8, []int{16, 8})
	defer img.Close()
	if err := img.Write(make([]byte, 16*8)); err != nil {
		t.Fatalf("image Write failed: %v", err)
	}
	if err := f.Write(img); err != nil {
		t.Fatalf("file Write failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	in := filepath.Join(dir, "m8.fits")
	if err := os.WriteFile(in, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	out := filepath.Join(dir, "m8.png")

	var stdout bytes.Buffer
	args := []string{"--format", "png", "--width", "8", "--height", "4", "-o", out, in}
	if err := thumbCmd(args, &stdout, discard()); err != nil {
		t.Fatalf("thumbCmd failed: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != out {
		t.Errorf("expected %s on stdout, got %q", out, stdout.String())
	}

	pf, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer pf.Close()

	cfg, err := png.DecodeConfig(pf)
	if err != nil {
		t.Fatalf("png.DecodeConfig failed: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 4 {
		t.Errorf("expected 8x4, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestThumbCmdErrors(t *testing.T) {
	if err := thumbCmd(nil, &bytes.Buffer{}, discard()); err == nil {
		t.Error("expected an error without an input file")
	}
	if err := thumbCmd([]string{"--quality", "200", "x.fits"}, &bytes.Buffer{}, discard()); err == nil {
		t.Error("expected an error for quality 200")
	}
}
