package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/rickbassham/fitshdr/thumbnail"
)

func thumbCmd(args []string, stdout io.Writer, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("thumb", pflag.ContinueOnError)

	format := fs.String("format", "jpg", "Thumbnail format: jpg or png")
	quality := fs.Int("quality", 60, "JPEG quality, 0 to 100")
	width := fs.Int("width", 150, "Thumbnail width")
	height := fs.Int("height", 150, "Thumbnail height")
	out := fs.StringP("out", "o", "", "Output path; a temporary file when empty")
	fs.Bool("debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		return errors.New("thumb: expected exactly one input file")
	}

	th, err := thumbnail.New(
		thumbnail.WithFormat(thumbnail.Format(*format)),
		thumbnail.WithQuality(*quality),
		thumbnail.WithSize(*width, *height),
	)
	if err != nil {
		return err
	}

	path, err := th.GenerateFile(fs.Arg(0), *out)
	if err != nil {
		return err
	}

	logger.Debug("wrote thumbnail", slog.String("file", fs.Arg(0)), slog.String("thumbnail", path))
	fmt.Fprintln(stdout, path)
	return nil
}
