package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/rickbassham/fitshdr/codec"
	"github.com/rickbassham/fitshdr/fits"
	"github.com/rickbassham/fitshdr/source"
)

func dumpCmd(args []string, stdout io.Writer, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("dump", pflag.ContinueOnError)

	formatName := fs.StringP("format", "f", "ndjson", "Output format: ndjson, yaml or cbor")
	strict := fs.Bool("strict", false, "Fail on header units without an END card")
	skipData := fs.Bool("skip-data", true, "Step over the data unit after each header")
	noDigest := fs.Bool("no-digest", false, "Do not compute the BLAKE3 digest of each file")
	fs.Bool("debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		return errors.New("dump: no input files")
	}

	format, err := codec.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	files, err := globAll(fs.Args())
	if err != nil {
		return err
	}

	policy := fits.Lenient
	if *strict {
		policy = fits.Strict
	}
	parser := fits.NewParser(
		fits.WithEndPolicy(policy),
		fits.WithDataSkip(*skipData),
		fits.WithLogger(logger),
	)

	enc, err := codec.NewEncoder(stdout, format)
	if err != nil {
		return err
	}

	for _, file := range files {
		doc, err := parseFile(parser, file)
		if err != nil {
			return err
		}

		var digest string
		if !*noDigest {
			if digest, err = source.DigestFile(file); err != nil {
				return err
			}
		}

		logger.Debug("parsed file", slog.String("file", file), slog.Int("hdus", doc.Len()))

		for _, rec := range codec.Records(file, digest, doc) {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encoding %s: %w", file, err)
			}
		}
	}

	return enc.Close()
}

func parseFile(p *fits.Parser, file string) (*fits.Document, error) {
	f, err := source.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := p.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return doc, nil
}
