package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/yargevad/filepathx"

	"github.com/rickbassham/fitshdr/common"
	"github.com/rickbassham/fitshdr/fits"
	"github.com/rickbassham/fitshdr/source"
	"github.com/rickbassham/fitshdr/xisf"
)

// digestKey is the pseudo keyword holding the start of a file's BLAKE3
// digest.
const digestKey = "BLAKE3"

var checkSuffix = regexp.MustCompile(`%\d*d`)

type defaultMap map[string]string

func (d defaultMap) String() string {
	if d == nil {
		return ""
	}

	var result strings.Builder

	for k, v := range d {
		result.WriteString(fmt.Sprintf("%s=%s;", k, v))
	}

	return result.String()
}

func (d defaultMap) Set(s string) error {
	pairs := strings.Split(s, ";")
	for i := range pairs {
		if pairs[i] == "" {
			continue
		}

		kv := strings.SplitN(pairs[i], "=", 2)
		if len(kv) != 2 {
			return errors.New("invalid defaults value")
		}

		d[kv[0]] = kv[1]
	}

	return nil
}

func (d defaultMap) Type() string { return "KEY=VALUE;..." }

type token struct {
	raw    bool
	header string
	format string
}

func scanForTokens(data string) []token {
	var tokens []token

	for i := 0; i < len(data); i++ {
		nextTokenStart := strings.Index(data[i:], "{")
		nextTokenEnd := strings.Index(data[i:], "}")

		if nextTokenStart == 0 && nextTokenEnd > 0 {
			// inside a {} token; look for a format specifier
			formatIndex := strings.Index(data[i:i+nextTokenEnd], ":")
			if formatIndex > 0 {
				tokens = append(tokens, token{
					header: data[i+1 : i+formatIndex],
					format: data[i+formatIndex+1 : i+nextTokenEnd],
				})
			} else {
				tokens = append(tokens, token{header: data[i+1 : i+nextTokenEnd]})
			}
			i += nextTokenEnd
		} else if nextTokenStart > 0 {
			tokens = append(tokens, token{raw: true, header: data[i : i+nextTokenStart]})
			i += nextTokenStart - 1
		} else {
			tokens = append(tokens, token{raw: true, header: data[i:]})
			break
		}
	}

	return tokens
}

// lookup resolves the token's keyword: an override wins, then the header
// and the defaults, for the keyword and then each of its aliases.
func (t token) lookup(hdr common.Header, r *renamer) interface{} {
	if v, ok := r.overrides[t.header]; ok && v != nil {
		return v
	}

	for _, k := range append([]string{t.header}, r.cfg.Aliases[t.header]...) {
		if v, ok := hdr[k]; ok && v != nil && v != "" {
			return v
		}
		if v, ok := r.defaults[k]; ok && v != nil && v != "" {
			return v
		}
	}

	return nil
}

func (t token) convert(hdr common.Header, r *renamer) (string, error) {
	if t.raw {
		return t.header, nil
	}

	val := t.lookup(hdr, r)
	if val == nil {
		return "", fmt.Errorf("file is missing fits header %s", t.header)
	}

	switch val := val.(type) {
	case string:
		if strings.HasPrefix(t.format, "date") {
			parsed, err := time.ParseInLocation("2006-01-02T15:04:05.999999999Z", val, time.UTC)
			if err != nil {
				parsed, err = time.ParseInLocation("2006-01-02T15:04:05.999999999", val, time.UTC)
				if err != nil {
					return "", fmt.Errorf("unable to parse %s as a timestamp", val)
				}
			}

			if t.format == "dateunix" {
				return fmt.Sprintf("%d", parsed.Unix()), nil
			}

			return parsed.Format(t.format[4:]), nil
		}

		return strings.TrimSpace(val), nil

	case bool:
		if t.format == "" {
			return fmt.Sprintf("%t", val), nil
		}
		return fmt.Sprintf(t.format, val), nil

	case int64:
		if t.format == "" {
			return fmt.Sprintf("%d", val), nil
		}

		if strings.Contains(t.format, "f") {
			return fmt.Sprintf(t.format, float64(val)), nil
		}

		return fmt.Sprintf(t.format, val), nil

	case float64:
		if t.format == "" {
			return fmt.Sprintf("%f", val), nil
		}

		if strings.Contains(t.format, "d") {
			return fmt.Sprintf(t.format, int64(val)), nil
		}

		return fmt.Sprintf(t.format, val), nil

	case [2]float64:
		if t.format == "" {
			return fmt.Sprintf("%g_%g", val[0], val[1]), nil
		}
		return fmt.Sprintf(t.format, val[0], val[1]), nil
	}

	return "", fmt.Errorf("unknown type %T for fits header %s", val, t.header)
}

// frameType maps an IMAGETYP or FRAME value to a pattern name.
func frameType(imgType string) string {
	switch imgType {
	case "Light Frame", "Tricolor Image", "Light", "LIGHT":
		return "LIGHT"
	case "Dark Frame", "Dark", "DARK":
		return "DARK"
	case "Flat Frame", "Flat", "FLAT":
		return "FLAT"
	case "Bias Frame", "Bias", "BIAS":
		return "BIAS"
	}
	return ""
}

type renamer struct {
	cfg          *Config
	tokens       map[string][]token
	defaults     common.Header
	overrides    common.Header
	dryRun       bool
	formatSuffix bool
	logger       *slog.Logger
}

func newRenamer(cfg *Config, dryRun, ignoreWarnings bool, logger *slog.Logger) (*renamer, error) {
	defaults, err := headerValues(cfg.Defaults)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	overrides, err := headerValues(cfg.Overrides)
	if err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}

	r := &renamer{
		cfg:          cfg,
		tokens:       map[string][]token{},
		defaults:     defaults,
		overrides:    overrides,
		dryRun:       dryRun,
		formatSuffix: true,
		logger:       logger,
	}

	if !checkSuffix.MatchString(cfg.Suffix) {
		if !ignoreWarnings {
			return nil, errors.New("you must supply a %d modifier to your suffix to ensure unique file names, or use --ignore-warnings to override")
		}
		logger.Warn("suffix does not contain a %d modifier, data could be lost if your file formats don't produce unique names")
		r.formatSuffix = false
	}

	for _, kind := range []string{"LIGHT", "DARK", "FLAT", "BIAS"} {
		r.tokens[kind] = scanForTokens(cfg.Patterns[kind])
		logger.Info("pattern", slog.String("type", kind), slog.String("format", cfg.Patterns[kind]))
	}

	return r, nil
}

func (r *renamer) parseOptions() []fits.Option {
	policy := fits.Lenient
	if r.cfg.Strict {
		policy = fits.Strict
	}
	return []fits.Option{
		fits.WithEndPolicy(policy),
		fits.WithDataSkip(true),
		fits.WithLogger(r.logger),
	}
}

// readHeader returns the primary header of a FITS or XISF file.
func (r *renamer) readHeader(file string) (common.Header, error) {
	f, err := source.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch source.FormatOf(file) {
	case source.FormatXISF:
		return xisf.NewDecoder(f).ReadHeader()
	case source.FormatFITS:
		return fits.NewDecoder(f, r.parseOptions()...).ReadHeader()
	}
	return nil, fmt.Errorf("unsupported file type %s", file)
}

func (r *renamer) usesDigest(tokens []token) bool {
	for _, t := range tokens {
		if !t.raw && t.header == digestKey {
			return true
		}
	}
	return false
}

func getFileNumberPath(path, suffix string) string {
	for i := 0; ; i++ {
		testPath := path + fmt.Sprintf(suffix, i)

		if _, err := os.Stat(testPath); os.IsNotExist(err) {
			return testPath
		}
	}
}

// handleFile renames one file. Files that are not frames, or whose frame
// type has no pattern, are skipped with a log record.
func (r *renamer) handleFile(file string) error {
	logger := r.logger.With(slog.String("file", file))
	logger.Debug("processing file")

	if strings.HasPrefix(filepath.Base(file), ".") {
		logger.Info("skipping dotfile")
		return nil
	}

	if source.FormatOf(file) == source.FormatUnknown {
		logger.Info("skipping unsupported file type")
		return nil
	}

	hdr, err := r.readHeader(file)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	for _, key := range hdr.Keys() {
		logger.Debug("header", slog.String("key", key), slog.Any("value", hdr[key]))
	}

	t, ok := hdr.Lookup("IMAGETYP", "FRAME")
	if !ok {
		logger.Info("missing IMAGETYP and FRAME header; skipping file")
		return nil
	}

	imgType, ok := t.(string)
	if !ok {
		logger.Info("IMAGETYP or FRAME header is not a string value; skipping file")
		return nil
	}

	kind := frameType(imgType)
	if kind == "" {
		logger.Info("unknown IMAGETYP or FRAME; skipping file", slog.String("type", imgType))
		return nil
	}

	tokens := r.tokens[kind]
	if tokens == nil {
		logger.Info("format not specified for frame type", slog.String("type", imgType))
		return nil
	}

	if r.usesDigest(tokens) {
		sum, err := source.DigestFile(file)
		if err != nil {
			return err
		}
		hdr[digestKey] = sum[:12]
	}

	var result strings.Builder

	for _, tok := range tokens {
		item, err := tok.convert(hdr, r)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if r.cfg.NoSpace {
			item = strings.ReplaceAll(item, " ", "_")
		}
		result.WriteString(item)
	}

	var newName string

	if r.formatSuffix {
		newName = getFileNumberPath(result.String(), r.cfg.Suffix)
	} else {
		result.WriteString(r.cfg.Suffix)
		newName = result.String()
	}

	logger.Info("renaming", slog.String("to", newName))

	if r.dryRun {
		return nil
	}

	fullPath, _ := filepath.Abs(file)
	dir := path.Dir(fullPath)

	d, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("unable to access %s; %w", file, err)
	}

	// new directory should match permissions of the original file's directory.
	perm := d.Mode() & os.ModePerm

	err = os.MkdirAll(path.Dir(newName), perm)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("error renaming %s to %s; %w", file, newName, err)
	}

	if err := os.Rename(file, newName); err != nil {
		return fmt.Errorf("error renaming %s to %s; %w", file, newName, err)
	}

	return nil
}

func renameCmd(args []string, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("rename", pflag.ContinueOnError)

	var (
		defaults  = defaultMap{}
		overrides = defaultMap{}
	)

	configPath := fs.String("config", os.Getenv("FITSHDR_CONFIG"), "YAML or JSONC file with patterns, defaults, overrides and aliases")
	input := fs.String("input", "*.fits", "Glob to match files. Positional arguments are globs too.")
	fs.Bool("debug", false, "Enable debug logging")
	noSpace := fs.Bool("no-space", false, "Replace spaces in tokens with underscore.")
	light := fs.String("light", "", "Format to rename lights to. In the form of {FITSKEYWORD1}_{FITSKEYWORD2:%0.2f}.fits")
	dark := fs.String("dark", "", "Format to rename darks to. In the form of {FITSKEYWORD1}_{FITSKEYWORD2:%0.2f}.fits")
	flat := fs.String("flat", "", "Format to rename flats to. In the form of {FITSKEYWORD1}_{FITSKEYWORD2:%0.2f}.fits")
	bias := fs.String("bias", "", "Format to rename biases to. In the form of {FITSKEYWORD1}_{FITSKEYWORD2:%0.2f}.fits")
	suffix := fs.String("suffix", "%03d", "What to append to the end of the file. It will be sent to fmt.Sprintf with the file number for the current directory.")
	dryRun := fs.Bool("dry-run", false, "Don't actually rename the files, just print what we would do.")
	strict := fs.Bool("strict", false, "Fail on header units without an END card.")
	ignoreWarnings := fs.Bool("ignore-warnings", false, "Ignore checks that protect you from deleting data. Dangerous.")
	fs.Var(defaults, "defaults", "Specifies default values to use if a FITS header is missing. Ex: FILTER=RGB;OBS=Me")
	fs.Var(overrides, "overrides", "Specifies values to override in a FITS header. Ex: FILTER=RGB;OBS=Me")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	for kind, value := range map[string]*string{"light": light, "dark": dark, "flat": flat, "bias": bias} {
		if fs.Changed(kind) {
			cfg.Patterns[strings.ToUpper(kind)] = *value
		}
	}
	if fs.Changed("suffix") {
		cfg.Suffix = *suffix
	}
	if fs.Changed("no-space") {
		cfg.NoSpace = *noSpace
	}
	if fs.Changed("strict") {
		cfg.Strict = *strict
	}
	for k, v := range defaults {
		cfg.Defaults[k] = v
	}
	for k, v := range overrides {
		cfg.Overrides[k] = v
	}

	r, err := newRenamer(cfg, *dryRun, *ignoreWarnings, logger)
	if err != nil {
		return err
	}

	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{*input}
	}

	files, err := globAll(patterns)
	if err != nil {
		return err
	}

	logger.Info("found matching files", slog.Int("count", len(files)))

	for _, file := range files {
		if err := r.handleFile(file); err != nil {
			return err
		}
	}

	logger.Info("done")
	return nil
}

// globAll expands every pattern, ** included.
func globAll(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		matches, err := filepathx.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}
