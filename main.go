// Command fitshdr reads FITS and XISF headers: it dumps them, renames
// files from their header values and renders thumbnails.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	logLevel := slog.LevelInfo
	if envBool("FITSHDR_DEBUG") || hasFlag(os.Args[2:], "--debug") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "dump":
		err = dumpCmd(args, os.Stdout, logger)
	case "rename":
		err = renameCmd(args, logger)
	case "thumb":
		err = thumbCmd(args, os.Stdout, logger)
	case "version", "--version", "-v":
		fmt.Printf("fitshdr %s\n", version)
		return
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: fitshdr <command> [options]

Commands:
  dump     Print every header unit of the matched files
  rename   Rename files from their header values
  thumb    Render a thumbnail of the first image
  version  Print the version

Run 'fitshdr <command> --help' for the options of a command.
Set FITSHDR_DEBUG=1 or pass --debug for debug logging.
`)
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || a == flag+"=true" {
			return true
		}
	}
	return false
}
