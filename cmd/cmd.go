package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"histview/internal/buildinfo"
	"histview/internal/git"
)

func Run() error {
	return run(os.Args[1:], os.Stdout)
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("histview", flag.ContinueOnError)
	limit := fs.Int("limit", git.DefaultWindow, "number of commits in the history window")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Fprintln(out, buildinfo.Version())
		return nil
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	op := "history"
	repoPath := "."
	remaining := fs.Args()
	if len(remaining) > 0 {
		op = remaining[0]
	}
	if len(remaining) > 1 {
		repoPath = remaining[1]
	}

	sess := git.NewSession()
	sess.SetWindow(*limit)
	status, err := sess.Open(repoPath)
	if err != nil {
		return err
	}

	var payload any
	switch op {
	case "status":
		payload = status
	case "branches":
		payload, err = sess.Branches()
	case "history":
		payload, err = sess.History()
	default:
		return fmt.Errorf("unknown operation %q (want status, branches or history)", op)
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
