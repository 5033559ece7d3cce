package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/honeycarbs/hh-vacancies/internal/config"
	"github.com/honeycarbs/hh-vacancies/pkg/logging"
)

const usage = `Usage: hhdb <command> [flags]

Commands:
  setup    drop and recreate the database, then create the tables
  ingest   load employers and vacancies from hh.ru into the database
  shell    interactive query menu over the stored vacancies
  run      setup, ingest, then shell

Run "hhdb <command> -h" for command flags.
`

type options struct {
	skipProvision   bool
	continueOnError bool
	employers       string
	noProgress      bool
}

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "hhdb:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd, opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.employers != "" {
		ids, err := config.ParseEmployerIDs(opts.employers)
		if err != nil {
			return err
		}
		cfg.HH.EmployerIDs = ids
	}

	logger := logging.NewConsole(cfg.LogLevel).Named("hhdb")
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, logger: logger, stdin: stdin, stdout: stdout, stderr: stderr, opts: opts}

	switch cmd {
	case "setup":
		return a.setup(ctx)
	case "ingest":
		return a.withDatabase(ctx, a.ingest)
	case "shell":
		return a.withDatabase(ctx, a.shell)
	case "run":
		if err := a.setup(ctx); err != nil {
			return err
		}
		return a.withDatabase(ctx, func(ctx context.Context, d *database) error {
			if err := a.ingest(ctx, d); err != nil {
				return err
			}
			return a.shell(ctx, d)
		})
	}
	return nil
}

func parseArgs(args []string, stderr io.Writer) (string, options, error) {
	var opts options

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return "", opts, fmt.Errorf("command is required")
	}

	cmd := args[0]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd {
	case "setup":
		fs.BoolVar(&opts.skipProvision, "skip-provision", false, "only create missing tables, keep the existing database")
	case "ingest":
		fs.BoolVar(&opts.continueOnError, "continue-on-error", false, "keep ingesting when a vacancy cannot be stored")
		fs.StringVar(&opts.employers, "employers", "", "comma separated hh.ru employer ids (overrides HH_EMPLOYER_IDS)")
		fs.BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	case "shell":
	case "run":
		fs.BoolVar(&opts.continueOnError, "continue-on-error", false, "keep ingesting when a vacancy cannot be stored")
		fs.StringVar(&opts.employers, "employers", "", "comma separated hh.ru employer ids (overrides HH_EMPLOYER_IDS)")
		fs.BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	case "-h", "--help", "help":
		fmt.Fprint(stderr, usage)
		return "", opts, flag.ErrHelp
	default:
		fmt.Fprint(stderr, usage)
		return "", opts, fmt.Errorf("unknown command %q", cmd)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return "", opts, err
	}
	if fs.NArg() > 0 {
		return "", opts, fmt.Errorf("%s: unexpected arguments %v", cmd, fs.Args())
	}
	return cmd, opts, nil
}
