// Package main is the entry point for the keycalc calculator.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dshills/keycalc/internal/app"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run builds the command line, executes it and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := 0
	cmd := newCommand(stdin, stdout, &code)
	cmd.Writer = stdout
	cmd.ErrWriter = stderr
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	if err := cmd.Run(ctx, args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintf(stderr, "keycalc: %s\n", msg)
			}
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "keycalc: %v\n", err)
		return 1
	}
	return code
}

func newCommand(stdin io.Reader, stdout io.Writer, code *int) *cli.Command {
	return &cli.Command{
		Name:    "keycalc",
		Usage:   "interactive command-line calculator",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML or YAML configuration file",
			},
			&cli.StringFlag{
				Name:      "color",
				Usage:     "colored output: auto, true or false",
				Validator: validateColor,
			},
			&cli.StringFlag{
				Name:  "history",
				Usage: "history CSV file, overriding the configuration",
			},
			&cli.StringFlag{
				Name:      "log-level",
				Usage:     "log level: debug, info, warn or error",
				Validator: validateLogLevel,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			application, err := app.New(appOptions(c, stdout))
			if err != nil {
				return err
			}
			defer application.Shutdown()
			*code = application.RunREPL(stdin)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "eval",
				Usage:     "run each argument as one calculator command",
				ArgsUsage: "<command>...",
				Action: func(ctx context.Context, c *cli.Command) error {
					lines := c.Args().Slice()
					if len(lines) == 0 {
						return cli.Exit("eval: no commands given", 2)
					}
					application, err := app.New(appOptions(c, stdout))
					if err != nil {
						return err
					}
					defer application.Shutdown()
					if application.Eval(lines) > 0 {
						*code = 1
					}
					return nil
				},
			},
		},
	}
}

func appOptions(c *cli.Command, stdout io.Writer) app.Options {
	return app.Options{
		ConfigPath:  c.String("config"),
		HistoryFile: c.String("history"),
		LogLevel:    c.String("log-level"),
		Color:       c.String("color"),
		Version:     version,
		Stdout:      stdout,
	}
}

func validateColor(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto", "true", "false", "always", "never", "1", "0", "yes", "no", "on", "off":
		return nil
	}
	return fmt.Errorf("invalid color mode %q (must be auto, true or false)", v)
}

func validateLogLevel(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", v)
}
