package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/logging"
	"github.com/roach88/enigma/internal/session"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	StrictReflectors bool
	GroupSize        int

	// Tokens allows overriding the message token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens session.TokenGenerator
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	CatalogID string                  `json:"catalog_id"`
	Output    string                  `json:"output,omitempty"` // empty when written to a file
	Messages  []session.MessageReport `json:"messages"`
	Chars     int                     `json:"chars"`
}

// RunErrorDetails accompanies a JSON error from the run command.
type RunErrorDetails struct {
	Line   int       `json:"line"`
	Result RunResult `json:"result"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <catalog> [input] [output]",
		Short: "Convert a message stream",
		Long: `Convert a message stream with a machine built from a rotor catalog.

Each line starting with '*' is a settings line:

  * <reflector> <rotors...> <positions> [<rings>] [<plugboard cycles>]

It configures the machine and starts a new message. Every other non-blank
line is converted and written in groups of five characters. Blank lines are
copied through.

Input defaults to stdin and output to stdout. Processing stops at the
first line that cannot be converted.

Example:
  enigma run default.conf message.txt
  enigma run default.conf message.txt cipher.txt
  echo "* B Beta III IV I AXLE" | enigma run default.conf --format json`,
		Args:          cobra.RangeArgs(1, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMessages(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.StrictReflectors, "strict-reflectors", false, "reject reflectors that map a character to itself")
	cmd.Flags().IntVar(&opts.GroupSize, "group", session.DefaultGroupSize, "output group size (0 disables grouping)")

	return cmd
}

func runMessages(opts *RunOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := logging.New("run")

	if opts.GroupSize < 0 {
		return runCommandError(formatter, ErrCodeUsage, fmt.Sprintf("group size must be non-negative, got %d", opts.GroupSize))
	}

	c, m, err := LoadMachine(args[0], machineOptions(opts.StrictReflectors)...)
	if err != nil {
		code, message := loadErrorCode(err)
		return runCommandError(formatter, code, message)
	}
	catalogID, err := ir.CatalogID(c)
	if err != nil {
		return runCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	logger.Info("catalog loaded", "path", args[0], "catalog_id", catalogID, "rotors", len(c.Rotors))

	in := cmd.InOrStdin()
	if len(args) > 1 {
		f, err := os.Open(args[1])
		if err != nil {
			return runCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("opening input: %v", err))
		}
		defer f.Close()
		in = f
	}

	// In JSON mode the stream is part of the response.
	var stream bytes.Buffer
	var out io.Writer = cmd.OutOrStdout()
	if opts.Format == "json" {
		out = &stream
	}
	var outFile *os.File
	if len(args) > 2 {
		outFile, err = os.Create(args[2])
		if err != nil {
			return runCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("creating output: %v", err))
		}
		defer outFile.Close()
		out = outFile
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := opts.Tokens
	if tokens == nil {
		tokens = session.UUIDv7Generator{}
	}
	p := session.New(m,
		session.WithLogger(logging.New("session")),
		session.WithTokenGenerator(tokens),
		session.WithGroupSize(opts.GroupSize),
	)
	report, perr := p.Process(ctx, in, out)

	if outFile != nil {
		if err := outFile.Close(); err != nil && perr == nil {
			return runCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("closing output: %v", err))
		}
	}

	result := RunResult{
		CatalogID: catalogID,
		Output:    stream.String(),
		Messages:  report.Messages,
		Chars:     report.Chars(),
	}
	if result.Messages == nil {
		result.Messages = []session.MessageReport{}
	}

	if perr != nil {
		return outputRunError(formatter, result, perr)
	}

	logger.Info("stream converted", "messages", len(result.Messages), "chars", result.Chars)
	formatter.VerboseLog("Converted %d message(s), %d character(s)", len(result.Messages), result.Chars)

	if opts.Format == "json" {
		var traceID string
		if len(result.Messages) > 0 {
			traceID = result.Messages[0].Token
		}
		return formatter.SuccessWithTrace(result, traceID)
	}
	return nil
}

// runCommandError reports a command-level failure. Text output is left to
// the caller so that stdout carries only the converted stream.
func runCommandError(formatter *OutputFormatter, code, message string) error {
	if formatter.Format == "json" {
		return formatter.commandError(code, message, nil)
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputRunError reports a stream that stopped on an error.
func outputRunError(formatter *OutputFormatter, result RunResult, err error) error {
	if errors.Is(err, context.Canceled) {
		return WrapExitError(ExitCommandError, "interrupted", err)
	}

	if formatter.Format == "json" {
		_ = formatter.Error(messageErrorCode(err), err.Error(), RunErrorDetails{
			Line:   session.LineOf(err),
			Result: result,
		})
	}
	return WrapExitError(ExitFailure, "processing failed", err)
}
