package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/session"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Settings         string
	Text             string
	StrictReflectors bool
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Settings   string              `json:"settings"`
	SettingsID string              `json:"settings_id"`
	Start      string              `json:"start"`
	Keystrokes []session.Keystroke `json:"keystrokes"`
	Output     string              `json:"output"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <catalog>",
		Short: "Show rotor positions keystroke by keystroke",
		Long: `Configure a machine from one settings line and convert text one
character at a time, showing the rotor positions after each keystroke.

Useful to follow stepping, including the double step of a rotor that sits
on its notch.

Examples:
  enigma trace default.conf --settings "* B Beta I II III AADU" --text AAAA
  enigma trace default.conf --settings "* B Beta III IV I AXLE (HQ)" --text "FROM HIS" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Settings, "settings", "", "settings line to apply (required)")
	_ = cmd.MarkFlagRequired("settings")
	cmd.Flags().StringVar(&opts.Text, "text", "", "text to convert (required)")
	_ = cmd.MarkFlagRequired("text")
	cmd.Flags().BoolVar(&opts.StrictReflectors, "strict-reflectors", false, "reject reflectors that map a character to itself")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	_, m, err := LoadMachine(path, machineOptions(opts.StrictReflectors)...)
	if err != nil {
		code, message := loadErrorCode(err)
		return formatter.commandError(code, message, nil)
	}

	settings, err := catalog.ParseSettings(opts.Settings, m.NumRotors())
	if err != nil {
		return outputTraceError(formatter, err)
	}
	id, err := ir.SettingsID(settings)
	if err != nil {
		return formatter.commandError(ErrCodeGeneric, err.Error(), nil)
	}

	keys, err := session.Trace(m, settings, opts.Text)
	if err != nil {
		return outputTraceError(formatter, err)
	}

	var out strings.Builder
	for _, k := range keys {
		out.WriteString(k.Output)
	}
	result := TraceResult{
		Settings:   settings.String(),
		SettingsID: id,
		Start:      settings.Positions,
		Keystrokes: keys,
		Output:     out.String(),
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd.OutOrStdout(), result)
	}
	return outputTraceText(cmd.OutOrStdout(), result, opts.Verbose)
}

// outputTraceError reports a settings line or text the machine rejects.
func outputTraceError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(messageErrorCode(err), err.Error(), nil)
	return WrapExitError(ExitFailure, "trace failed", err)
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(w io.Writer, result TraceResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as a keystroke table.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Trace for: %s\n", result.Settings)
	if verbose {
		fmt.Fprintf(w, "Settings ID: %s\n", result.SettingsID)
	}
	fmt.Fprintf(w, "Start: %s\n", result.Start)
	fmt.Fprintln(w)

	if len(result.Keystrokes) == 0 {
		fmt.Fprintln(w, "  (no keystrokes)")
	} else {
		fmt.Fprintf(w, "  %4s  %-3s %-3s %s\n", "SEQ", "IN", "OUT", "POSITIONS")
		for _, k := range result.Keystrokes {
			fmt.Fprintf(w, "  %4d  %-3s %-3s %s\n", k.Seq, k.Input, k.Output, k.Positions)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Output: %s\n", session.Group(result.Output, session.DefaultGroupSize))
	return nil
}
