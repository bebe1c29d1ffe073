package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Processor runs a message stream through one machine.
//
// A stream is a sequence of messages. Each message starts with a settings
// line ("* B Beta III IV I AXLE ...") that configures the machine, followed
// by body lines that are converted under that configuration. The machine
// keeps stepping across body lines of the same message.
//
// Processor is not safe for concurrent use; it owns the machine's state
// for the duration of Process.
type Processor struct {
	machine   *cipher.Machine
	logger    *slog.Logger
	tokens    TokenGenerator
	groupSize int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithTokenGenerator sets the generator for message tokens.
//
// Default: UUIDv7Generator.
// Use NewFixedGenerator in tests for deterministic reports.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(p *Processor) {
		p.tokens = g
	}
}

// WithGroupSize sets the output group size. n <= 0 disables grouping.
func WithGroupSize(n int) Option {
	return func(p *Processor) {
		p.groupSize = n
	}
}

// New creates a Processor for m.
func New(m *cipher.Machine, opts ...Option) *Processor {
	p := &Processor{
		machine:   m,
		logger:    slog.New(slog.DiscardHandler),
		tokens:    UUIDv7Generator{},
		groupSize: DefaultGroupSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report summarizes a processed stream.
type Report struct {
	Messages []MessageReport `json:"messages"`
}

// MessageReport summarizes one message.
type MessageReport struct {
	Token          string `json:"token"`
	Settings       string `json:"settings"`
	SettingsID     string `json:"settings_id"`
	Line           int    `json:"line"`
	Lines          int    `json:"lines"`
	Chars          int    `json:"chars"`
	FinalPositions string `json:"final_positions"`
}

// Chars returns the total number of characters converted.
func (r *Report) Chars() int {
	n := 0
	for _, m := range r.Messages {
		n += m.Chars
	}
	return n
}

// Process reads messages from r and writes the converted stream to w.
//
// Settings lines are consumed and not echoed. Blank lines are echoed as
// empty lines. Body lines have their whitespace removed and are written in
// groups of the configured size.
//
// Processing stops at the first error, which is returned as a *LineError
// together with the report of everything processed so far. Output already
// written to w for earlier lines is kept.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) (*Report, error) {
	report := &Report{}
	out := bufio.NewWriter(w)
	defer out.Flush()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var cur *MessageReport
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return report, err
		}
		line := scanner.Text()

		switch {
		case catalog.IsSettingsLine(line):
			msg, err := p.configure(line, lineNo)
			if err != nil {
				return report, &LineError{Line: lineNo, Err: err}
			}
			report.Messages = append(report.Messages, *msg)
			cur = &report.Messages[len(report.Messages)-1]

		case strings.TrimSpace(line) == "":
			if _, err := out.WriteString("\n"); err != nil {
				return report, fmt.Errorf("writing output: %w", err)
			}

		default:
			if cur == nil {
				return report, &LineError{
					Line: lineNo,
					Err:  cipher.Errorf(cipher.ErrCodeMissingMarker, "message line before any settings line"),
				}
			}
			converted, err := p.machine.Convert(Prepare(line))
			if err != nil {
				return report, &LineError{Line: lineNo, Err: err}
			}
			if _, err := out.WriteString(Group(converted, p.groupSize) + "\n"); err != nil {
				return report, fmt.Errorf("writing output: %w", err)
			}
			cur.Lines++
			cur.Chars += len([]rune(converted))
			cur.FinalPositions = p.machine.Positions()
		}
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("reading input: %w", err)
	}

	p.logger.Debug("stream processed",
		"messages", len(report.Messages),
		"chars", report.Chars(),
	)
	return report, nil
}

// configure applies a settings line and starts a new message.
func (p *Processor) configure(line string, lineNo int) (*MessageReport, error) {
	s, err := catalog.ParseSettings(line, p.machine.NumRotors())
	if err != nil {
		return nil, err
	}
	if err := catalog.Apply(p.machine, s); err != nil {
		return nil, err
	}
	id, err := ir.SettingsID(s)
	if err != nil {
		return nil, err
	}

	msg := &MessageReport{
		Token:          p.tokens.Generate(),
		Settings:       s.String(),
		SettingsID:     id,
		Line:           lineNo,
		FinalPositions: p.machine.Positions(),
	}
	p.logger.Debug("settings applied",
		"line", lineNo,
		"token", msg.Token,
		"rotors", strings.Join(s.Rotors, " "),
		"positions", s.Positions,
	)
	return msg, nil
}
