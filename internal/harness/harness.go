package harness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/session"
	"github.com/roach88/enigma/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with deterministic message tokens.
type Harness struct {
	catalog *ir.Catalog
	opts    []cipher.Option
	tokens  *testutil.SequenceGenerator
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs on a freshly built machine.
//
// Execution flow:
// 1. Load the catalog and build a machine
// 2. Process the input stream
// 3. Record output, message reports and any configuration error
// 4. Evaluate assertions
//
// A configuration error in the stream is part of the result, not a Run
// error; only an unusable catalog fails Run.
func Run(scenario *Scenario) (*Result, error) {
	c, err := catalog.Load(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	prefix := scenario.TokenPrefix
	if prefix == "" {
		prefix = scenario.Name
	}
	h := &Harness{
		catalog: c,
		tokens:  testutil.NewSequenceGenerator(prefix),
		logger:  slog.New(slog.DiscardHandler), // Suppress logs in tests
	}
	if scenario.StrictReflectors {
		h.opts = append(h.opts, cipher.WithStrictReflectors())
	}

	ctx := context.Background()

	out, report, perr := h.process(ctx, scenario.Input)
	if perr != nil && report == nil {
		return nil, perr
	}

	result := NewResult()
	result.Output = out
	result.Messages = append(result.Messages, report.Messages...)
	if perr != nil {
		result.Error = perr.Error()
		result.ErrorCode = string(cipher.CodeOf(perr))
		result.ErrorLine = session.LineOf(perr)
		h.logger.Info("stream stopped",
			"scenario", scenario.Name,
			"line", result.ErrorLine,
			"code", result.ErrorCode,
		)
	}

	actx := &AssertionContext{
		Ctx:     ctx,
		Input:   scenario.Input,
		Harness: h,
	}
	if result.Failed() && !expectsError(scenario.Assertions) {
		result.AddError(fmt.Sprintf("processing failed: %s", result.Error))
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// process runs input through a fresh machine.
// A nil report means the machine could not be built.
func (h *Harness) process(ctx context.Context, input string) (string, *session.Report, error) {
	m, err := catalog.Build(h.catalog, h.opts...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build machine: %w", err)
	}

	var out bytes.Buffer
	p := session.New(m,
		session.WithLogger(h.logger),
		session.WithTokenGenerator(h.tokens),
	)
	report, err := p.Process(ctx, strings.NewReader(input), &out)
	return out.String(), report, err
}

func expectsError(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertErrorCode {
			return true
		}
	}
	return false
}
