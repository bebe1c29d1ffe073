package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/ir"
)

// maxLineSize bounds a single catalog line.
const maxLineSize = 1 << 20

type textToken struct {
	text string
	line int
}

// ParseText reads a catalog in the whitespace-separated text format:
//
//	ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	5 3
//	I     MQ (AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)
//	Beta  N  (ALBEVFCYODJWUGNMQTZSKPR) (HIX)
//	B     R  (AE) (BN) (CK) (DQ) (FU) (GY) (HW) (IJ) (LO) (MP)
//	         (RX) (SZ) (TV)
//
// The first three tokens are the alphabet, the slot count and the pawl
// count. Each rotor is a name, a type code (see cipher.ParseKind), and the
// cycles of its wiring. Line breaks carry no meaning; a rotor's cycles end
// at the first token that neither starts with '(' nor continues an open
// group.
//
// ParseText checks syntax only. Use Validate for the catalog's semantics.
func ParseText(r io.Reader) (*ir.Catalog, error) {
	toks, lastLine, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	if len(toks) < 3 {
		return nil, &ParseError{
			Line:    lastLine,
			Message: "configuration truncated: expected alphabet, slot count and pawl count",
		}
	}

	c := &ir.Catalog{Alphabet: toks[0].text}
	if c.Slots, err = parseCount(toks[1], "slot count"); err != nil {
		return nil, err
	}
	if c.Pawls, err = parseCount(toks[2], "pawl count"); err != nil {
		return nil, err
	}

	for i := 3; i < len(toks); {
		name := toks[i]
		i++
		if strings.HasPrefix(name.text, "(") {
			return nil, &ParseError{Line: name.line, Message: fmt.Sprintf("expected rotor name, found cycle %q", name.text)}
		}
		if i == len(toks) {
			return nil, &ParseError{Line: name.line, Message: fmt.Sprintf("rotor %s: missing type", name.text)}
		}
		typ := toks[i]
		i++
		kind, notches, err := cipher.ParseKind(typ.text)
		if err != nil {
			return nil, &ParseError{Line: typ.line, Message: "rotor " + name.text, Err: err}
		}

		var cycles []string
		depth := 0
		for i < len(toks) && (depth > 0 || strings.HasPrefix(toks[i].text, "(")) {
			t := toks[i].text
			depth += strings.Count(t, "(") - strings.Count(t, ")")
			cycles = append(cycles, t)
			i++
		}

		c.Rotors = append(c.Rotors, ir.RotorSpec{
			Name:    name.text,
			Kind:    specKind(kind),
			Notches: notches,
			Cycles:  strings.Join(cycles, " "),
			Line:    name.line,
		})
	}
	return c, nil
}

func tokenize(r io.Reader) ([]textToken, int, error) {
	var toks []textToken
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		for _, f := range strings.Fields(sc.Text()) {
			toks = append(toks, textToken{text: f, line: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, line, &ParseError{Line: line + 1, Message: "reading catalog", Err: err}
	}
	return toks, line, nil
}

func parseCount(tok textToken, what string) (int, error) {
	n, err := strconv.Atoi(tok.text)
	if err != nil {
		return 0, &ParseError{Line: tok.line, Message: fmt.Sprintf("%s %q is not a number", what, tok.text)}
	}
	return n, nil
}

// FormatText writes c in the text format read by ParseText.
func FormatText(w io.Writer, c *ir.Catalog) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%d %d\n", c.Alphabet, c.Slots, c.Pawls)

	width := 0
	for _, r := range c.Rotors {
		width = max(width, len(r.Name))
	}
	for _, r := range c.Rotors {
		code := cipherKindCode(r.Kind)
		if r.Kind == ir.KindStepping {
			code += r.Notches
		}
		line := fmt.Sprintf("%-*s %s", width, r.Name, code)
		if r.Cycles != "" {
			line += " " + r.Cycles
		}
		fmt.Fprintln(bw, line)
	}
	return bw.Flush()
}
