package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

// Known pass names. Names are case-sensitive.
const (
	PassRandom     = "Random"
	PassCenter     = "Center"
	PassRescale    = "Rescale"
	PassOpenOrd    = "OpenOrd"
	PassYifanHu    = "YifanHu"
	PassForceAtlas = "ForceAtlas"
)

// KnownPasses lists the pass names the runner can execute.
var KnownPasses = []string{PassRandom, PassCenter, PassRescale, PassOpenOrd, PassYifanHu, PassForceAtlas}

// Pass is one element of a pass list such as "YifanHu:250".
type Pass struct {
	Name string
	// Arg is the raw text after the colon, or "" when there is none.
	Arg string

	iterations int
	distance   float64
}

// Known reports whether the runner can execute this pass.
func (p Pass) Known() bool {
	switch p.Name {
	case PassRandom, PassCenter, PassRescale, PassOpenOrd, PassYifanHu, PassForceAtlas:
		return true
	}
	return false
}

// Iterations returns the requested iteration count and whether one was
// given.
func (p Pass) Iterations() (int, bool) {
	if p.Arg == "" || p.Name == PassRescale {
		return 0, false
	}
	return p.iterations, true
}

// Distance returns the Rescale target edge length and whether one was
// given.
func (p Pass) Distance() (float64, bool) {
	if p.Arg == "" || p.Name != PassRescale {
		return 0, false
	}
	return p.distance, true
}

func (p Pass) String() string {
	if p.Arg == "" {
		return p.Name
	}
	return p.Name + ":" + p.Arg
}

// ParsePasses parses a comma-separated pass list:
//
//	Random,OpenOrd,YifanHu:10,ForceAtlas:3,Center
//
// Whitespace around tokens is ignored and empty tokens are dropped. The
// optional suffix of a known pass is an iteration count (a non-negative
// integer; 0 runs InitAlgo and EndAlgo only) or, for Rescale, the target
// length of the shortest edge; a malformed suffix fails with INVALID_INPUT.
// Any other token is returned as-is, suffix included, and the runner skips
// it.
func ParsePasses(s string) ([]Pass, error) {
	var passes []Pass
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		name, arg, _ := strings.Cut(tok, ":")
		p := Pass{Name: strings.TrimSpace(name), Arg: strings.TrimSpace(arg)}
		if err := p.parseArg(); err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, nil
}

func (p *Pass) parseArg() error {
	if p.Arg == "" || !p.Known() {
		return nil
	}
	if p.Name == PassRescale {
		d, err := strconv.ParseFloat(p.Arg, 64)
		if err != nil || d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
			return errors.New(errors.ErrCodeInvalidInput, "pass %q: distance must be a positive number", p.String())
		}
		p.distance = d
		return nil
	}
	n, err := strconv.Atoi(p.Arg)
	if err != nil || n < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pass %q: iterations must be a non-negative integer", p.String())
	}
	p.iterations = n
	return nil
}

// FormatPasses joins passes back into the list syntax.
func FormatPasses(passes []Pass) string {
	parts := make([]string, len(passes))
	for i, p := range passes {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}
