// Package options parses and validates the minranksolve CLI flags into an
// Options struct consumed by the core, mirroring the teacher's flat
// flag.FlagSet style (one FlagSet, descriptive usage strings, explicit
// parse errors instead of os.Exit calls buried in library code).
package options

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"minrank/mdeg"
)

// Options is the parsed, validated view of the CLI flags.
type Options struct {
	Verbose      bool
	Dry          bool
	Help         bool
	NewRandSeed  bool
	Seed         uint32
	MRFile       string
	Degs         []mdeg.MDeg
	KSRand       bool
	C            uint32
	ThreadCount  uint32
	MacNRow      uint64
	FieldQ       uint64
}

// ParseError wraps a parse failure with a stable numeric exit code,
// mirroring opt_parse's fixed 1..9 error-code contract.
type ParseError struct {
	Code int
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

const (
	CodeMissingMinrank = 1
	CodeMissingMdeg    = 2
	CodeBadMdeg        = 3
	CodeMismatchedC    = 4
	CodeTooManyMdegs   = 5
	CodeBadSeed        = 6
	CodeBadThread      = 7
	CodeBadField       = 8
	CodeFlagParse      = 9
)

// MaxMdegs is the hard cap on the number of multi-degrees accepted, per the
// input-validation rules for "Invalid input."
const MaxMdegs = 64

// Parse parses args (excluding the program name) into an Options, returning
// a *ParseError on any validation failure.
func Parse(name string, args []string) (*Options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	minrankFile := fs.String("minrank", "", "path to the MinRank instance file (required)")
	mdegSpec := fs.String("mdeg", "", "comma-separated multi-degree d0,d1,...,dc; a repeated -mdeg replaces the earlier one, use -mdeg-combi for combined-degree mode")
	seedFlag := fs.Uint("seed", 0, "random seed override (default: time-derived)")
	newSeed := fs.Bool("new-seed", false, "force a fresh time-derived seed even if -seed is given")
	threadFlag := fs.Uint("thread", 0, "worker count (default: next power of two >= CPU count)")
	macRow := fs.Uint64("mac-row", 0, "cap on sampled MDMac rows (0 = no cap)")
	ksRand := fs.Bool("ks-rand", false, "replace the computed KS matrix with a randomly sampled one")
	dryRun := fs.Bool("dry-run", false, "construct and validate, then exit without solving")
	verbose := fs.Bool("verbose", false, "emit detail")
	fieldQ := fs.Uint64("field", 16, "field size: 16 or 31")

	var mdegSpecs multiFlag
	fs.Var(&mdegSpecs, "mdeg-combi", "additional multi-degree for combined-degree mode (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, &ParseError{Code: CodeFlagParse, Msg: fmt.Sprintf("options: %v", err)}
	}

	if *minrankFile == "" {
		return nil, &ParseError{Code: CodeMissingMinrank, Msg: "options: -minrank is required"}
	}

	specs := append([]string{}, mdegSpecs...)
	if *mdegSpec != "" {
		specs = append([]string{*mdegSpec}, specs...)
	}
	if len(specs) == 0 {
		return nil, &ParseError{Code: CodeMissingMdeg, Msg: "options: at least one -mdeg is required"}
	}
	if len(specs) > MaxMdegs {
		return nil, &ParseError{Code: CodeTooManyMdegs, Msg: fmt.Sprintf("options: %d multi-degrees exceeds the cap of %d", len(specs), MaxMdegs)}
	}

	degs := make([]mdeg.MDeg, 0, len(specs))
	for _, spec := range specs {
		d, err := parseMDeg(spec)
		if err != nil {
			return nil, &ParseError{Code: CodeBadMdeg, Msg: fmt.Sprintf("options: %v", err)}
		}
		if !d.Valid() {
			return nil, &ParseError{Code: CodeBadMdeg, Msg: fmt.Sprintf("options: multi-degree %q has a component < 1", spec)}
		}
		degs = append(degs, d)
	}
	c := degs[0].C()
	for _, d := range degs[1:] {
		if d.C() != c {
			return nil, &ParseError{Code: CodeMismatchedC, Msg: "options: all -mdeg values must share the same kernel-group count"}
		}
	}

	if *fieldQ != 16 && *fieldQ != 31 {
		return nil, &ParseError{Code: CodeBadField, Msg: fmt.Sprintf("options: unsupported -field %d, want 16 or 31", *fieldQ)}
	}

	seed := uint32(*seedFlag)
	if *newSeed {
		seed = uint32(time.Now().UnixNano())
	}

	return &Options{
		Verbose:     *verbose,
		Dry:         *dryRun,
		Help:        false,
		NewRandSeed: *newSeed,
		Seed:        seed,
		MRFile:      *minrankFile,
		Degs:        degs,
		KSRand:      *ksRand,
		C:           uint32(c),
		ThreadCount: uint32(*threadFlag),
		MacNRow:     *macRow,
		FieldQ:      *fieldQ,
	}, nil
}

func parseMDeg(spec string) (mdeg.MDeg, error) {
	toks := strings.Split(spec, ",")
	counts := make([]uint32, 0, len(toks))
	for _, tok := range toks {
		v, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 32)
		if err != nil {
			return mdeg.MDeg{}, fmt.Errorf("malformed multi-degree component %q in %q: %w", tok, spec, err)
		}
		counts = append(counts, uint32(v))
	}
	if len(counts) < 2 {
		return mdeg.MDeg{}, fmt.Errorf("multi-degree %q must have at least a linear and one kernel-group component", spec)
	}
	return mdeg.New(counts...), nil
}

// multiFlag accumulates repeated -mdeg-combi flag occurrences.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ";") }
func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}
