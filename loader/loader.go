// Package loader parses the MinRank instance text format (n/m/k/r header
// plus M0..Mk blocks of scalars) into a minrank.Instance.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"minrank/field"
	"minrank/matrix"
	"minrank/minrank"
)

// FromFile opens path and parses it as a MinRank instance over field f.
func FromFile(f field.Field, path string) (*minrank.Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: opening %q: %w", path, err)
	}
	defer file.Close()
	return FromReader(f, file)
}

// FromReader parses a MinRank instance from r, in the format documented in
// the package comment.
func FromReader(f field.Field, r io.Reader) (*minrank.Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	nrow, err := readHeaderUint(sc, "n")
	if err != nil {
		return nil, err
	}
	ncol, err := readHeaderUint(sc, "m")
	if err != nil {
		return nil, err
	}
	k, err := readHeaderUint(sc, "k")
	if err != nil {
		return nil, err
	}
	rnk, err := readHeaderUint(sc, "r")
	if err != nil {
		return nil, err
	}

	m0, err := readMatrixBlock(sc, f, "M0", nrow, ncol)
	if err != nil {
		return nil, err
	}
	ms := make([]*matrix.GFM, k)
	for i := uint32(0); i < k; i++ {
		label := fmt.Sprintf("M%d", i+1)
		mi, err := readMatrixBlock(sc, f, label, nrow, ncol)
		if err != nil {
			return nil, err
		}
		ms[i] = mi
	}

	return minrank.New(f, uint64(nrow), uint64(ncol), k, rnk, m0, ms, nil)
}

func nextNonBlank(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

func readHeaderUint(sc *bufio.Scanner, name string) (uint32, error) {
	line, ok := nextNonBlank(sc)
	if !ok {
		return 0, fmt.Errorf("loader: unexpected EOF reading %q header", name)
	}
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != name {
		return 0, fmt.Errorf("loader: malformed header line %q, want %q = <u32>", line, name)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("loader: malformed %q value %q: %w", name, parts[1], err)
	}
	return uint32(v), nil
}

func readMatrixBlock(sc *bufio.Scanner, f field.Field, label string, nrow, ncol uint32) (*matrix.GFM, error) {
	header, ok := nextNonBlank(sc)
	if !ok {
		return nil, fmt.Errorf("loader: unexpected EOF before matrix block %q", label)
	}
	if header != label {
		return nil, fmt.Errorf("loader: expected matrix header %q, got %q", label, header)
	}

	m := matrix.NewGFM(uint64(nrow), uint64(ncol))
	for ri := uint32(0); ri < nrow; ri++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("loader: unexpected EOF in matrix %q row %d", label, ri)
		}
		fields := strings.Fields(sc.Text())
		if uint32(len(fields)) != ncol {
			return nil, fmt.Errorf("loader: matrix %q row %d has %d scalars, want %d", label, ri, len(fields), ncol)
		}
		for ci, tok := range fields {
			v, err := strconv.ParseUint(tok, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("loader: matrix %q row %d col %d: malformed scalar %q: %w", label, ri, ci, tok, err)
			}
			if v >= f.Q() {
				return nil, fmt.Errorf("loader: matrix %q row %d col %d: scalar %d out of range [0, %d)", label, ri, ci, v, f.Q())
			}
			m.SetAt(uint64(ri), uint64(ci), byte(v))
		}
	}
	return m, nil
}
