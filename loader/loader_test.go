package loader

import (
	"strings"
	"testing"

	"minrank/field"
)

const sample = `n = 2
m = 1
k = 1
r = 1

M0
0
0

M1
0
1
`

func TestFromReaderParsesSample(t *testing.T) {
	f := field.GF16{}
	inst, err := FromReader(f, strings.NewReader(sample))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if inst.NRow != 2 || inst.NCol != 1 || inst.NMat != 1 || inst.Rank != 1 {
		t.Fatalf("dims = (%d,%d,%d,%d), want (2,1,1,1)", inst.NRow, inst.NCol, inst.NMat, inst.Rank)
	}
	if inst.M0.At(0, 0) != 0 || inst.M0.At(1, 0) != 0 {
		t.Fatalf("M0 not all zero: %v", inst.M0.Data)
	}
	if inst.Ms[0].At(0, 0) != 0 || inst.Ms[0].At(1, 0) != 1 {
		t.Fatalf("M1 mismatch: %v", inst.Ms[0].Data)
	}
}

func TestFromReaderRejectsMalformedHeader(t *testing.T) {
	f := field.GF16{}
	bad := "n : 2\nm = 1\nk = 1\nr = 1\nM0\n0\n0\nM1\n1\n1\n"
	if _, err := FromReader(f, strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for malformed header")
	}
}

func TestFromReaderRejectsWrongRowWidth(t *testing.T) {
	f := field.GF16{}
	bad := "n = 2\nm = 2\nk = 1\nr = 1\nM0\n0 0\n0\nM1\n1 1\n1 1\n"
	if _, err := FromReader(f, strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for wrong row width")
	}
}

func TestFromReaderRejectsScalarOutOfRange(t *testing.T) {
	f := field.GF16{}
	bad := "n = 1\nm = 1\nk = 1\nr = 1\nM0\n99\nM1\n1\n"
	if _, err := FromReader(f, strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for out-of-range scalar")
	}
}

func TestFromReaderRejectsMissingMatrixHeader(t *testing.T) {
	f := field.GF16{}
	bad := "n = 1\nm = 1\nk = 1\nr = 1\n0\nM1\n1\n"
	if _, err := FromReader(f, strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for missing M0 header")
	}
}

func TestFromReaderRejectsTruncatedFile(t *testing.T) {
	f := field.GF16{}
	bad := "n = 2\nm = 1\nk = 1\nr = 1\nM0\n0\n"
	if _, err := FromReader(f, strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for truncated matrix block")
	}
}
