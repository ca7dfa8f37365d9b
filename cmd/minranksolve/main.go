// Command minranksolve loads a MinRank instance, builds its multi-degree
// Macaulay matrix, and runs the block-Lanczos style singular-check iteration
// over it, reporting every distinct kernel solution found.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"minrank/field"
	"minrank/internal/dedup"
	"minrank/loader"
	"minrank/matrix"
	"minrank/mdmac"
	"minrank/options"
	"minrank/solve"
)

func main() {
	opts, err := options.Parse("minranksolve", os.Args[1:])
	if err != nil {
		if pe, ok := err.(*options.ParseError); ok {
			fmt.Fprintln(os.Stderr, pe.Error())
			os.Exit(pe.Code)
		}
		log.Fatalf("minranksolve: %v", err)
	}

	f, err := field.ByID(opts.FieldQ)
	if err != nil {
		log.Fatalf("minranksolve: %v", err)
	}

	inst, err := loader.FromFile(f, opts.MRFile)
	if err != nil {
		log.Fatalf("minranksolve: %v", err)
	}
	if opts.Verbose {
		log.Printf("minranksolve: loaded instance n=%d m=%d k=%d r=%d", inst.NRow, inst.NCol, inst.NMat, inst.Rank)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	rnd := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	c := uint32(opts.Degs[0].C())
	ks, err := inst.KS(c)
	if err != nil {
		log.Fatalf("minranksolve: building KS matrix: %v", err)
	}
	if opts.KSRand {
		if opts.Verbose {
			log.Printf("minranksolve: -ks-rand set, replacing the computed KS matrix with a random one of the same shape")
		}
		randKS := matrix.NewGFM(ks.NRow, ks.NCol)
		randKS.Rand(f, rnd)
		ks = randKS
	}

	mac, err := mdmac.BuildFromKS(ks, inst, opts.Degs)
	if err != nil {
		log.Fatalf("minranksolve: building Macaulay matrix: %v", err)
	}
	if opts.Verbose {
		log.Printf("minranksolve: Macaulay matrix is %d x %d", mac.NRow, mac.NCol)
	}
	if opts.MacNRow != 0 && opts.MacNRow < mac.NRow {
		if opts.Verbose {
			log.Printf("minranksolve: capping sampled rows to %d of %d available", opts.MacNRow, mac.NRow)
		}
		mac, err = mac.Sample(opts.MacNRow, rnd)
		if err != nil {
			log.Fatalf("minranksolve: capping Macaulay matrix rows: %v", err)
		}
	}

	if opts.Dry {
		fmt.Printf("ok: %d x %d Macaulay matrix constructed\n", mac.NRow, mac.NCol)
		return
	}

	colIdxs := make([]uint64, mac.NCol)
	for i := range colIdxs {
		colIdxs[i] = uint64(i)
	}

	dm, err := dedup.New(1 << 16)
	if err != nil {
		log.Fatalf("minranksolve: %v", err)
	}

	nWorkers := int(opts.ThreadCount)
	if nWorkers == 0 {
		nWorkers = 1
		for nWorkers < runtime.NumCPU() {
			nWorkers <<= 1
		}
	}
	sum, err := solve.Run(context.Background(), f, mac, colIdxs, 5, 1<<20, nWorkers, rnd, dm)
	if err != nil {
		log.Fatalf("minranksolve: %v", err)
	}

	fmt.Printf("rounds=%d unique=%d singular=%d inconsistent=%d duplicates=%d solutions_recorded=%d\n",
		sum.Rounds, sum.Unique, sum.Singular, sum.Inconsist, sum.Dup, dm.Len())
	dm.ForEach(func(_ dedup.Key, sol uint64) {
		fmt.Printf("solution: %#016x\n", sol)
	})
}
