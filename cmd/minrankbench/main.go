// Command minrankbench sweeps worker-pool sizes against a loaded MinRank
// instance's Macaulay matrix and reports the CMSM/RMSM sparse matrix-vector
// product throughput at each size, as a JSON sweep record and an HTML
// bar-chart report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"minrank/cmsm"
	"minrank/field"
	"minrank/loader"
	"minrank/matrix"
	"minrank/mdeg"
	"minrank/mdmac"
	"minrank/rmsm"
)

type sweepPoint struct {
	Workers     int     `json:"workers"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	MeanSeconds float64 `json:"mean_seconds"`
	Reps        int     `json:"reps"`
}

type sweepReport struct {
	Engine   string       `json:"engine"`
	NRow     uint64       `json:"nrow"`
	NCol     uint64       `json:"ncol"`
	NzNum    uint64       `json:"nznum"`
	Points   []sweepPoint `json:"points"`
	TakenAt  string       `json:"taken_at"`
}

func parseWorkerList(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid worker count %q", tok)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty worker list")
	}
	return out, nil
}

func timeReps(reps int, fn func()) time.Duration {
	start := time.Now()
	for i := 0; i < reps; i++ {
		fn()
	}
	return time.Since(start)
}

func main() {
	mrFile := flag.String("minrank", "", "path to the MinRank instance file (required)")
	mdegSpec := flag.String("mdeg", "2,1", "comma-separated multi-degree d0,d1,...,dc")
	fieldQ := flag.Uint64("field", 16, "field size: 16 or 31")
	workersFlag := flag.String("threads", "1,2,4,8", "comma-separated worker counts to sweep")
	reps := flag.Int("reps", 20, "repetitions per sweep point")
	outDir := flag.String("out", "bench_reports", "output directory for the JSON and HTML reports")
	flag.Parse()

	if *mrFile == "" {
		log.Fatalf("minrankbench: -minrank is required")
	}
	workers, err := parseWorkerList(*workersFlag)
	if err != nil {
		log.Fatalf("minrankbench: %v", err)
	}

	f, err := field.ByID(*fieldQ)
	if err != nil {
		log.Fatalf("minrankbench: %v", err)
	}
	inst, err := loader.FromFile(f, *mrFile)
	if err != nil {
		log.Fatalf("minrankbench: %v", err)
	}

	toks := strings.Split(*mdegSpec, ",")
	counts := make([]uint32, len(toks))
	for i, tok := range toks {
		v, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 32)
		if err != nil {
			log.Fatalf("minrankbench: bad -mdeg component %q: %v", tok, err)
		}
		counts[i] = uint32(v)
	}
	deg := mdeg.New(counts...)

	ks, err := inst.KS(uint32(deg.C()))
	if err != nil {
		log.Fatalf("minrankbench: building KS matrix: %v", err)
	}
	mac, err := mdmac.BuildFromKS(ks, inst, []mdeg.MDeg{deg})
	if err != nil {
		log.Fatalf("minrankbench: building Macaulay matrix: %v", err)
	}

	colIdxs := make([]uint64, mac.NCol)
	for i := range colIdxs {
		colIdxs[i] = uint64(i)
	}

	rnd := rand.New(rand.NewPCG(1, 1))
	a, err := cmsm.FromMDMac(mac, matrix.BlockWidth, rnd, colIdxs)
	if err != nil {
		log.Fatalf("minrankbench: building cmsm: %v", err)
	}
	b, err := rmsm.FromMDMac(mac, colIdxs)
	if err != nil {
		log.Fatalf("minrankbench: building rmsm: %v", err)
	}

	vA := matrix.NewRMGF16(a.CNum)
	for i := uint64(0); i < vA.NRow; i++ {
		f.ArrRand(vA.RAddr(i), rnd)
	}
	vB := matrix.NewRMGF16(b.CNum)
	for i := uint64(0); i < vB.NRow; i++ {
		f.ArrRand(vB.RAddr(i), rnd)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("minrankbench: %v", err)
	}
	ts := time.Now().Format("20060102_150405")

	cmsmReport := sweepReport{Engine: "cmsm.MulRMGF16Parallel", NRow: a.RNum, NCol: a.CNum, NzNum: a.NzNum, TakenAt: ts}
	res := matrix.NewRMGF16(a.RNum)
	for _, w := range workers {
		d := timeReps(*reps, func() {
			if err := a.MulRMGF16Parallel(f, res, vA, w); err != nil {
				log.Fatalf("minrankbench: %v", err)
			}
		})
		mean := d.Seconds() / float64(*reps)
		cmsmReport.Points = append(cmsmReport.Points, sweepPoint{Workers: w, OpsPerSec: 1 / mean, MeanSeconds: mean, Reps: *reps})
	}

	rmsmReport := sweepReport{Engine: "rmsm.MulRMGF16Parallel", NRow: b.RNum, NCol: b.CNum, NzNum: b.NzNum, TakenAt: ts}
	resB := matrix.NewRMGF16(b.RNum)
	for _, w := range workers {
		d := timeReps(*reps, func() {
			if err := b.MulRMGF16Parallel(f, resB, vB, w); err != nil {
				log.Fatalf("minrankbench: %v", err)
			}
		})
		mean := d.Seconds() / float64(*reps)
		rmsmReport.Points = append(rmsmReport.Points, sweepPoint{Workers: w, OpsPerSec: 1 / mean, MeanSeconds: mean, Reps: *reps})
	}

	jsonPath := filepath.Join(*outDir, fmt.Sprintf("sweep_%s.json", ts))
	if err := saveJSON(jsonPath, []sweepReport{cmsmReport, rmsmReport}); err != nil {
		log.Printf("minrankbench: warn: save json: %v", err)
	}

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("sweep_%s.html", ts))
	if err := renderCharts(htmlPath, cmsmReport, rmsmReport); err != nil {
		log.Printf("minrankbench: warn: render html: %v", err)
	}

	fmt.Println("Sweep JSON:", jsonPath)
	fmt.Println("Sweep HTML:", htmlPath)
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func barChart(r sweepReport) *charts.Bar {
	xLabels := make([]string, len(r.Points))
	items := make([]opts.BarData, len(r.Points))
	for i, p := range r.Points {
		xLabels[i] = strconv.Itoa(p.Workers)
		items[i] = opts.BarData{Value: p.OpsPerSec}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: r.Engine, Subtitle: fmt.Sprintf("%d x %d, nznum=%d", r.NRow, r.NCol, r.NzNum)}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: r.Engine, Width: "900px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("ops/sec", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return bar
}

func renderCharts(path string, reports ...sweepReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	page := components.NewPage()
	for _, r := range reports {
		page.AddCharts(barChart(r))
	}
	return page.Render(f)
}
