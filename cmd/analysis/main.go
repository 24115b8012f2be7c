package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"
)

// rawRecord is the union of the sweep tool's JSONL rows; Kind selects which
// fields are meaningful.
type rawRecord struct {
	Kind            string      `json:"kind"`
	Preset          string      `json:"preset"`
	Run             int         `json:"run"`
	Attempts        int         `json:"attempts"`
	Rejections      int         `json:"rejections"`
	Bypassed        int         `json:"bypassed"`
	SigBytes        int         `json:"sig_bytes"`
	Challenge       string      `json:"challenge"`
	Rejection       string      `json:"rejection"`
	Width           int         `json:"width"`
	Polys           int         `json:"polys"`
	Counts          map[int]int `json:"counts"`
	CiphertextBytes int         `json:"ciphertext_bytes"`
	PublicKeyBytes  int         `json:"public_key_bytes"`
}

type presetSeries struct {
	attempts  []float64
	bypassed  int
	sigBytes  int
	challenge string
	rejection string
}

type presetSummary struct {
	Runs       int     `json:"runs"`
	MeanTries  float64 `json:"mean_attempts"`
	Median     float64 `json:"median_attempts"`
	Std        float64 `json:"std_attempts"`
	P95        float64 `json:"p95_attempts"`
	RejectRate float64 `json:"rejection_rate"`
	Bypassed   int     `json:"bypassed"`
	SigBytes   int     `json:"sig_bytes"`
	Challenge  string  `json:"challenge"`
	Rejection  string  `json:"rejection"`
}

func loadRecords(path string) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []rawRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}

func summarize(s presetSeries) presetSummary {
	mean, _ := stats.Mean(s.attempts)
	med, _ := stats.Median(s.attempts)
	std, _ := stats.StandardDeviationSample(s.attempts)
	p95, _ := stats.Percentile(s.attempts, 95)
	rate := 0.0
	if mean > 0 {
		rate = (mean - 1) / mean
	}
	return presetSummary{
		Runs:       len(s.attempts),
		MeanTries:  mean,
		Median:     med,
		Std:        std,
		P95:        p95,
		RejectRate: rate,
		Bypassed:   s.bypassed,
		SigBytes:   s.sigBytes,
		Challenge:  s.challenge,
		Rejection:  s.rejection,
	}
}

func toBarItems(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newPresetBar(title, series string, names []string, vals []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries(series, toBarItems(vals)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return bar
}

func newNoiseHistogram(rec rawRecord) *charts.Bar {
	coeffs := make([]int, 0, len(rec.Counts))
	for c := range rec.Counts {
		coeffs = append(coeffs, c)
	}
	sort.Ints(coeffs)
	labels := make([]string, len(coeffs))
	vals := make([]float64, len(coeffs))
	total := float64(rec.Polys * 256)
	for i, c := range coeffs {
		labels[i] = fmt.Sprintf("%d", c)
		vals[i] = float64(rec.Counts[c]) / total
	}
	title := fmt.Sprintf("Noise distribution, width %d", rec.Width)
	subtitle := fmt.Sprintf("%d polynomials, nominal variance %.1f", rec.Polys, float64(rec.Width)/2)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("frequency", toBarItems(vals)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func main() {
	jsonPath := flag.String("jsonl", "Measure_Reports/variant_sweep.jsonl", "sweep JSONL input")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	records, err := loadRecords(*jsonPath)
	if err != nil {
		log.Fatalf("load %s: %v", *jsonPath, err)
	}

	series := map[string]*presetSeries{}
	var noise []rawRecord
	ctNames := []string{}
	ctBytes := []float64{}
	for _, rec := range records {
		switch rec.Kind {
		case "sign":
			s := series[rec.Preset]
			if s == nil {
				s = &presetSeries{challenge: rec.Challenge, rejection: rec.Rejection}
				series[rec.Preset] = s
			}
			s.attempts = append(s.attempts, float64(rec.Attempts))
			s.bypassed += rec.Bypassed
			s.sigBytes = rec.SigBytes
		case "cbd":
			noise = append(noise, rec)
		case "size":
			ctNames = append(ctNames, rec.Preset)
			ctBytes = append(ctBytes, float64(rec.CiphertextBytes))
		}
	}
	if len(series) == 0 && len(noise) == 0 {
		log.Fatalf("no usable records in %s", *jsonPath)
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := map[string]presetSummary{}
	meanTries := make([]float64, len(names))
	rejectRates := make([]float64, len(names))
	sigSizes := make([]float64, len(names))
	for i, name := range names {
		sum := summarize(*series[name])
		summaries[name] = sum
		meanTries[i] = sum.MeanTries
		rejectRates[i] = sum.RejectRate
		sigSizes[i] = float64(sum.SigBytes)
		fmt.Printf("%-24s runs=%d mean=%.2f p95=%.0f reject=%.1f%% bypassed=%d sig=%dB\n",
			name, sum.Runs, sum.MeanTries, sum.P95, 100*sum.RejectRate, sum.Bypassed, sum.SigBytes)
	}

	ts := time.Now().Format("20060102_150405")
	statsPath := filepath.Join(*outDir, fmt.Sprintf("sweep_stats_%s.json", ts))
	if err := saveJSON(statsPath, summaries); err != nil {
		log.Printf("warn: save stats: %v", err)
	}

	page := components.NewPage()
	if len(names) > 0 {
		page.AddCharts(
			newPresetBar("Mean signing attempts per preset", "attempts", names, meanTries),
			newPresetBar("Rejection rate per preset", "rate", names, rejectRates),
			newPresetBar("Signature size per preset (bytes)", "bytes", names, sigSizes),
		)
	}
	if len(ctNames) > 0 {
		page.AddCharts(newPresetBar("Ciphertext size per preset (bytes)", "bytes", ctNames, ctBytes))
	}
	sort.Slice(noise, func(i, j int) bool { return noise[i].Width < noise[j].Width })
	for _, rec := range noise {
		page.AddCharts(newNoiseHistogram(rec))
	}

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("sweep_charts_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Chart page:", htmlPath)
	fmt.Println("Stats JSON:", statsPath)
}
