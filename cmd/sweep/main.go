package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/tuneinsight/lattigo/v4/utils"

	"PQ-Tweaks/mldsa"
	"PQ-Tweaks/mlkem"
)

const (
	defaultJSONLPath = "Measure_Reports/variant_sweep.jsonl"
	defaultRuns      = 200
	defaultCBDPolys  = 500
)

// signRecord is one Sign invocation on one preset; attempt counters come
// straight from the per-call stats.
type signRecord struct {
	Kind       string `json:"kind"`
	Preset     string `json:"preset"`
	Run        int    `json:"run"`
	Attempts   int    `json:"attempts"`
	Rejections int    `json:"rejections"`
	Bypassed   int    `json:"bypassed"`
	SigBytes   int    `json:"sig_bytes"`
	Challenge  string `json:"challenge"`
	Rejection  string `json:"rejection"`
}

// cbdRecord is the aggregated coefficient histogram of one noise width.
type cbdRecord struct {
	Kind   string      `json:"kind"`
	Width  int         `json:"width"`
	Polys  int         `json:"polys"`
	Counts map[int]int `json:"counts"`
}

type sizeRecord struct {
	Kind            string `json:"kind"`
	Preset          string `json:"preset"`
	CiphertextBytes int    `json:"ciphertext_bytes"`
	PublicKeyBytes  int    `json:"public_key_bytes"`
}

type jsonlWriter struct {
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
}

func newJSONLWriter(path string) (*jsonlWriter, error) {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil && !os.IsExist(err) {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open jsonl output: %w", err)
	}
	buf := bufio.NewWriter(f)
	return &jsonlWriter{file: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

func (w *jsonlWriter) Write(v interface{}) {
	if err := w.enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode: %v\n", err)
	}
}

func (w *jsonlWriter) Close() {
	_ = w.buf.Flush()
	_ = w.file.Close()
}

func dirOf(path string) string {
	last := strings.LastIndexByte(path, '/')
	if last <= 0 {
		if last == 0 {
			return "/"
		}
		return "."
	}
	return path[:last]
}

func exitErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runPRNG(label string, run int) (utils.PRNG, error) {
	return utils.NewKeyedPRNG([]byte(fmt.Sprintf("sweep/%s/%d", label, run)))
}

func sweepPreset(w *jsonlWriter, name string, runs int) error {
	p, err := mldsa.PresetByName(name)
	if err != nil {
		return err
	}
	for _, warning := range p.Warnings() {
		fmt.Fprintf(os.Stderr, "note: %s: %s\n", name, warning)
	}
	sample := mldsa.SimulatedProver(p)
	attempts := make([]float64, 0, runs)
	exhausted := 0
	bypassed := 0
	for run := 0; run < runs; run++ {
		prng, err := runPRNG(name, run)
		if err != nil {
			return err
		}
		seed := make([]byte, mldsa.CTildeBytes)
		if _, err := prng.Read(seed); err != nil {
			return fmt.Errorf("draw seed: %w", err)
		}
		sig, st, err := mldsa.Sign(prng, seed, sample, p)
		if err == mldsa.ErrRetriesExhausted {
			exhausted++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s run %d: %w", name, run, err)
		}
		attempts = append(attempts, float64(st.Attempts))
		bypassed += st.Bypassed
		w.Write(signRecord{
			Kind:       "sign",
			Preset:     name,
			Run:        run,
			Attempts:   st.Attempts,
			Rejections: st.Rejections,
			Bypassed:   st.Bypassed,
			SigBytes:   len(sig.Bytes()),
			Challenge:  p.Challenge.String(),
			Rejection:  p.Rejection.String(),
		})
	}
	mean, _ := stats.Mean(attempts)
	med, _ := stats.Median(attempts)
	std, _ := stats.StandardDeviationSample(attempts)
	p95, _ := stats.Percentile(attempts, 95)
	fmt.Printf("%-24s sig=%4dB attempts mean=%.2f median=%.0f std=%.2f p95=%.0f bypassed=%d exhausted=%d\n",
		name, p.SignatureBytes(), mean, med, std, p95, bypassed, exhausted)
	return nil
}

func sweepNoise(w *jsonlWriter, polys int) error {
	for width := mlkem.MinNoiseWidth; width <= mlkem.MaxNoiseWidth; width++ {
		prng, err := runPRNG(fmt.Sprintf("cbd/%d", width), 0)
		if err != nil {
			return err
		}
		counts := map[int]int{}
		for i := 0; i < polys; i++ {
			poly, err := mlkem.SamplePoly(prng, width)
			if err != nil {
				return err
			}
			for _, c := range poly {
				counts[int(c)]++
			}
		}
		w.Write(cbdRecord{Kind: "cbd", Width: width, Polys: polys, Counts: counts})
		total := float64(polys * 256)
		fmt.Printf("cbd width=%d tails |c|=%d: %.4f%%\n",
			width, width, 100*float64(counts[width]+counts[-width])/total)
	}
	return nil
}

func recordSizes(w *jsonlWriter) {
	for _, name := range mlkem.PresetNames() {
		p, err := mlkem.PresetByName(name)
		if err != nil {
			exitErr("preset %s: %v", name, err)
		}
		w.Write(sizeRecord{
			Kind:            "size",
			Preset:          name,
			CiphertextBytes: p.CiphertextBytes(),
			PublicKeyBytes:  p.PublicKeyBytes(),
		})
		fmt.Printf("%-24s ct=%4dB pk=%4dB\n", name, p.CiphertextBytes(), p.PublicKeyBytes())
	}
}

func main() {
	jsonPath := flag.String("jsonl", defaultJSONLPath, "JSONL output path")
	runs := flag.Int("runs", defaultRuns, "Sign invocations per preset")
	presetSpec := flag.String("presets", strings.Join(mldsa.PresetNames(), ","), "comma-separated signature presets to sweep")
	cbdPolys := flag.Int("cbd_polys", defaultCBDPolys, "noise polynomials per width (0 disables the noise sweep)")
	flag.Parse()

	w, err := newJSONLWriter(*jsonPath)
	if err != nil {
		exitErr("init output: %v", err)
	}
	defer w.Close()

	fmt.Println("Encryption-side preset sizes:")
	recordSizes(w)

	fmt.Printf("\nSignature sweep: %d runs per preset\n", *runs)
	for _, name := range strings.Split(*presetSpec, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := sweepPreset(w, name, *runs); err != nil {
			exitErr("sweep %s: %v", name, err)
		}
	}

	if *cbdPolys > 0 {
		fmt.Printf("\nNoise sweep: %d polynomials per width\n", *cbdPolys)
		if err := sweepNoise(w, *cbdPolys); err != nil {
			exitErr("noise sweep: %v", err)
		}
	}

	fmt.Println("\nJSONL report:", *jsonPath)
}
