// Package main provides a performance benchmarking tool for the splinefit CLI.
// It measures fit times across dataset sizes and breakpoint counts, running
// each case multiple times, treating the first run as cold and averaging the
// rest as warm, generating CSV output for performance analysis.
//
// Prerequisites:
// - splinefit binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic datasets are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark case (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Breakpoints int
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Runs         int
	SampleCounts []int
	Breakpoints  []int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:      os.Args[1],
		Timeout:      2 * time.Minute,
		Runs:         4,
		SampleCounts: []int{1_000, 10_000, 100_000},
		Breakpoints:  []int{10, 30, 100},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	datasets, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the splinefit binary and work dir exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("splinefit"); err != nil {
		return fmt.Errorf("splinefit binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// generateDatasets writes one noisy-sine data file per configured sample count.
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	datasets := make(map[string]string)
	for _, n := range config.SampleCounts {
		name := fmt.Sprintf("sine_%d", n)
		path := filepath.Join(config.WorkDir, name+".txt")

		var b strings.Builder
		for i := 0; i < n; i++ {
			x := float64(i) / float64(n-1)
			y := math.Sin(2*math.Pi*x) + 0.05*math.Sin(97*x+1)
			fmt.Fprintf(&b, "%g %g\n", x, y)
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return nil, err
		}
		datasets[name] = path
	}
	return datasets, nil
}

// runBenchmarks executes all benchmark cases across datasets and breakpoint counts.
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs per case\n",
		len(datasets), config.Timeout, config.Runs)

	for _, n := range config.SampleCounts {
		name := fmt.Sprintf("sine_%d", n)
		path := datasets[name]

		for _, bps := range config.Breakpoints {
			fmt.Printf("Running fit on %s with %d breakpoints\n", name, bps)
			cold, warm := runBenchmark(config, path, bps)

			coldStr := "TIMEOUT"
			if cold > 0 {
				coldStr = fmt.Sprintf("%.3fs", cold)
			}
			warmStr := "TIMEOUT"
			if len(warm) > 0 {
				var sum float64
				for _, t := range warm {
					sum += t
				}
				warmStr = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
			}
			fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmStr)

			results = append(results, BenchmarkResult{
				Dataset:     name,
				Breakpoints: bps,
				ColdTime:    coldStr,
				WarmTime:    warmStr,
			})
		}
	}

	return results
}

// runBenchmark executes a fit multiple times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, dataPath string, breakpoints int) (coldTime float64, warmTimes []float64) {
	args := []string{"fit", dataPath, "--breakpoints", strconv.Itoa(breakpoints)}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("splinefit", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "completed in")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/splinefit_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "breakpoints", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		rec := []string{result.Dataset, strconv.Itoa(result.Breakpoints), result.ColdTime, result.WarmTime}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s bps=%-4d Cold: %s, Warm: %s\n", result.Dataset, result.Breakpoints, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
