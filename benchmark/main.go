// Package main provides a performance benchmarking tool for the Cadence CLI.
// It generates synthetic issue exports of increasing size, runs each command
// multiple times against them, treats the first successful run as cold and
// averages the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - cadence binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where datasets and chart output are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	Records  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Projects int
	Datasets map[string]int
	Order    []string
}

// exportHeader matches the column set of a typical issue tracker export.
var exportHeader = []string{"Summary", "Project name", "Custom field (Story Points)", "Description", "Updated", "Created", "Resolved"}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:  os.Args[1],
		Timeout:  5 * time.Minute,
		Runs:     4,
		Projects: 8,
		Datasets: map[string]int{
			"small":  1_000,
			"medium": 20_000,
			"large":  200_000,
		},
		Order: []string{"small", "medium", "large"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the cadence binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("cadence"); err != nil {
		return fmt.Errorf("cadence binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs, %d projects\n",
		len(config.Order), config.Timeout, config.Runs, config.Projects)

	for _, name := range config.Order {
		records := config.Datasets[name]
		fmt.Printf("Generating %s dataset (%d records)\n", name, records)

		dataDir := filepath.Join(config.WorkDir, name, "raw_data")
		if err := generateDataset(dataDir, records, config.Projects); err != nil {
			fmt.Printf("  Skipping %s: %v\n", name, err)
			continue
		}
		outDir := filepath.Join(config.WorkDir, name, "out")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Printf("  Skipping %s: %v\n", name, err)
			continue
		}

		results = append(results, runBenchmarkSuite(config, name, records, "buckets", dataDir, outDir))
		results = append(results, runBenchmarkSuite(config, name, records, "report", dataDir, outDir))
	}

	return results
}

// generateDataset writes one CSV export with random but plausible issues
func generateDataset(dir string, records, projects int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(dir, "issues.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	rng := rand.New(rand.NewPCG(42, uint64(records)))
	points := []string{"1", "2", "3", "5", "8", "13", ""}
	start := time.Date(2022, time.January, 3, 9, 0, 0, 0, time.UTC)

	writer := csv.NewWriter(file)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for i := range records {
		created := start.Add(time.Duration(rng.IntN(700*24)) * time.Hour)
		updated := created.Add(time.Duration(rng.IntN(40*24)) * time.Hour)
		resolved := ""
		if rng.IntN(10) > 0 {
			resolved = updated.Format("02/Jan/06 3:04 PM")
		}
		row := []string{
			"Issue " + strconv.Itoa(i),
			fmt.Sprintf("Project %02d", rng.IntN(projects)),
			points[rng.IntN(len(points))],
			strings.Repeat("lorem ipsum ", rng.IntN(30)),
			updated.Format("02/Jan/06 3:04 PM"),
			created.Format("02/Jan/06 3:04 PM"),
			resolved,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarkSuite runs one command several times and summarizes the timings
func runBenchmarkSuite(config BenchmarkConfig, dataset string, records int, command, dataDir, outDir string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	coldTime, times := runBenchmark(config, command, dataDir, outDir)

	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}
	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command,
		Records:  records,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a cadence command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command, dataDir, outDir string) (coldTime float64, warmTimes []float64) {
	args := []string{command, dataDir, "--output-dir", outDir, "--color", "no"}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("cadence", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "buckets" {
		return strings.Contains(outputStr, "Analysis completed in")
	}
	return strings.Contains(outputStr, "story points:") && strings.Contains(outputStr, "story count:")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("cadence_benchmark_%s.csv", timestamp))

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
	if err := writer.Write([]string{"dataset", "cmd", "records", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, strconv.Itoa(result.Records), result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "buckets", "Buckets:")
	printCommandSummary(results, "report", "Report:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s (%7d records): Cold: %s, Warm: %s\n", result.Dataset, result.Records, result.ColdTime, result.WarmTime)
		}
	}
}
