// Scope Replay - utility to inspect Serial Scope recording files
// This program reads a recorded CSV and prints per-channel statistics.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"serial-scope/internal/version"

	"github.com/spf13/cobra"
)

var showVersion bool

// channelStats accumulates summary statistics for one recorded column
type channelStats struct {
	name     string
	count    int
	min, max float64
	sum      float64
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scope-replay [recording.csv]",
	Short: "Display contents of Serial Scope recording files",
	Long: `Scope Replay summarizes a Serial Scope CSV recording: per channel it
reports how many ticks carried a value and the min/max/mean of those values.
Blank cells (channels with no update that tick) are skipped.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("Scope Replay"))
			return
		}
		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Error: filename required\n")
			cmd.Usage()
			os.Exit(1)
		}
		if err := summarize(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
}

// summarize reads and summarizes one recording file
func summarize(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 || header[0] != "timestamp" {
		return fmt.Errorf("not a recording file: unexpected header %v", header)
	}

	stats := make([]channelStats, len(header)-1)
	for i := range stats {
		stats[i] = channelStats{name: header[i+1], min: math.Inf(1), max: math.Inf(-1)}
	}

	var rows int
	var first, last float64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read row %d: %w", rows+1, err)
		}
		ts, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return fmt.Errorf("bad timestamp on row %d: %w", rows+1, err)
		}
		if rows == 0 {
			first = ts
		}
		last = ts
		rows++

		for i := 1; i < len(record) && i <= len(stats); i++ {
			if record[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return fmt.Errorf("bad value on row %d column %d: %w", rows, i, err)
			}
			s := &stats[i-1]
			s.count++
			s.sum += v
			s.min = math.Min(s.min, v)
			s.max = math.Max(s.max, v)
		}
	}

	fmt.Printf("Recording: %s\n", filename)
	fmt.Printf("Rows: %d", rows)
	if rows > 1 {
		fmt.Printf("  span: %.2fs", last-first)
	}
	fmt.Println()
	fmt.Println()
	fmt.Printf("%-12s %8s %12s %12s %12s\n", "channel", "ticks", "min", "max", "mean")
	for _, s := range stats {
		if s.count == 0 {
			fmt.Printf("%-12s %8d %12s %12s %12s\n", s.name, 0, "-", "-", "-")
			continue
		}
		fmt.Printf("%-12s %8d %12.3f %12.3f %12.3f\n",
			s.name, s.count, s.min, s.max, s.sum/float64(s.count))
	}
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
