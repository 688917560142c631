package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/asymptotica/majorant/internal/catalog"
	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple claims from a file in parallel",
	Long: `Batch verifies several claims concurrently:
- Read claim names from the input file (one per line, # comments allowed)
- Each claim runs its own verification controller; claims share nothing
- Write one JSON report per claim

Example:
  majorant batch claims.txt
  majorant batch claims.txt --concurrency 4 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write per-claim JSON reports here")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")

	// Shared oracle flags
	batchCmd.Flags().StringVar(&transport, "transport", "", "resolution oracle transport (local, remote)")
	batchCmd.Flags().StringVar(&endpoint, "endpoint", "", "remote evaluation endpoint URL")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable oracle result caching")
	batchCmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip the proposal oracle")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	prover, err := newProver(cfg)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	processor := worker.NewBatchProcessor(prover, concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return err
	}

	unresolved := 0
	for _, res := range results {
		switch {
		case res.Error != nil:
			unresolved++
			fmt.Printf("%-16s error: %v\n", res.Name, res.Error)
		case res.Result.Verdict == model.VerdictUnknown:
			unresolved++
			fmt.Printf("%-16s unknown\n", res.Name)
		default:
			line := fmt.Sprintf("%-16s %s", res.Name, res.Result.Verdict)
			if res.Result.Verdict == model.VerdictProved {
				line += fmt.Sprintf(" (C = %s)", res.Result.WitnessConstant())
			}
			fmt.Println(line)
		}
		if outputDir != "" && res.Result != nil {
			if err := writeBatchReport(res); err != nil {
				fmt.Fprintf(os.Stderr, "write report for %s: %v\n", res.Name, err)
			}
		}
	}

	fmt.Printf("\n%d claims, %d unresolved\n", len(results), unresolved)
	if unresolved > 0 {
		return fmt.Errorf("%d of %d claims unresolved", unresolved, len(results))
	}
	return nil
}

func writeBatchReport(res *worker.ProveResult) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	report := model.RunReport{
		Claim:      res.Name,
		Verdict:    res.Result.Verdict,
		Witness:    res.Result.WitnessConstant(),
		Advice:     res.Result.Advice,
		Attempts:   res.Result.Attempts,
		Transcript: res.Result.Transcript,
	}
	if e, ok := catalog.Lookup(res.Name); ok {
		report.Claim = e.Describe()
		report.Kind = e.Kind
	}
	return writeReport(filepath.Join(outputDir, res.Name+".json"), &report)
}
