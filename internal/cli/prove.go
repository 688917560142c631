package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asymptotica/majorant/internal/catalog"
	"github.com/asymptotica/majorant/internal/model"
)

var (
	outJSON       string
	transport     string
	endpoint      string
	wolframScript string
	oracleTimeout time.Duration
	noCache       bool
	cacheDir      string
	noLLM         bool
	llmModel      string
	maxCycles     int
	minExponent   int
	maxExponent   int
)

// proveCmd represents the prove command
var proveCmd = &cobra.Command{
	Use:   "prove <claim>",
	Short: "Verify one asymptotic-bound claim",
	Long: `Prove verifies a single claim, named from the built-in catalog or
defined in a YAML file:
- Ask the proposal oracle for a decomposition of the range or domain
- Check each piece against the resolution oracle
- Search candidate constants C = 10^c and aggregate the verdicts

The exit status is zero for both proved and disproved (both are
successful verification outcomes) and nonzero for unknown or a fatal
setup error.

Example:
  majorant prove inequality_4
  majorant prove series_1 --transport remote --endpoint https://www.wolframcloud.com/obj/...
  majorant prove myclaim.yaml --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProve,
}

func init() {
	rootCmd.AddCommand(proveCmd)

	proveCmd.Flags().StringVar(&outJSON, "json", "", "write the run report JSON to this path")

	// Resolution oracle flags
	proveCmd.Flags().StringVar(&transport, "transport", "", "resolution oracle transport (local, remote)")
	proveCmd.Flags().StringVar(&endpoint, "endpoint", "", "remote evaluation endpoint URL")
	proveCmd.Flags().StringVar(&wolframScript, "wolframscript", "", "wolframscript binary path override")
	proveCmd.Flags().DurationVar(&oracleTimeout, "timeout", 0, "per-query oracle timeout (default from config)")
	proveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable oracle result caching")
	proveCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist oracle results under this directory")

	// Proposal oracle flags
	proveCmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip the proposal oracle; use the whole range as one piece")
	proveCmd.Flags().StringVar(&llmModel, "llm-model", "", "proposal oracle model name")

	// Search flags
	proveCmd.Flags().IntVar(&maxCycles, "cycles", 0, "proposal retry budget (default 5)")
	proveCmd.Flags().IntVar(&minExponent, "min-exponent", -2, "lowest constant exponent scanned on retries")
	proveCmd.Flags().IntVar(&maxExponent, "max-exponent", 6, "highest constant exponent scanned on retries")
}

// applyFlags overlays command-line flags on the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *model.Config) {
	if transport != "" {
		cfg.Oracle.Transport = model.OracleTransport(transport)
	}
	if endpoint != "" {
		cfg.Oracle.Endpoint = endpoint
		if transport == "" {
			cfg.Oracle.Transport = model.TransportRemote
		}
	}
	if wolframScript != "" {
		cfg.Oracle.WolframScript = wolframScript
	}
	if oracleTimeout > 0 {
		cfg.Oracle.Timeout = oracleTimeout
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if noLLM {
		cfg.LLM.APIKey = ""
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if maxCycles > 0 {
		cfg.Search.MaxProposalCycles = maxCycles
	}
	if cmd.Flags().Changed("min-exponent") {
		cfg.Search.MinExponent = minExponent
	}
	if cmd.Flags().Changed("max-exponent") {
		cfg.Search.MaxExponent = maxExponent
	}
}

func runProve(cmd *cobra.Command, args []string) error {
	entry, err := resolveClaim(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	prover, err := newProver(cfg)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Claim: %s\n", entry.Describe())
		fmt.Fprintf(os.Stderr, "Oracle transport: %s\n\n", cfg.Oracle.Transport)
	}

	started := time.Now()
	result, err := prover.Prove(context.Background(), entry)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	for _, line := range result.Transcript {
		fmt.Println(line)
	}
	fmt.Println()
	printVerdict(entry, result)

	if outJSON != "" {
		report := model.RunReport{
			Claim:      entry.Describe(),
			Kind:       entry.Kind,
			Verdict:    result.Verdict,
			Witness:    result.WitnessConstant(),
			Advice:     result.Advice,
			StartedAt:  started,
			Duration:   time.Since(started),
			Attempts:   result.Attempts,
			Transcript: result.Transcript,
		}
		if err := writeReport(outJSON, &report); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", outJSON)
		}
	}

	if result.Verdict == model.VerdictUnknown {
		return fmt.Errorf("claim %s could not be resolved", entry.Name)
	}
	return nil
}

func printVerdict(entry catalog.Entry, result *model.ProofResult) {
	switch result.Verdict {
	case model.VerdictProved:
		fmt.Printf("PROVED: %s with C = %s\n", entry.Describe(), result.WitnessConstant())
	case model.VerdictDisproved:
		fmt.Printf("DISPROVED: %s\n", entry.Describe())
	default:
		fmt.Printf("UNKNOWN: %s\n", entry.Describe())
		if result.Advice != "" {
			fmt.Println(result.Advice)
		}
	}
}

func writeReport(path string, report *model.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
