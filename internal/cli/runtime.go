package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/asymptotica/majorant/internal/cache"
	"github.com/asymptotica/majorant/internal/catalog"
	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/oracle"
	"github.com/asymptotica/majorant/internal/oracle/wolfram"
	"github.com/asymptotica/majorant/internal/propose"
	"github.com/asymptotica/majorant/internal/verify"
)

// loadConfig merges defaults, the discovered config file and environment
// variables, in ascending priority. Flag overrides are applied by the
// individual commands on top of what this returns.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}
	if ep := viper.GetString("oracle_endpoint"); ep != "" {
		cfg.Oracle.Endpoint = ep
	}
	cfg.Output.Verbose = verbose
	return cfg, nil
}

func buildCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Dir != "" {
		return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	return cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
}

func buildResolver(cfg *model.Config) (oracle.Resolver, error) {
	return wolfram.New(wolfram.Config{
		Transport:     cfg.Oracle.Transport,
		Endpoint:      cfg.Oracle.Endpoint,
		WolframScript: cfg.Oracle.WolframScript,
		Timeout:       cfg.Oracle.Timeout,
		Cache:         buildCache(cfg),
		Verbose:       cfg.Output.Verbose,
	})
}

// buildProposer returns nil when no API key is configured: verification then
// runs with the trivial whole-range partition.
func buildProposer(cfg *model.Config) (oracle.Proposer, error) {
	if cfg.LLM.APIKey == "" {
		return nil, nil
	}
	return propose.New(cfg.LLM)
}

// claimProver wires one controller per claim; it satisfies worker.Prover.
type claimProver struct {
	proposer oracle.Proposer
	resolver oracle.Resolver
	cfg      *model.Config
}

func (p *claimProver) Prove(ctx context.Context, entry catalog.Entry) (*model.ProofResult, error) {
	ctl := verify.New(p.proposer, p.resolver, verify.Options{
		Search:      p.cfg.Search,
		LocalOracle: p.cfg.Oracle.Transport == model.TransportLocal,
	})
	if entry.Kind == model.KindSeries {
		return ctl.ProveSeries(ctx, *entry.Series)
	}
	return ctl.ProveInequality(ctx, *entry.Inequality)
}

func newProver(cfg *model.Config) (*claimProver, error) {
	resolver, err := buildResolver(cfg)
	if err != nil {
		return nil, err
	}
	proposer, err := buildProposer(cfg)
	if err != nil {
		return nil, err
	}
	if proposer == nil && verbose {
		fmt.Fprintln(os.Stderr, "No OPENAI_API_KEY set; proving without a proposal oracle")
	}
	return &claimProver{proposer: proposer, resolver: resolver, cfg: cfg}, nil
}
