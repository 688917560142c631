package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/asymptotica/majorant/internal/catalog"
	"github.com/asymptotica/majorant/internal/model"
)

// Prover runs the full verification loop for one catalog entry.
type Prover interface {
	Prove(ctx context.Context, entry catalog.Entry) (*model.ProofResult, error)
}

// ProveJob verifies one named claim.
type ProveJob struct {
	Entry  catalog.Entry
	Prover Prover
}

// Execute runs the job.
func (j *ProveJob) Execute(ctx context.Context) Result {
	result, err := j.Prover.Prove(ctx, j.Entry)
	return &ProveResult{Name: j.Entry.Name, Result: result, Error: err}
}

// ProveResult is the outcome of one claim verification.
type ProveResult struct {
	Name   string
	Result *model.ProofResult // nil on fatal error
	Error  error
}

// GetError returns the fatal error, if any.
func (r *ProveResult) GetError() error { return r.Error }

// BatchProcessor proves several claims concurrently.
type BatchProcessor struct {
	prover      Prover
	concurrency int
}

// NewBatchProcessor builds a batch processor over the given prover.
func NewBatchProcessor(prover Prover, concurrency int) *BatchProcessor {
	return &BatchProcessor{prover: prover, concurrency: concurrency}
}

// ProcessNames proves the named catalog entries concurrently. Unknown names
// produce a ProveResult with an error rather than aborting the batch.
func (b *BatchProcessor) ProcessNames(ctx context.Context, names []string) []*ProveResult {
	if len(names) == 0 {
		return []*ProveResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	var misses []*ProveResult
	for _, name := range names {
		entry, ok := catalog.Lookup(name)
		if !ok {
			misses = append(misses, &ProveResult{Name: name, Error: fmt.Errorf("unknown claim %q", name)})
			continue
		}
		pool.Submit(&ProveJob{Entry: entry, Prover: b.prover})
	}

	results := pool.Wait()
	out := make([]*ProveResult, 0, len(results)+len(misses))
	for _, res := range results {
		out = append(out, res.(*ProveResult))
	}
	return append(out, misses...)
}

// ProcessFile reads claim names from a file (one per line, # comments and
// duplicates skipped) and proves them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ProveResult, error) {
	names, err := ReadNamesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claim names: %w", err)
	}
	return b.ProcessNames(ctx, names), nil
}

// ReadNamesFromFile reads one claim name per line, skipping blank lines,
// # comments and duplicates.
func ReadNamesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return names, nil
}
