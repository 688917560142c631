// Package wolfram implements the resolution oracle client over two
// transports: a local wolframscript subprocess and a remote evaluation
// endpoint. The transport is chosen once at construction from an explicit
// configuration value.
package wolfram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/asymptotica/majorant/internal/cache"
	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/oracle"
)

// Config configures the client. Transport and Endpoint come from the
// process-level configuration; Cache may be nil to disable memoization.
type Config struct {
	Transport     model.OracleTransport
	Endpoint      string
	WolframScript string // Binary path override; "" means resolve
	Timeout       time.Duration
	Cache         cache.Cache
	Verbose       bool
}

// Client is a resolution oracle backed by the Wolfram engine.
type Client struct {
	transport  model.OracleTransport
	endpoint   string
	binary     string
	timeout    time.Duration
	httpClient *http.Client
	cache      cache.Cache
	verbose    bool
}

// candidatePaths are common install locations tried after $WOLFRAMSCRIPT and
// the PATH lookup fail.
var candidatePaths = []string{
	"/Applications/Wolfram.app/Contents/MacOS/wolframscript",
	"/Applications/WolframScript.app/Contents/MacOS/wolframscript",
	"/usr/local/bin/wolframscript",
	"/opt/homebrew/bin/wolframscript",
}

// New builds the client. An entirely unavailable local binary or a remote
// configuration without an endpoint is a fatal construction error, distinct
// from the retryable transport failures surfaced per call.
func New(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	c := &Client{
		transport: cfg.Transport,
		endpoint:  strings.TrimSuffix(cfg.Endpoint, "/"),
		timeout:   timeout,
		cache:     cfg.Cache,
		verbose:   cfg.Verbose,
	}
	switch cfg.Transport {
	case model.TransportRemote:
		if c.endpoint == "" {
			return nil, fmt.Errorf("wolfram: remote transport requires an endpoint")
		}
		c.httpClient = &http.Client{Timeout: timeout}
	case model.TransportLocal, "":
		bin, err := resolveBinary(cfg.WolframScript)
		if err != nil {
			return nil, err
		}
		c.transport = model.TransportLocal
		c.binary = bin
	default:
		return nil, fmt.Errorf("wolfram: unknown transport %q", cfg.Transport)
	}
	return c, nil
}

func resolveBinary(override string) (string, error) {
	if override != "" {
		if isExecutable(override) {
			return override, nil
		}
		return "", fmt.Errorf("wolfram: configured binary %s is not executable", override)
	}
	if env := os.Getenv("WOLFRAMSCRIPT"); env != "" && isExecutable(env) {
		return env, nil
	}
	if path, err := exec.LookPath("wolframscript"); err == nil {
		return path, nil
	}
	for _, p := range candidatePaths {
		if isExecutable(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("wolfram: wolframscript not found; set $WOLFRAMSCRIPT or ensure it is on PATH")
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
}

// Name identifies the oracle in logs and reports.
func (c *Client) Name() string { return "wolfram" }

// ResolveForAll evaluates script and maps the textual output onto the
// tri-state verdict. Transport failures return a *oracle.TransportError;
// unrecognized output is Unknown, never False.
func (c *Client) ResolveForAll(ctx context.Context, script string) (oracle.Truth, error) {
	wrapped := fmt.Sprintf("ToString[\n(\n%s\n), InputForm\n]", script)
	out, err := c.eval(ctx, wrapped)
	if err != nil {
		return oracle.Unknown, err
	}
	return oracle.ParseTruth(strings.TrimSpace(out)), nil
}

// EvaluateJSON evaluates a batched script through the engine's JSON export
// and decodes the structured payload.
func (c *Client) EvaluateJSON(ctx context.Context, script string) (*oracle.EstimatePacket, error) {
	wrapped := fmt.Sprintf("ExportString[\n(\n%s\n), \"JSON\"]", script)
	out, err := c.eval(ctx, wrapped)
	if err != nil {
		return nil, err
	}
	var packet oracle.EstimatePacket
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &packet); err != nil {
		return nil, &oracle.TransportError{Oracle: "resolver", Op: "decode JSON payload", Err: err}
	}
	return &packet, nil
}

// eval runs wrapped code through the configured transport, consulting the
// cache first. Only successful outputs are cached.
func (c *Client) eval(ctx context.Context, wrapped string) (string, error) {
	key := cache.Key(wrapped)
	if c.cache != nil {
		if val, found := c.cache.Get(key); found {
			return string(val), nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out string
	var err error
	if c.transport == model.TransportRemote {
		out, err = c.evalRemote(ctx, wrapped)
	} else {
		out, err = c.evalLocal(ctx, wrapped)
	}
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, []byte(out), 0)
	}
	return out, nil
}

func (c *Client) evalLocal(ctx context.Context, wrapped string) (string, error) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, "[wolfram] using local wolframscript %s\n", c.binary)
	}
	dir, err := os.MkdirTemp("", "majorant-wl-")
	if err != nil {
		return "", &oracle.TransportError{Oracle: "resolver", Op: "create script dir", Err: err}
	}
	defer func() { _ = os.RemoveAll(dir) }()

	scriptPath := filepath.Join(dir, "script.wl")
	if err := os.WriteFile(scriptPath, []byte(wrapped), 0o644); err != nil {
		return "", &oracle.TransportError{Oracle: "resolver", Op: "write script", Err: err}
	}

	cmd := exec.CommandContext(ctx, c.binary, "-file", scriptPath)
	cmd.Env = cleanEnv(os.Environ())
	out, err := cmd.Output()
	if err != nil {
		return "", &oracle.TransportError{Oracle: "resolver", Op: "run wolframscript", Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// cleanEnv strips DYLD_* entries, which break kernel launch on macOS, while
// keeping PATH and everything else.
func cleanEnv(environ []string) []string {
	out := environ[:0:0]
	for _, kv := range environ {
		if strings.HasPrefix(kv, "DYLD") {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func (c *Client) evalRemote(ctx context.Context, wrapped string) (string, error) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, "[wolfram] using remote endpoint %s\n", c.endpoint)
	}
	form := url.Values{"code": {wrapped}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", &oracle.TransportError{Oracle: "resolver", Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &oracle.TransportError{Oracle: "resolver", Op: "post code", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &oracle.TransportError{Oracle: "resolver", Op: "post code",
			Err: fmt.Errorf("endpoint returned HTTP %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &oracle.TransportError{Oracle: "resolver", Op: "read response", Err: err}
	}
	return strings.TrimSpace(string(body)), nil
}
