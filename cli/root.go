// Package cli wires the Tokenize -> Parse -> Visualize pipeline behind
// a cobra command, grounded on the teacher's cli/main.go (cobra.Command,
// RunE, SilenceErrors, flag vars closed over by init) scaled down from
// its multi-mode dispatch to this tool's single straight-line pipeline.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/codeFather2/python-ast-visualizer/pkgs/graph"
	"github.com/codeFather2/python-ast-visualizer/pkgs/lexer"
	"github.com/codeFather2/python-ast-visualizer/pkgs/logging"
	"github.com/codeFather2/python-ast-visualizer/pkgs/parser"
	"github.com/codeFather2/python-ast-visualizer/pkgs/snapshot"
)

type options struct {
	inputs     []string
	output     string
	mode       string
	debug      bool
	writeJSON  bool
	cache      bool
	verifyHash string
}

// NewRootCommand builds the flowgraph root command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "flowgraph",
		Short:         "Visualize a source file's AST or control-flow graph",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.inputs, "input", "i", nil, "input file path (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "output/output", "output path prefix")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "AST", "visualization mode: AST|CFG (case-insensitive; anything but AST selects CFG)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.writeJSON, "json", false, "additionally write a schema-validated JSON dump")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "read/write a .astcache sidecar next to each input")
	cmd.Flags().StringVar(&opts.verifyHash, "verify-hash", "", "compare the emitted graph's canonical hash against this hex digest")

	return cmd
}

// exitError carries the process exit code a failed run should use,
// since cobra's RunE only reports success/failure, not a code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode extracts the intended process exit code from an error
// returned by a command's Execute, defaulting to ExitUsage for any
// other error (a flag parsing failure, for instance).
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}

func run(cmd *cobra.Command, opts *options) error {
	if len(opts.inputs) == 0 {
		return &exitError{code: ExitUsage, err: fmt.Errorf("flowgraph: -i/--input is required")}
	}

	logger := logging.New(opts.debug)
	mode := graph.ParseMode(opts.mode)

	var (
		mu       sync.Mutex
		worst    = ExitSuccess
		firstErr error
	)
	record := func(code int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if code > worst {
			worst = code
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var wg sync.WaitGroup
	for _, input := range opts.inputs {
		input := input
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := visualizeOne(input, opts, mode, logger)
			record(code, err)
		}()
	}
	wg.Wait()

	if worst != ExitSuccess {
		if firstErr == nil {
			firstErr = fmt.Errorf("flowgraph: one or more inputs failed")
		}
		return &exitError{code: worst, err: firstErr}
	}
	return nil
}

// visualizeOne runs the full pipeline for a single input file, used
// standalone per-goroutine so multiple inputs process concurrently
// (spec §5's single concurrency allowance, confined to this layer).
func visualizeOne(input string, opts *options, mode graph.Mode, logger logging.Logger) (int, error) {
	source, err := os.ReadFile(input)
	if err != nil {
		return ExitUsage, fmt.Errorf("flowgraph: reading %s: %w", input, err)
	}
	text := string(source)

	cachePath := input + ".astcache"
	g, err := buildGraph(text, input, cachePath, opts.cache, mode, logger)
	if err != nil {
		var lexErr *lexer.LexingError
		if errors.As(err, &lexErr) {
			return ExitLexError, err
		}
		return ExitUsage, err
	}

	if opts.verifyHash != "" {
		if g.CanonicalHash() != opts.verifyHash {
			return ExitHashMismatch, fmt.Errorf("flowgraph: %s: canonical hash mismatch", input)
		}
	}

	outPath := outputPath(opts.output, opts.inputs, input, mode.String())
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return ExitUsage, fmt.Errorf("flowgraph: creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(graph.WriteDOT(g)), 0o644); err != nil {
		return ExitUsage, fmt.Errorf("flowgraph: writing %s: %w", outPath, err)
	}

	if opts.writeJSON {
		data, err := json.Marshal(g)
		if err != nil {
			return ExitUsage, fmt.Errorf("flowgraph: marshaling JSON dump: %w", err)
		}
		if err := snapshot.ValidateGraphJSON(data); err != nil {
			return ExitUsage, fmt.Errorf("flowgraph: %w", err)
		}
		if err := os.WriteFile(outPath+".json", data, 0o644); err != nil {
			return ExitUsage, fmt.Errorf("flowgraph: writing JSON dump: %w", err)
		}
	}

	return ExitSuccess, nil
}

// outputPath computes <prefix><mode> per spec §6, disambiguated by the
// input's base name when more than one input is given (otherwise every
// concurrently-processed file would overwrite the same path).
func outputPath(prefix string, allInputs []string, input, mode string) string {
	if len(allInputs) > 1 {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		return fmt.Sprintf("%s-%s-%s", prefix, base, mode)
	}
	return prefix + mode
}

func buildGraph(source, input, cachePath string, useCache bool, mode graph.Mode, logger logging.Logger) (*graph.Graph, error) {
	if useCache {
		if cached, err := os.ReadFile(cachePath); err == nil {
			if cachedRoot, decodeErr := snapshot.DecodeAST(cached); decodeErr == nil {
				return graph.Visualize(cachedRoot, source, mode)
			}
		}
	}

	tokens, lexErr := lexer.New(source, logger).Tokenize()
	if lexErr != nil {
		return nil, lexErr
	}
	root, stats := parser.New(tokens, logger).Parse()
	logger.Info(fmt.Sprintf("%s: parsed %d nodes, %d recovered errors", input, stats.NodesProduced, stats.RecoveredErrors))

	if useCache {
		if data, err := snapshot.EncodeAST(root); err == nil {
			_ = os.WriteFile(cachePath, data, 0o644)
		}
	}

	return graph.Visualize(root, source, mode)
}
