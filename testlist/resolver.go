package testlist

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-regress/metrics"
	"github.com/ethereum-optimism/infra/op-regress/types"
)

const (
	// DefaultPlaceholder is substituted with the root directory in import paths.
	DefaultPlaceholder = "<riscv_dv_root>"
	// SelectAll matches every test entry.
	SelectAll = "all"
)

// Selection narrows a test list down to the entries that should run.
type Selection struct {
	Tests      string // Comma-separated test names, or "all"
	Iterations int    // Overrides positive entry iterations when > 0
	Root       string // Substituted for the placeholder in import paths
}

// requested splits the comma-separated selection into a set of names.
func (s Selection) requested() map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range strings.Split(s.Tests, ",") {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Config contains resolver configuration
type Config struct {
	Log         log.Logger
	Loader      DocumentLoader
	Placeholder string
}

// Resolver expands a test list and its imports into a flat list of test entries.
type Resolver struct {
	log         log.Logger
	loader      DocumentLoader
	placeholder string
	tracer      trace.Tracer
}

// NewResolver creates a new resolver. Unset fields fall back to a YAML loader
// and the default placeholder.
func NewResolver(cfg Config) *Resolver {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Loader == nil {
		cfg.Loader = NewYAMLLoader()
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	return &Resolver{
		log:         cfg.Log.New("component", "resolver"),
		loader:      cfg.Loader,
		placeholder: cfg.Placeholder,
		tracer:      otel.Tracer("testlist"),
	}
}

// Resolve loads listPath and returns the matched entries in document order,
// with imported documents expanded in place. Entries are copies; the
// documents returned by the loader are never modified.
func (r *Resolver) Resolve(ctx context.Context, listPath string, sel Selection) ([]types.TestEntry, error) {
	w := &walk{
		resolver:  r,
		sel:       sel,
		requested: sel.requested(),
	}
	if err := w.document(ctx, listPath); err != nil {
		metrics.RecordError("resolve")
		return nil, err
	}
	metrics.RecordResolved(len(w.matched))
	r.log.Debug("Resolved test list", "path", listPath, "matched", len(w.matched))
	return w.matched, nil
}

// walk holds the state of a single Resolve call.
type walk struct {
	resolver  *Resolver
	sel       Selection
	requested map[string]struct{}
	chain     []string // Documents currently being expanded
	matched   []types.TestEntry
}

func (w *walk) document(ctx context.Context, path string) error {
	ctx, span := w.resolver.tracer.Start(ctx, "resolve test list")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	key := canonicalPath(path)
	if slices.Contains(w.chain, key) {
		return &ImportCycleError{Chain: append(slices.Clone(w.chain), key)}
	}
	w.chain = append(w.chain, key)
	defer func() { w.chain = w.chain[:len(w.chain)-1] }()

	doc, err := w.resolver.loader.Load(path)
	if err != nil {
		return err
	}

	for _, node := range doc.Nodes {
		if node.IsImport() {
			sub := strings.ReplaceAll(node.Import, w.resolver.placeholder, w.sel.Root)
			w.resolver.log.Debug("Importing test list", "from", path, "line", node.Line, "import", sub)
			if err := w.document(ctx, sub); err != nil {
				return err
			}
			continue
		}
		w.entry(path, node)
	}
	return nil
}

func (w *walk) entry(path string, node types.Node) {
	e := node.Entry
	if _, ok := w.requested[e.Name]; !ok && w.sel.Tests != SelectAll {
		return
	}
	matched := e.Clone()
	if w.sel.Iterations > 0 && matched.Iterations > 0 {
		matched.Iterations = w.sel.Iterations
	}
	if matched.Iterations <= 0 {
		w.resolver.log.Debug("Skipping disabled test", "test", matched.Name, "path", path, "line", node.Line)
		return
	}
	w.resolver.log.Info("Found matched test", "test", matched.Name, "iterations", matched.Iterations, "path", path, "line", node.Line)
	w.matched = append(w.matched, matched)
}

// canonicalPath identifies a document for cycle detection.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// String renders the selection for logs.
func (s Selection) String() string {
	return fmt.Sprintf("tests=%s iterations=%d root=%s", s.Tests, s.Iterations, s.Root)
}
