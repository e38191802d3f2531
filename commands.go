package regress

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

// Command template placeholders
const (
	TestPlaceholder      = "<test>"
	IterationPlaceholder = "<iteration>"
	SeedPlaceholder      = "<seed>"
	OutPlaceholder       = "<out>"

	// CmdField is the test entry field holding a per-test command template
	CmdField = "cmd"
)

// BuildOptions controls how test entries become shell invocations
type BuildOptions struct {
	Template        string // Used for entries without a cmd field
	Seed            uint32 // Seed of iteration 0
	OutputDir       string
	Root            string
	RootPlaceholder string
	Timeout         time.Duration
	ExitOnError     bool
}

// BuildInvocations expands each entry into one invocation per iteration, in
// entry order. Besides the fixed placeholders, <field> is replaced by the
// value of any scalar field of the entry.
func BuildInvocations(entries []types.TestEntry, opts BuildOptions) ([]types.Invocation, error) {
	var invs []types.Invocation
	for _, e := range entries {
		template := e.Field(CmdField)
		if template == "" {
			template = opts.Template
		}
		if template == "" {
			return nil, fmt.Errorf("test %s has no %q field and no command template was given", e.Name, CmdField)
		}

		for i := 0; i < e.Iterations; i++ {
			inv := types.NewInvocation(expand(template, e, i, opts))
			inv.Name = fmt.Sprintf("%s.%d", e.Name, i)
			inv.Timeout = opts.Timeout
			inv.ExitOnError = opts.ExitOnError
			invs = append(invs, inv)
		}
	}
	return invs, nil
}

func expand(template string, e types.TestEntry, iteration int, opts BuildOptions) string {
	pairs := []string{
		TestPlaceholder, e.Name,
		IterationPlaceholder, strconv.Itoa(iteration),
		SeedPlaceholder, strconv.FormatUint(uint64(opts.Seed+uint32(iteration)), 10),
		OutPlaceholder, opts.OutputDir,
	}
	if opts.RootPlaceholder != "" {
		pairs = append(pairs, opts.RootPlaceholder, opts.Root)
	}
	for _, key := range slices.Sorted(maps.Keys(e.Fields)) {
		if key == CmdField {
			continue
		}
		pairs = append(pairs, "<"+key+">", e.Field(key))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
