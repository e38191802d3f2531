package regress

import (
	"context"

	"github.com/ethereum-optimism/infra/op-regress/reporting"
	"github.com/ethereum-optimism/infra/op-regress/testlist"
	"github.com/ethereum-optimism/infra/op-regress/types"
)

// List resolves the configured test list and prints the matched entries
// without running anything.
func List(ctx context.Context, config *Config) ([]types.TestEntry, error) {
	resolver := testlist.NewResolver(testlist.Config{
		Log:         config.Log,
		Placeholder: config.RootPlaceholder,
	})
	entries, err := resolver.Resolve(ctx, config.TestList, config.Selection)
	if err != nil {
		return nil, NewRuntimeError("resolve test list", err)
	}
	reporting.WriteEntriesTable(config.Out, entries)
	return entries, nil
}
