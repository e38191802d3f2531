package flags

import (
	"flag"
	"testing"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestOptionalFlagsDontSetRequired asserts that all flags deemed optional set
// the Required field to false.
func TestOptionalFlagsDontSetRequired(t *testing.T) {
	for _, flag := range optionalFlags {
		reqFlag, ok := flag.(cli.RequiredFlag)
		require.True(t, ok)
		require.False(t, reqFlag.IsRequired())
	}
}

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	seenCLI := make(map[string]struct{})
	for _, flag := range Flags {
		for _, name := range flag.Names() {
			if _, ok := seenCLI[name]; ok {
				t.Errorf("duplicate flag %s", name)
				continue
			}
			seenCLI[name] = struct{}{}
		}
	}
}

func TestEnvVarFormat(t *testing.T) {
	for _, flag := range Flags {
		flagName := flag.Names()[0]

		t.Run(flagName, func(t *testing.T) {
			envFlagGetter, ok := flag.(interface {
				GetEnvVars() []string
			})
			require.True(t, ok, "must be able to cast the flag to an EnvVar interface")
			envFlags := envFlagGetter.GetEnvVars()
			require.Equal(t, 1, len(envFlags), "flags should have exactly one env var")

			expectedEnvVar := opservice.FlagNameToEnvVarName(flagName, EnvVarPrefix)
			require.Equal(t, expectedEnvVar, envFlags[0])
		})
	}
}

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range Flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestCheckRequired(t *testing.T) {
	t.Run("missing testlist", func(t *testing.T) {
		err := CheckRequired(newContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "testlist")
	})

	t.Run("testlist set", func(t *testing.T) {
		assert.NoError(t, CheckRequired(newContext(t, "--testlist", "testlist.yaml")))
	})
}

func TestDefaults(t *testing.T) {
	ctx := newContext(t, "--testlist", "testlist.yaml")
	assert.Equal(t, "all", ctx.String(Test.Name))
	assert.Equal(t, 0, ctx.Int(Iterations.Name))
	assert.Equal(t, int64(-1), ctx.Int64(Seed.Name))
	assert.Equal(t, "<riscv_dv_root>", ctx.String(RootPlaceholder.Name))
	assert.Equal(t, "out_", ctx.String(OutputPrefix.Name))
	assert.False(t, ctx.Bool(Parallel.Name))
	assert.False(t, ctx.IsSet(ExitOnError.Name))
}
