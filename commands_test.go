package regress

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

func TestBuildInvocations(t *testing.T) {
	entries := []types.TestEntry{
		{Name: "riscv_arithmetic_basic_test", Iterations: 2, Fields: map[string]any{"gen_opts": "+instr_cnt=100"}},
		{Name: "riscv_jump_stress_test", Iterations: 1, Fields: map[string]any{"cmd": "<riscv_dv_root>/run.py --test <test> --seed <seed>"}},
	}
	opts := BuildOptions{
		Template:        "sim <test> -i <iteration> -s <seed> -o <out> <gen_opts>",
		Seed:            7,
		OutputDir:       "/tmp/out",
		Root:            "/opt/riscv-dv",
		RootPlaceholder: "<riscv_dv_root>",
		Timeout:         time.Minute,
		ExitOnError:     false,
	}

	invs, err := BuildInvocations(entries, opts)
	require.NoError(t, err)
	require.Len(t, invs, 3)

	assert.Equal(t, "riscv_arithmetic_basic_test.0", invs[0].Name)
	assert.Equal(t, "sim riscv_arithmetic_basic_test -i 0 -s 7 -o /tmp/out +instr_cnt=100", invs[0].Command)
	assert.Equal(t, "sim riscv_arithmetic_basic_test -i 1 -s 8 -o /tmp/out +instr_cnt=100", invs[1].Command)
	assert.Equal(t, "/opt/riscv-dv/run.py --test riscv_jump_stress_test --seed 7", invs[2].Command)

	for _, inv := range invs {
		assert.Equal(t, time.Minute, inv.Timeout)
		assert.False(t, inv.ExitOnError)
		assert.True(t, inv.CheckReturnCode)
	}
}

func TestBuildInvocationsSeedWraps(t *testing.T) {
	invs, err := BuildInvocations(
		[]types.TestEntry{{Name: "t", Iterations: 2}},
		BuildOptions{Template: "<seed>", Seed: math.MaxUint32},
	)
	require.NoError(t, err)
	assert.Equal(t, "4294967295", invs[0].Command)
	assert.Equal(t, "0", invs[1].Command)
}

func TestBuildInvocationsMissingTemplate(t *testing.T) {
	_, err := BuildInvocations([]types.TestEntry{{Name: "t", Iterations: 1}}, BuildOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t has no")
}

func TestBuildInvocationsEmpty(t *testing.T) {
	invs, err := BuildInvocations(nil, BuildOptions{})
	require.NoError(t, err)
	assert.Empty(t, invs)
}
