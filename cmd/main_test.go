package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	regress "github.com/ethereum-optimism/infra/op-regress"
	"github.com/ethereum-optimism/infra/op-regress/exitcodes"
	"github.com/ethereum-optimism/infra/op-regress/reporting"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "success",
			err:  nil,
			want: exitcodes.Success,
		},
		{
			name: "runtime error",
			err:  regress.NewRuntimeError("resolve test list", errors.New("loading test list")),
			want: exitcodes.RuntimeErr,
		},
		{
			name: "wrapped runtime error",
			err:  fmt.Errorf("start: %w", regress.NewRuntimeError("run commands", errors.New("launch"))),
			want: exitcodes.RuntimeErr,
		},
		{
			name: "test failure",
			err:  regress.NewTestFailureError(reporting.Summary{Total: 1, Failed: 1}, nil),
			want: exitcodes.TestFailure,
		},
		{
			name: "untyped error",
			err:  errors.New("boom"),
			want: exitcodes.TestFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}
