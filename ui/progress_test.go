package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf)

	p.StartBatch(3)
	p.CommandDone("a", types.CommandStatusSuccess)
	p.CommandDone("b", types.CommandStatusTimeout)
	p.CommandDone("c", types.CommandStatusSignaled)

	passed, failed := p.Counts()
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, failed)

	p.CompleteBatch()
	assert.NotEmpty(t, buf.String())
}

func TestProgressBarIgnoresUpdatesOutsideBatch(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{})
	assert.NotPanics(t, func() {
		p.CommandDone("a", types.CommandStatusError)
		p.CompleteBatch()
	})
	passed, failed := p.Counts()
	assert.Zero(t, passed)
	assert.Zero(t, failed)
}
