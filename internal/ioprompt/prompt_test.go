package ioprompt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/SPI-Birds/metadata/internal/ioprompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseOne(t *testing.T) {
	ctx := context.Background()

	t.Run("valid first answer", func(t *testing.T) {
		var out bytes.Buffer
		p := ioprompt.NewWithIO(strings.NewReader("2\n"), &out)
		idx, err := p.ChooseOne(ctx, "pick", []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.Contains(t, out.String(), "1. a")
	})

	t.Run("reprompts on invalid answers", func(t *testing.T) {
		var out bytes.Buffer
		p := ioprompt.NewWithIO(strings.NewReader("0\nx\n9\n3\n"), &out)
		idx, err := p.ChooseOne(ctx, "pick", []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	})

	t.Run("input exhausted", func(t *testing.T) {
		var out bytes.Buffer
		p := ioprompt.NewWithIO(strings.NewReader(""), &out)
		_, err := p.ChooseOne(ctx, "pick", []string{"a"})
		assert.Error(t, err)
	})
}

func TestProvideValue(t *testing.T) {
	ctx := context.Background()

	t.Run("returns trimmed answer", func(t *testing.T) {
		var out bytes.Buffer
		p := ioprompt.NewWithIO(strings.NewReader("  HOG  \n"), &out)
		res, err := p.ProvideValue(ctx, "site code")
		require.NoError(t, err)
		assert.Equal(t, "HOG", res)
	})

	t.Run("empty answers reprompt", func(t *testing.T) {
		var out bytes.Buffer
		p := ioprompt.NewWithIO(strings.NewReader("\n\nWYT\n"), &out)
		res, err := p.ProvideValue(ctx, "site code")
		require.NoError(t, err)
		assert.Equal(t, "WYT", res)
	})
}
