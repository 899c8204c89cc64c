package synccheck_test

import (
	"testing"

	"github.com/fwojciec/synccheck"
	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	t.Run("rounds up characters divided by four", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 0, synccheck.EstimateTokens())
		assert.Equal(t, 1, synccheck.EstimateTokens("abc"))
		assert.Equal(t, 1, synccheck.EstimateTokens("abcd"))
		assert.Equal(t, 2, synccheck.EstimateTokens("abcd", "e"))
	})

	t.Run("counts characters rather than bytes", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1, synccheck.EstimateTokens("ééé"))
	})
}

func TestContextBundle_Estimate(t *testing.T) {
	t.Parallel()

	bundle := &synccheck.ContextBundle{
		Diff:              "12345678",
		FactoryFunction:   synccheck.Block{Content: "1234"},
		DocumentGenerator: synccheck.Block{Content: "1234"},
		Constants:         synccheck.Block{Content: "1234"},
	}
	bundle.Estimate()
	assert.Equal(t, 5, bundle.EstimatedTokens)
	assert.Len(t, bundle.Blocks(), 3)

	bundle.Calculations = &synccheck.Block{Content: "1"}
	bundle.Estimate()
	assert.Equal(t, 6, bundle.EstimatedTokens)
	assert.Len(t, bundle.Blocks(), 4)
}

func TestNeedsCalculations(t *testing.T) {
	t.Parallel()

	cfg := synccheck.DefaultConfig()
	triggers := cfg.CalculationTriggers()

	t.Run("calculations file change includes calculations", func(t *testing.T) {
		t.Parallel()

		assert.True(t, synccheck.NeedsCalculations([]string{"src/utils/calculations.js"}, triggers, cfg.MonitoredFiles))
	})

	t.Run("app entry change includes calculations", func(t *testing.T) {
		t.Parallel()

		assert.True(t, synccheck.NeedsCalculations([]string{"README.md", "src/App.jsx"}, triggers, cfg.MonitoredFiles))
	})

	t.Run("unrelated change excludes calculations", func(t *testing.T) {
		t.Parallel()

		assert.False(t, synccheck.NeedsCalculations([]string{"src/components/Header.jsx"}, triggers, cfg.MonitoredFiles))
	})

	t.Run("trigger file outside monitored files excludes calculations", func(t *testing.T) {
		t.Parallel()

		assert.False(t, synccheck.NeedsCalculations([]string{"legacy/calculations.js"}, triggers, cfg.MonitoredFiles))
	})

	t.Run("no changed files excludes calculations", func(t *testing.T) {
		t.Parallel()

		assert.False(t, synccheck.NeedsCalculations(nil, triggers, cfg.MonitoredFiles))
	})
}
