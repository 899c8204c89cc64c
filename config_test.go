package synccheck_test

import (
	"testing"

	"github.com/fwojciec/synccheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := synccheck.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "HEAD", cfg.DiffTarget)
	assert.Equal(t, synccheck.AutoApplyPrompt, cfg.AutoApply)
	assert.Len(t, cfg.Documents(), 8)
	assert.Equal(t, cfg.CriticalDocuments[0], cfg.Documents()[0])
}

func TestDefaultConfig_ReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	a := synccheck.DefaultConfig()
	a.CriticalDocuments[0] = "changed"

	b := synccheck.DefaultConfig()
	assert.NotEqual(t, "changed", b.CriticalDocuments[0])
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown policy", func(t *testing.T) {
		t.Parallel()

		cfg := synccheck.DefaultConfig()
		cfg.AutoApply = "sometimes"

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "autoApply")
	})

	t.Run("rejects empty patch target", func(t *testing.T) {
		t.Parallel()

		cfg := synccheck.DefaultConfig()
		cfg.OutputDocumentFile = ""

		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_CalculationTriggers(t *testing.T) {
	t.Parallel()

	triggers := synccheck.DefaultConfig().CalculationTriggers()

	assert.ElementsMatch(t, []string{"calculations.js", "calculationHelpers.js", "App.jsx"}, triggers)
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	base := synccheck.DefaultConfig()
	clone := base.Clone()
	clone.MonitoredFiles[0] = "changed.js"
	clone.IgnoreFields[0] = "changed"

	assert.Equal(t, "src/App.jsx", base.MonitoredFiles[0])
	assert.Equal(t, "id", base.IgnoreFields[0])
}
