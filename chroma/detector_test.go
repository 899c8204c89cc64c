package chroma_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/synccheck/chroma"
	"github.com/stretchr/testify/assert"
)

func TestDetector_DetectFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		oneOf []string
	}{
		{name: "javascript", path: "src/utils/documentGenerator.js", oneOf: []string{"js", "javascript"}},
		{name: "jsx", path: "src/App.jsx", oneOf: []string{"jsx", "react"}},
		{name: "go", path: "main.go", oneOf: []string{"go", "golang"}},
	}

	d := chroma.NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, tt.oneOf, d.DetectFromPath(tt.path))
		})
	}

	t.Run("unknown extension", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, d.DetectFromPath("data.unknownext123"))
	})

	t.Run("labels are lower case", func(t *testing.T) {
		t.Parallel()
		label := d.DetectFromPath("src/constants/index.js")
		assert.Equal(t, label, strings.ToLower(label))
	})
}
