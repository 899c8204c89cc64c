package synccheck

import (
	"strings"
	"unicode/utf8"
)

// ContextBundle is the source material sent to the model for one run.
type ContextBundle struct {
	Diff              string
	ChangedFiles      []string
	FactoryFunction   Block  // Extracted factory function body
	DocumentGenerator Block  // Full text of the patch target
	Constants         Block  // Full text of the constants file or a placeholder
	Calculations      *Block // Nil unless a calculation trigger file changed
	EstimatedTokens   int
}

// Block is one named piece of source text.
type Block struct {
	Path     string
	Language string // Fence label, may be empty
	Content  string
}

// Blocks returns every included block in prompt order.
func (b *ContextBundle) Blocks() []Block {
	blocks := []Block{b.FactoryFunction, b.DocumentGenerator, b.Constants}
	if b.Calculations != nil {
		blocks = append(blocks, *b.Calculations)
	}
	return blocks
}

// Estimate sets EstimatedTokens from the bundle's text.
func (b *ContextBundle) Estimate() {
	texts := []string{b.Diff}
	for _, block := range b.Blocks() {
		texts = append(texts, block.Content)
	}
	b.EstimatedTokens = EstimateTokens(texts...)
}

// EstimateTokens approximates model tokens as characters divided by four, rounded up.
func EstimateTokens(texts ...string) int {
	chars := 0
	for _, t := range texts {
		chars += utf8.RuneCountInString(t)
	}
	return (chars + 3) / 4
}

// NeedsCalculations reports whether any changed path both contains a trigger
// substring and is covered by a monitored file entry.
func NeedsCalculations(changed []string, triggers []string, monitored []string) bool {
	for _, path := range changed {
		if !containsAny(path, triggers...) {
			continue
		}
		for _, m := range monitored {
			if m == "" {
				continue
			}
			if strings.Contains(path, m) || strings.Contains(m, path) {
				return true
			}
		}
	}
	return false
}
