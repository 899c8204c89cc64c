// Package worddiff computes token-level differences between the search and
// replacement text of a fix.
package worddiff

import (
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.WordDiffer = (*Differ)(nil)

// maxCells bounds the LCS table. Larger middles are marked changed wholesale.
const maxCells = 1 << 20

// Differ tokenizes strings and computes token-level diffs.
type Differ struct{}

// NewDiffer creates a new Differ instance.
func NewDiffer() *Differ {
	return &Differ{}
}

// Tokenize splits s into words (letters, digits, '_' and '$'), whitespace
// runs, and single runes for everything else. Template syntax such as
// "${q.wellDepth}" therefore splits around the field name.
func Tokenize(s string) []string {
	var tokens []string
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		j := i + size
		switch {
		case isWord(r):
			j = scan(s, j, isWord)
		case unicode.IsSpace(r):
			j = scan(s, j, unicode.IsSpace)
		}
		tokens = append(tokens, s[i:j])
		i = j
	}
	return tokens
}

func scan(s string, i int, class func(rune) bool) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !class(r) {
			break
		}
		i += size
	}
	return i
}

func isWord(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Diff returns segments for old and new, marking the tokens that differ.
// Concatenating the segments of each side reproduces the input exactly.
func (d *Differ) Diff(old, new string) (oldSegs, newSegs []synccheck.Segment) {
	if old == new {
		if old == "" {
			return nil, nil
		}
		seg := synccheck.Segment{Text: old}
		return []synccheck.Segment{seg}, []synccheck.Segment{seg}
	}

	a, b := Tokenize(old), Tokenize(new)

	// Shared prefix and suffix need no table.
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	var oldOut, newOut segments
	oldOut.add(a[:pre], false)
	newOut.add(b[:pre], false)

	midA, midB := a[pre:len(a)-suf], b[pre:len(b)-suf]
	if len(midA)*len(midB) > maxCells {
		oldOut.add(midA, true)
		newOut.add(midB, true)
	} else {
		inA, inB := common(midA, midB)
		for i, tok := range midA {
			oldOut.add([]string{tok}, !inA[i])
		}
		for j, tok := range midB {
			newOut.add([]string{tok}, !inB[j])
		}
	}

	oldOut.add(a[len(a)-suf:], false)
	newOut.add(b[len(b)-suf:], false)
	return oldOut, newOut
}

// common marks the tokens of a and b that belong to one longest common subsequence.
func common(a, b []string) (inA, inB []bool) {
	inA, inB = make([]bool, len(a)), make([]bool, len(b))
	if len(a) == 0 || len(b) == 0 {
		return inA, inB
	}

	// lcs[i*w+j] is the LCS length of a[i:] and b[j:].
	w := len(b) + 1
	lcs := make([]int, (len(a)+1)*w)
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				lcs[i*w+j] = lcs[(i+1)*w+j+1] + 1
			case lcs[(i+1)*w+j] >= lcs[i*w+j+1]:
				lcs[i*w+j] = lcs[(i+1)*w+j]
			default:
				lcs[i*w+j] = lcs[i*w+j+1]
			}
		}
	}

	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			inA[i], inB[j] = true, true
			i++
			j++
		case lcs[(i+1)*w+j] >= lcs[i*w+j+1]:
			i++
		default:
			j++
		}
	}
	return inA, inB
}

// segments accumulates tokens, merging neighbors with the same status.
type segments []synccheck.Segment

func (s *segments) add(tokens []string, changed bool) {
	for _, tok := range tokens {
		if n := len(*s); n > 0 && (*s)[n-1].Changed == changed {
			(*s)[n-1].Text += tok
			continue
		}
		*s = append(*s, synccheck.Segment{Text: tok, Changed: changed})
	}
}
