package synccheck

import "strings"

// FunctionExtractor locates the source text of a named function declaration.
type FunctionExtractor interface {
	Extract(source, name string) (string, bool)
}

// DefaultExtractor tries declaration markers first and falls back to a line scan.
func DefaultExtractor() FunctionExtractor {
	return ChainExtractor{MarkerExtractor{}, LineScanExtractor{}}
}

// ChainExtractor returns the result of the first extractor that succeeds.
type ChainExtractor []FunctionExtractor

// Extract implements FunctionExtractor.
func (c ChainExtractor) Extract(source, name string) (string, bool) {
	for _, e := range c {
		if body, ok := e.Extract(source, name); ok {
			return body, true
		}
	}
	return "", false
}

// MarkerExtractor finds `function NAME(` or `const NAME = (` and scans forward,
// balancing braces and parentheses while skipping strings and comments, until
// the function body closes.
type MarkerExtractor struct{}

// Extract implements FunctionExtractor.
func (MarkerExtractor) Extract(source, name string) (string, bool) {
	start := findInCode(source, "function "+name+"(", "const "+name+" = (")
	if start < 0 {
		return "", false
	}

	// Parameter list first, then the body opener that follows it.
	params := strings.IndexByte(source[start:], '(') + start
	afterParams, ok := balancedEnd(source, params)
	if !ok {
		return "", false
	}
	opener := strings.IndexAny(source[afterParams:], "{(")
	if opener < 0 {
		return "", false
	}
	end, ok := balancedEnd(source, afterParams+opener)
	if !ok {
		return "", false
	}
	if end < len(source) && source[end] == ';' {
		end++
	}
	return source[start:end], true
}

// findInCode returns the offset of the first marker outside string literals
// and comments, or -1.
func findInCode(source string, markers ...string) int {
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '"', '\'', '`':
			i = skipString(source, i)
			continue
		case '/':
			if strings.HasPrefix(source[i:], "//") {
				nl := strings.IndexByte(source[i:], '\n')
				if nl < 0 {
					return -1
				}
				i += nl
				continue
			}
			if strings.HasPrefix(source[i:], "/*") {
				closeAt := strings.Index(source[i+2:], "*/")
				if closeAt < 0 {
					return -1
				}
				i += closeAt + 3
				continue
			}
		}
		for _, m := range markers {
			if strings.HasPrefix(source[i:], m) {
				return i
			}
		}
	}
	return -1
}

// balancedEnd returns the index just past the bracket matching source[open].
func balancedEnd(source string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(source); i++ {
		switch c := source[i]; c {
		case '"', '\'', '`':
			i = skipString(source, i)
		case '/':
			if i+1 < len(source) && source[i+1] == '/' {
				nl := strings.IndexByte(source[i:], '\n')
				if nl < 0 {
					return 0, false
				}
				i += nl
			} else if i+1 < len(source) && source[i+1] == '*' {
				closeAt := strings.Index(source[i+2:], "*/")
				if closeAt < 0 {
					return 0, false
				}
				i += closeAt + 3
			}
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// skipString returns the index of the closing quote of the literal opened at i.
func skipString(source string, i int) int {
	quote := source[i]
	for j := i + 1; j < len(source); j++ {
		switch source[j] {
		case '\\':
			j++
		case quote:
			return j
		case '\n':
			if quote != '`' {
				return j
			}
		}
	}
	return len(source) - 1
}

// LineScanExtractor takes the first line declaring NAME and collects lines
// until curly-brace depth returns to zero.
type LineScanExtractor struct{}

// Extract implements FunctionExtractor.
func (LineScanExtractor) Extract(source, name string) (string, bool) {
	lines := strings.SplitAfter(source, "\n")
	var b strings.Builder
	depth := 0
	opened := false
	collecting := false

	for _, line := range lines {
		if !collecting {
			if !declaresFunction(line, name) {
				continue
			}
			collecting = true
		}
		b.WriteString(line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if strings.Contains(line, "{") {
			opened = true
		}
		if opened && depth <= 0 {
			return strings.TrimRight(b.String(), "\n"), true
		}
	}
	return "", false
}

func declaresFunction(line, name string) bool {
	i := strings.Index(line, name)
	if i < 0 {
		return false
	}
	rest := line[i+len(name):]
	return strings.Contains(line[:i], "function") || strings.Contains(rest, "=>") ||
		strings.HasPrefix(strings.TrimSpace(rest), "=")
}
