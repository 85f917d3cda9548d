package syntax

import (
	"strings"
)

// scanState carries the per-line results of the character scan.
type scanState struct {
	// masked mirrors the source lines with string contents and comments
	// blanked out, so the structural pass can search for delimiters
	// without tripping over literals.
	masked []string
	// depthAfter is the open-bracket depth at the end of each line.
	depthAfter []int
	// inString marks lines that begin inside a multi-line string.
	inString []bool
}

type openBracket struct {
	ch   byte
	line int
	col  int
}

var bracketPairs = map[byte]byte{')': '(', ']': '[', '}': '{'}

// scan validates brackets and string literals and produces the masked
// view of the source. It reports the first invalid position found.
func scan(lines []string) (*scanState, *SyntaxError) {
	st := &scanState{
		masked:     make([]string, len(lines)),
		depthAfter: make([]int, len(lines)),
		inString:   make([]bool, len(lines)),
	}
	var (
		stack       []openBracket
		tripleQuote byte
		tripleStart Position
	)
	for i, line := range lines {
		st.inString[i] = tripleQuote != 0
		masked := []byte(line)
		j := 0
		for j < len(line) {
			if tripleQuote != 0 {
				if isTriple(line, j, tripleQuote) {
					tripleQuote = 0
					j += 3
					continue
				}
				masked[j] = ' '
				j++
				continue
			}
			c := line[j]
			switch {
			case c == '#':
				for k := j; k < len(line); k++ {
					masked[k] = ' '
				}
				j = len(line)
			case c == '\'' || c == '"':
				if isTriple(line, j, c) {
					tripleQuote = c
					tripleStart = Position{Line: i + 1, Column: j + 1}
					j += 3
					continue
				}
				start := j
				j++
				closed := false
				for j < len(line) {
					if line[j] == '\\' {
						masked[j] = ' '
						if j+1 < len(line) {
							masked[j+1] = ' '
						}
						j += 2
						continue
					}
					if line[j] == c {
						closed = true
						j++
						break
					}
					masked[j] = ' '
					j++
				}
				if !closed {
					return nil, newError(i+1, start+1, "unterminated string literal")
				}
			case c == '(' || c == '[' || c == '{':
				stack = append(stack, openBracket{ch: c, line: i + 1, col: j + 1})
				j++
			case c == ')' || c == ']' || c == '}':
				if len(stack) == 0 {
					return nil, newError(i+1, j+1, "unexpected %q", string(c))
				}
				top := stack[len(stack)-1]
				if top.ch != bracketPairs[c] {
					return nil, newError(i+1, j+1, "mismatched %q, open bracket is %q", string(c), string(top.ch))
				}
				stack = stack[:len(stack)-1]
				j++
			default:
				j++
			}
		}
		st.masked[i] = string(masked)
		st.depthAfter[i] = len(stack)
	}
	if tripleQuote != 0 {
		return nil, &SyntaxError{Pos: tripleStart, Msg: "unterminated string literal"}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, newError(top.line, top.col, "unclosed %q", string(top.ch))
	}
	return st, nil
}

// isTriple reports whether line[j:] opens or closes a triple-quoted
// string with the given quote character.
func isTriple(line string, j int, quote byte) bool {
	return strings.HasPrefix(line[j:], strings.Repeat(string(quote), 3))
}

// Parse builds the structured representation of an artifact source
// buffer. It returns a *SyntaxError (matching baes.ErrSyntaxInvalid)
// when the buffer cannot be represented.
func Parse(source string) (*File, error) {
	lines := strings.Split(source, "\n")
	st, serr := scan(lines)
	if serr != nil {
		return nil, serr
	}
	f := &File{Lines: lines}
	var pending []Decorator
	i := 0
	for i < len(lines) {
		if st.inString[i] {
			i++
			continue
		}
		orig := strings.TrimSpace(lines[i])
		structural := strings.TrimSpace(st.masked[i])
		switch {
		case structural == "":
			// Blank or comment-only: keeps decorator adjacency.
			i++
		case strings.HasPrefix(orig, "@"):
			pending = append(pending, Decorator{
				Name: decoratorName(orig),
				Raw:  orig,
				Line: i + 1,
			})
			i = continuationEnd(st, i) + 1
		case isHeaderLine(orig):
			end := continuationEnd(st, i)
			d, serr := parseHeader(lines, st, i, end)
			if serr != nil {
				return nil, serr
			}
			d.Decorators = pending
			pending = nil
			f.Decls = append(f.Decls, d)
			i = end + 1
		default:
			if indentOf(lines[i]) == "" && isImportLine(orig) {
				f.Imports = append(f.Imports, &Import{Statement: orig, Line: i + 1})
			}
			pending = nil
			i = continuationEnd(st, i) + 1
		}
	}
	for _, d := range f.Decls {
		bindBody(f, st, d)
	}
	return f, nil
}

// continuationEnd returns the index of the last line of the logical
// statement starting at line i, following open brackets across lines.
func continuationEnd(st *scanState, i int) int {
	before := 0
	if i > 0 {
		before = st.depthAfter[i-1]
	}
	end := i
	for end < len(st.depthAfter)-1 && st.depthAfter[end] > before {
		end++
	}
	return end
}

func isHeaderLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "def ") ||
		strings.HasPrefix(trimmed, "async def ") ||
		strings.HasPrefix(trimmed, "class ")
}

func isImportLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "import ") ||
		(strings.HasPrefix(trimmed, "from ") && strings.Contains(trimmed, " import "))
}

// indentOf returns the leading whitespace of a line.
func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func decoratorName(trimmed string) string {
	name := trimmed[1:]
	if idx := strings.IndexByte(name, '('); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// parseHeader parses a declaration header spanning lines[start..end].
func parseHeader(lines []string, st *scanState, start, end int) (*Decl, *SyntaxError) {
	orig := strings.Join(lines[start:end+1], " ")
	masked := strings.Join(st.masked[start:end+1], " ")

	trimmedMasked := strings.TrimRight(masked, " \t")
	if !strings.HasSuffix(trimmedMasked, ":") {
		return nil, newError(start+1, len(trimmedMasked), "declaration header must end with ':'")
	}

	d := &Decl{Line: start + 1, Indent: indentOf(lines[start])}
	rest := strings.TrimSpace(orig)
	switch {
	case strings.HasPrefix(rest, "class "):
		d.Kind = DeclType
		rest = rest[len("class "):]
	case strings.HasPrefix(rest, "async def "):
		d.Kind = DeclFunc
		rest = rest[len("async def "):]
	default:
		d.Kind = DeclFunc
		rest = rest[len("def "):]
	}
	d.Name = leadingIdentifier(rest)
	if d.Name == "" {
		return nil, newError(start+1, len(d.Indent)+1, "missing declaration name")
	}
	if d.Kind == DeclFunc {
		open := strings.IndexByte(masked, '(')
		if open < 0 {
			return nil, newError(start+1, len(trimmedMasked), "malformed parameter list")
		}
		closing := matchParen(masked, open)
		if closing < 0 {
			return nil, newError(start+1, open+1, "malformed parameter list")
		}
		d.Params = parseParams(orig, masked, open+1, closing)
		if arrow := strings.Index(masked[closing:], "->"); arrow >= 0 {
			from := closing + arrow + 2
			colon := strings.LastIndexByte(trimmedMasked, ':')
			if colon > from {
				d.ReturnType = strings.TrimSpace(orig[from:colon])
			}
		}
	}
	return d, nil
}

// leadingIdentifier returns the identifier prefix of s, or "".
func leadingIdentifier(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if isLetter || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return s[:i]
	}
	return s
}

// matchParen returns the index of the parenthesis closing masked[open],
// or -1.
func matchParen(masked string, open int) int {
	depth := 0
	for i := open; i < len(masked); i++ {
		switch masked[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseParams splits the parameter list orig[from:to] on top-level
// commas and extracts name/type pairs. Defaults are discarded.
func parseParams(orig, masked string, from, to int) []Param {
	var params []Param
	depth := 0
	segStart := from
	flush := func(end int) {
		po, pm := orig[segStart:end], masked[segStart:end]
		if strings.TrimSpace(po) == "" {
			return
		}
		if eq := strings.IndexByte(pm, '='); eq >= 0 {
			po, pm = po[:eq], pm[:eq]
		}
		p := Param{Name: strings.TrimSpace(po)}
		if colon := strings.IndexByte(pm, ':'); colon >= 0 {
			p.Name = strings.TrimSpace(po[:colon])
			p.Type = strings.TrimSpace(po[colon+1:])
		}
		params = append(params, p)
	}
	for i := from; i < to; i++ {
		switch masked[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				segStart = i + 1
			}
		}
	}
	flush(to)
	return params
}

// bindBody locates the declaration body and its doc string.
func bindBody(f *File, st *scanState, d *Decl) {
	headerEnd := continuationEnd(st, d.Line-1)
	threshold := len(d.Indent)
	base := st.depthAfter[headerEnd]
	start := headerEnd + 1
	lastContent := 0
	for j := start; j < len(f.Lines); j++ {
		trimmed := strings.TrimSpace(f.Lines[j])
		// Lines under an open bracket belong to the statement above
		// them regardless of their indentation.
		continued := st.depthAfter[j-1] > base
		switch {
		case trimmed == "":
			continue
		case continued || st.inString[j] || len(indentOf(f.Lines[j])) > threshold:
			lastContent = j
		default:
			j = len(f.Lines)
		}
	}
	if lastContent < start {
		return
	}
	d.BodyStart = start + 1
	d.BodyEnd = lastContent + 1
	d.Doc = docString(f.Lines, start, lastContent)
}

// docString extracts a leading triple-quoted doc string from the body
// range, or returns "".
func docString(lines []string, start, end int) string {
	for j := start; j <= end; j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" {
			continue
		}
		var delim string
		switch {
		case strings.HasPrefix(trimmed, `"""`):
			delim = `"""`
		case strings.HasPrefix(trimmed, "'''"):
			delim = "'''"
		default:
			return ""
		}
		rest := trimmed[3:]
		if idx := strings.Index(rest, delim); idx >= 0 {
			return strings.TrimSpace(rest[:idx])
		}
		var b strings.Builder
		b.WriteString(rest)
		for k := j + 1; k <= end; k++ {
			text := strings.TrimSpace(lines[k])
			if idx := strings.Index(text, delim); idx >= 0 {
				b.WriteString(" ")
				b.WriteString(text[:idx])
				return strings.TrimSpace(b.String())
			}
			b.WriteString(" ")
			b.WriteString(text)
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}
