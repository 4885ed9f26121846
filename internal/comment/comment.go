// Package comment turns generated text into well-formed Javadoc blocks:
// extracting the comment body from model output and rendering it at the
// indentation of the declaration it attaches to.
package comment

import "strings"

const (
	openDelim  = "/**"
	closeDelim = "*/"

	// escapedClose replaces a literal close delimiter inside a comment body,
	// which would otherwise terminate the attached comment early.
	escapedClose = "*&#47;"

	// tabWidth is the assumed visual width of a tab for column alignment.
	tabWidth = 4
)

// Extract locates the comment body in generated model output: the text
// between the first opening delimiter and the LAST closing delimiter. The
// last occurrence tolerates degenerate output with duplicated or nested
// delimiters inside the body. Any close delimiter remaining in the body is
// escaped. ok is false when either delimiter is absent; the caller treats
// that as "no documentation produced", not as a fault.
func Extract(content string) (body string, ok bool) {
	start := strings.Index(content, openDelim)
	end := strings.LastIndex(content, closeDelim)
	if start == -1 || end == -1 || end < start+len(openDelim) {
		return "", false
	}
	body = content[start+len(openDelim) : end]
	body = strings.ReplaceAll(body, closeDelim, escapedClose)
	return body, true
}

// Indent returns the visual column at which the first non-whitespace
// character of line sits, counting tabs as tabWidth columns.
func Indent(line string) int {
	col := 0
	for _, r := range line {
		switch r {
		case ' ':
			col++
		case '\t':
			col += tabWidth
		default:
			return col
		}
	}
	return col
}

// Block renders body as a Javadoc block whose opening and closing delimiter
// lines sit at column and whose interior lines sit one space further in. The
// result ends with a newline so the declaration's own line is untouched.
func Block(body string, column int) string {
	ind := strings.Repeat(" ", column)

	var b strings.Builder
	b.WriteString(ind)
	b.WriteString(openDelim)
	b.WriteByte('\n')
	for _, line := range contentLines(body) {
		b.WriteString(ind)
		if line == "" {
			b.WriteString(" *")
		} else {
			b.WriteString(" * ")
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	b.WriteString(ind)
	b.WriteString(closeDelim)
	b.WriteByte('\n')
	return b.String()
}

// TypeBlock renders a class-level Javadoc block at column zero with the
// authorship tag appended after the generated body.
func TypeBlock(body, author string) string {
	if author != "" {
		body = strings.TrimRight(body, " \t\n") + "\n\n@author " + author
	}
	return Block(body, 0)
}

// contentLines normalizes the extracted body into bare content lines,
// stripping the leading asterisk decoration and surrounding blank lines that
// models typically emit.
func contentLines(body string) []string {
	raw := strings.Split(body, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")
		lines = append(lines, line)
	}

	// Drop blank lines at either end; keep interior ones.
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}
