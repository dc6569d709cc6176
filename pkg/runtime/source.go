package runtime

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/formatter"
	"github.com/thomasrohde/lispir/pkg/parser"
)

// Chunk is a unit of a source file: one form, one comment line, or one
// blank line.
type Chunk struct {
	Text    string
	Comment bool
	// Trailing is a ; comment on the line that closes the form.
	Trailing string
	// Inner holds ; comments on lines where the form was still open.
	// They are stripped from Text.
	Inner []string
}

// Blank reports whether the chunk is an empty line.
func (c Chunk) Blank() bool {
	return !c.Comment && strings.TrimSpace(c.Text) == ""
}

// splitComment cuts line at the first ; that starts a word. A ; inside a
// word such as a;b is part of a symbol.
func splitComment(line string) (code, comment string) {
	for i := 0; i < len(line); i++ {
		if line[i] != ';' {
			continue
		}
		if i == 0 || strings.ContainsRune(" \t()", rune(line[i-1])) {
			return strings.TrimRight(line[:i], " \t"), strings.TrimSpace(line[i:])
		}
	}
	return line, ""
}

// SplitChunks groups source lines into chunks. A form continues over
// following lines while its parens are open; an unterminated form at the
// end of input is returned as is. ; comments are never part of a form's
// text.
func SplitChunks(source string) ([]Chunk, error) {
	var chunks []Chunk
	var pending strings.Builder
	var inner []string

	scanner := bufio.NewScanner(strings.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		code, comment := splitComment(line)

		if pending.Len() == 0 {
			if formatter.IsComment(line) {
				chunks = append(chunks, Chunk{Text: strings.TrimSpace(line), Comment: true})
				continue
			}
			if strings.TrimSpace(code) == "" {
				chunks = append(chunks, Chunk{})
				continue
			}
		} else {
			pending.WriteByte('\n')
		}
		pending.WriteString(code)

		if _, err := parser.ParseSource(pending.String()); parser.IsIncomplete(err) {
			if comment != "" {
				inner = append(inner, comment)
			}
			continue
		}
		chunks = append(chunks, Chunk{Text: pending.String(), Trailing: comment, Inner: inner})
		pending.Reset()
		inner = nil
	}
	if err := scanner.Err(); err != nil {
		return nil, &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{
			diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("read source: %s", err), ""),
		}}
	}
	if pending.Len() > 0 {
		chunks = append(chunks, Chunk{Text: pending.String(), Inner: inner})
	}
	return chunks, nil
}

// SplitForms returns the forms of a source file, skipping comments and
// blank lines.
func SplitForms(source string) ([]string, error) {
	chunks, err := SplitChunks(source)
	if err != nil {
		return nil, err
	}
	var forms []string
	for _, c := range chunks {
		if !c.Comment && !c.Blank() {
			forms = append(forms, c.Text)
		}
	}
	return forms, nil
}

// FormatSource formats every form of a source file. Comment lines are kept
// in place and runs of blank lines collapse to one. A comment after a form's
// closing paren stays on that line. Source that formatting would lose, such
// as a second form on one line or a comment inside an open form, is
// reported instead.
func (s *Session) FormatSource(source string) (string, error) {
	chunks, err := SplitChunks(source)
	if err != nil {
		return "", err
	}

	var out []string
	blank := false
	for _, c := range chunks {
		switch {
		case c.Comment:
			out = append(out, c.Text)
			blank = false
		case c.Blank():
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
		default:
			if len(c.Inner) > 0 {
				return "", &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{
					diagnostics.MakeDiag(diagnostics.EParse,
						fmt.Sprintf("comment inside a form cannot be kept: %s", c.Inner[0]),
						"move the comment to its own line above the form"),
				}}
			}
			f, err := s.Format(c.Text)
			if err != nil {
				return "", err
			}
			if c.Trailing != "" {
				f += " " + c.Trailing
			}
			out = append(out, f)
			blank = false
		}
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "", nil
	}
	return strings.Join(out, "\n") + "\n", nil
}
