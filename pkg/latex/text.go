package latex

import (
	"strings"
)

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`_`, `\_`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
)

// Escape makes s safe to use as text.
func Escape(s string) string { return escaper.Replace(s) }

// Command renders \name[options]{args...}. Options are omitted when empty.
func Command(name string, options []string, args ...string) string {
	var b strings.Builder
	b.WriteByte('\\')
	b.WriteString(name)
	if len(options) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(options, ","))
		b.WriteByte(']')
	}
	for _, a := range args {
		b.WriteByte('{')
		b.WriteString(a)
		b.WriteByte('}')
	}
	return b.String()
}

// Environment wraps body in \begin{name}...\end{name}. Options go into
// square brackets after \begin{name}.
func Environment(name, body string, options ...string) string {
	var b strings.Builder
	b.WriteString(`\begin{` + name + `}`)
	if len(options) > 0 {
		b.WriteString("[" + strings.Join(options, ",") + "]")
	}
	b.WriteByte('\n')
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(`\end{` + name + `}`)
	return b.String()
}

func Bold(s string) string   { return Command("textbf", nil, s) }
func Italic(s string) string { return Command("textit", nil, s) }
func Center(s string) string { return Environment("center", s) }

// Paragraph terminates s with a blank line.
func Paragraph(s string) string { return s + "\n\n" }

// LineBreak is the forced line break \\.
const LineBreak = `\\`
