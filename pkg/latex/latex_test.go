package latex

import (
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{"{x}", `\{x\}`},
		{`C:\tmp`, `C:\textbackslash{}tmp`},
		{"x^2 & $y", `x\textasciicircum{}2 \& \$y`},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommand(t *testing.T) {
	if got := Command("usepackage", []string{"left=2cm", "top=1cm"}, "geometry"); got != `\usepackage[left=2cm,top=1cm]{geometry}` {
		t.Errorf("Command = %q", got)
	}
	if got := Command("hline", nil); got != `\hline` {
		t.Errorf("Command without args = %q", got)
	}
}

func TestDocument(t *testing.T) {
	d := NewDocument("article", "a4paper")
	d.UsePackage("babel", "english")
	d.UsePackage("amsmath")
	d.UsePackage("babel", "russian", "english")
	d.Preamble(`\setlength{\parskip}{0.27cm}`)
	d.Writeln("Hello")

	got := d.String()
	want := `\documentclass[a4paper]{article}
\usepackage[english,russian]{babel}
\usepackage{amsmath}
\setlength{\parskip}{0.27cm}
\begin{document}
Hello
\end{document}
`
	if got != want {
		t.Errorf("Document.String() =\n%s\nwant\n%s", got, want)
	}
	if !d.HasPackage("amsmath") || d.HasPackage("xcolor") {
		t.Error("HasPackage reported wrong declarations")
	}
}

func TestTabular(t *testing.T) {
	got, err := Tabular([][]string{{"a", "b"}, {"1", "2"}}, Centre)
	if err != nil {
		t.Fatalf("Tabular error: %v", err)
	}
	want := "\\begin{tabular}{|c|c|}\n\\hline\na & b \\\\ \\hline\n1 & 2 \\\\ \\hline\n\\end{tabular}"
	if got != want {
		t.Errorf("Tabular =\n%s\nwant\n%s", got, want)
	}

	if _, err := Tabular(nil, Centre); err == nil {
		t.Error("Tabular(nil) expected error")
	}
	if _, err := Tabular([][]string{{"a", "b"}, {"1"}}, Centre); err == nil {
		t.Error("Tabular(ragged) expected error")
	}
}

func TestIntMatrix(t *testing.T) {
	got := IntMatrix([][]int64{{1, -2}, {3, 4}})
	want := "\\begin{pmatrix}\n1 & -2 \\\\\n3 & 4\n\\end{pmatrix}"
	if got != want {
		t.Errorf("IntMatrix =\n%s\nwant\n%s", got, want)
	}
}

func TestFigure(t *testing.T) {
	got := Figure("BODY", "Caption text")
	for _, part := range []string{`\begin{figure}[h]`, `\centering`, "BODY", `\caption{Caption text}`, `\end{figure}`} {
		if !strings.Contains(got, part) {
			t.Errorf("Figure missing %q:\n%s", part, got)
		}
	}
}

func TestCellColor(t *testing.T) {
	if got, _ := CellColor("black", 15); got != `\cellcolor{black!15}` {
		t.Errorf("CellColor(15) = %q", got)
	}
	if got, _ := CellColor("red", 100); got != `\cellcolor{red}` {
		t.Errorf("CellColor(100) = %q", got)
	}
	if _, err := CellColor("red", 101); err == nil {
		t.Error("CellColor(101) expected error")
	}
}

func TestMathHelpers(t *testing.T) {
	if got := InlineMath(Sub("A", "1")); got != "$A_{1}$" {
		t.Errorf("InlineMath(Sub) = %q", got)
	}
	if got := Sup("40", "3"); got != "40^{3}" {
		t.Errorf("Sup = %q", got)
	}
	if got := Tilde("C"); got != `\tilde{C}` {
		t.Errorf("Tilde = %q", got)
	}
}
