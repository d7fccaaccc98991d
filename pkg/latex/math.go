package latex

import (
	"strconv"
	"strings"
)

// InlineMath wraps s in $...$.
func InlineMath(s string) string { return "$" + s + "$" }

// DisplayMath wraps s in \[...\].
func DisplayMath(s string) string { return `\[` + s + `\]` }

// Sub renders base_{sub}.
func Sub(base, sub string) string { return base + "_{" + sub + "}" }

// Sup renders base^{sup}.
func Sup(base, sup string) string { return base + "^{" + sup + "}" }

// Tilde renders \tilde{s}.
func Tilde(s string) string { return Command("tilde", nil, s) }

// Int formats n for use in math or tables.
func Int(n int64) string { return strconv.FormatInt(n, 10) }

// Matrix renders rows as a pmatrix. Requires amsmath.
func Matrix(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, " & ")
	}
	return Environment("pmatrix", strings.Join(lines, ` \\`+"\n"))
}

// IntMatrix renders an integer matrix as a pmatrix.
func IntMatrix(m [][]int64) string {
	rows := make([][]string, len(m))
	for i, r := range m {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = Int(v)
		}
	}
	return Matrix(rows)
}
