package latex

import (
	"fmt"
	"strings"
)

// Alignment is a tabular column alignment.
type Alignment byte

const (
	Left   Alignment = 'l'
	Centre Alignment = 'c'
	Right  Alignment = 'r'
)

// ColumnSpec builds a fully ruled column specification such as |c|c|c|.
func ColumnSpec(n int, a Alignment) string {
	return "|" + strings.Repeat(string(a)+"|", n)
}

// Tabular renders a fully ruled table: \hline above the first row and after
// every row. All rows must have the same number of cells.
func Tabular(rows [][]string, a Alignment) (string, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", fmt.Errorf("tabular: table must have at least one cell")
	}
	width := len(rows[0])
	var b strings.Builder
	b.WriteString(`\hline` + "\n")
	for i, row := range rows {
		if len(row) != width {
			return "", fmt.Errorf("tabular: row %d has %d cells, want %d", i, len(row), width)
		}
		b.WriteString(strings.Join(row, " & "))
		b.WriteString(` \\ \hline` + "\n")
	}
	return `\begin{tabular}{` + ColumnSpec(width, a) + "}\n" + b.String() + `\end{tabular}`, nil
}

// Figure places body in a centred floating figure with a caption.
func Figure(body, caption string) string {
	return Environment("figure", `\centering`+"\n"+body+"\n"+Command("caption", nil, caption), "h")
}

// CellColor shades a table cell. Opacity is a percentage in [0, 100].
// Requires xcolor with the table option.
func CellColor(color string, opacity int) (string, error) {
	if opacity < 0 || opacity > 100 {
		return "", fmt.Errorf("cell color: opacity %d out of range [0, 100]", opacity)
	}
	if opacity < 100 {
		color = fmt.Sprintf("%s!%d", color, opacity)
	}
	return Command("cellcolor", nil, color), nil
}
