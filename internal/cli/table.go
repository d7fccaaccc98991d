package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/potentials/pkg/transport"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	tableBasicStyle  = tableCellStyle.Foreground(colorCyan)
	tableEmptyStyle  = tableCellStyle.Foreground(colorDim)
	tableMarkStyle   = tableCellStyle.Foreground(colorYellow).Bold(true)
)

// planTable renders a plan as "quantity @ cost" cells with supply and
// demand margins. Cells in marks are highlighted.
func planTable(s transport.Snapshot, marks map[transport.Cell]string) string {
	rows, cols := len(s.Plan), 0
	if rows > 0 {
		cols = len(s.Plan[0])
	}

	headers := make([]string, 0, cols+2)
	headers = append(headers, "")
	for j := range cols {
		headers = append(headers, fmt.Sprintf("B%d", j+1))
	}
	headers = append(headers, "supply")

	data := make([][]string, 0, rows+1)
	for i, row := range s.Plan {
		line := make([]string, 0, cols+2)
		line = append(line, fmt.Sprintf("A%d", i+1))
		for j, q := range row {
			cell := fmt.Sprintf("%s @ %d", q, s.Costs[i][j])
			if m, ok := marks[transport.Cell{Row: i, Col: j}]; ok {
				cell = m + " " + cell
			}
			line = append(line, cell)
		}
		line = append(line, strconv.FormatInt(s.Supply[i], 10))
		data = append(data, line)
	}
	demand := make([]string, 0, cols+2)
	demand = append(demand, "demand")
	for _, d := range s.Demand {
		demand = append(demand, strconv.FormatInt(d, 10))
	}
	demand = append(demand, "")
	data = append(data, demand)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow, col == 0, row == rows, col == cols+1:
				return tableHeaderStyle
			}
			if _, ok := marks[transport.Cell{Row: row, Col: col - 1}]; ok {
				return tableMarkStyle
			}
			if s.Plan[row][col-1].IsAllocated() {
				return tableBasicStyle
			}
			return tableEmptyStyle
		})
	return t.Render()
}

// matrixTable renders an integer matrix with row and column labels.
func matrixTable(title string, m transport.Matrix) string {
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	headers := make([]string, 0, cols+1)
	headers = append(headers, title)
	for j := range cols {
		headers = append(headers, fmt.Sprintf("B%d", j+1))
	}
	data := make([][]string, len(m))
	for i, row := range m {
		data[i] = append(data[i], fmt.Sprintf("A%d", i+1))
		for _, v := range row {
			data[i] = append(data[i], strconv.FormatInt(v, 10))
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return tableHeaderStyle
			}
			if m[row][col-1] < 0 {
				return tableMarkStyle
			}
			return tableCellStyle
		}).
		Render()
}

// cycleMarks labels the cells of an improvement cycle with + and -.
func cycleMarks(cycle []transport.Cell) map[transport.Cell]string {
	marks := make(map[transport.Cell]string, len(cycle))
	for k, c := range cycle {
		if k%2 == 0 {
			marks[c] = "+"
		} else {
			marks[c] = "-"
		}
	}
	return marks
}
