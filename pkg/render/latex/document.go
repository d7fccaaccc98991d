// Package latex renders a solve as a LaTeX write-up.
//
// [Document] implements [transport.Observer]: attach it to a solver (or
// replay a recorded trace into it) and call [Document.Bytes] afterwards.
// The write-up follows the textbook layout of the method of potentials:
// the problem table, the closing step, the initial plan, one potentials
// table and reduced-cost matrices per iteration, the improvement cycles and
// the answer.
package latex

import (
	"slices"

	tex "github.com/matzehuels/potentials/pkg/latex"
	"github.com/matzehuels/potentials/pkg/transport"
)

// Option configures a [Document].
type Option func(*Document)

// WithLanguage selects the report wording.
func WithLanguage(l Language) Option { return func(d *Document) { d.lang = l } }

// Document accumulates the write-up of one solve.
type Document struct {
	lang  Language
	words phrases
	doc   *tex.Document
	err   error
}

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{lang: DefaultLanguage}
	for _, opt := range opts {
		opt(d)
	}
	w, ok := wording[d.lang]
	if !ok {
		d.lang, w = DefaultLanguage, wording[DefaultLanguage]
	}
	d.words = w
	d.doc = tex.NewDocument("article", "a4paper")
	d.preamble()
	return d
}

func (d *Document) preamble() {
	if d.lang == Russian {
		d.doc.UsePackage("fontenc", "T2A")
	}
	d.doc.UsePackage("geometry", "left=2cm", "right=1cm", "top=2cm", "bottom=2cm")
	d.doc.UsePackage("inputenc", "utf8")
	if d.lang == Russian {
		d.doc.UsePackage("babel", "english", "russian")
	} else {
		d.doc.UsePackage("babel", "english")
	}
	d.doc.UsePackage("amsmath")
	d.doc.UsePackage("xcolor", "table")
	d.doc.Preamble(`\setlength{\parskip}{0.27cm}`)
	d.doc.Preamble(`\renewcommand{\arraystretch}{1.5}`)
}

// Bytes returns the LaTeX source.
func (d *Document) Bytes() []byte { return d.doc.Bytes() }

// String returns the LaTeX source.
func (d *Document) String() string { return d.doc.String() }

// Err returns the first error met while building tables, if any.
func (d *Document) Err() error { return d.err }

func (d *Document) OnStart(p transport.Problem) {
	d.doc.Writeln(tex.Center(d.words.title))
	d.doc.Writeln(tex.Paragraph(d.words.intro))
	d.figure(d.conditionTable(p.Costs, p.Supply, p.Demand), d.words.conditionCaption)
	d.doc.Writeln(tex.Paragraph(tex.Bold(d.words.solution)))
}

func (d *Document) OnBalanced(s transport.Snapshot, addedColumn bool, totalSupply, totalDemand int64) {
	d.doc.Writeln(d.words.open + tex.InlineMath(tex.Int(totalSupply)+` \neq `+tex.Int(totalDemand)) + ".")
	if addedColumn {
		d.doc.Writeln(tex.Paragraph(d.words.addedColumn))
	} else {
		d.doc.Writeln(tex.Paragraph(d.words.addedRow))
	}
	d.figure(d.conditionTable(s.Costs, s.Supply, s.Demand), d.words.closedCaption)
}

func (d *Document) OnInitialPlanBuilt(s transport.Snapshot) {
	d.doc.Writeln(tex.Paragraph(d.words.initial))
	d.figure(d.planTable(s), d.words.initialCaption)
}

func (d *Document) OnDegenerateFix(s transport.Snapshot) {
	d.doc.Writeln(tex.Paragraph(d.words.degenerate))
	d.figure(d.planTable(s), d.words.degenerateCaption)
}

func (d *Document) OnPotentialsComputed(s transport.Snapshot, u, v []int64) {
	if s.FirstPass {
		d.doc.Writeln(tex.Paragraph(d.words.potentials))
	}
	d.figure(d.potentialsTable(s.Plan, s, u, v, nil), d.words.potentialsCaption)
}

func (d *Document) OnReducedCosts(_ transport.Snapshot, sums, reduced transport.Matrix) {
	expr := tex.Tilde("C") + " = " + tex.IntMatrix(sums) + `; \quad ` +
		"C - " + tex.Tilde("C") + " = " + tex.IntMatrix(reduced)
	d.doc.Writeln(tex.Paragraph(tex.DisplayMath(expr)))
}

// OnPlanRebuilt draws the cycle on the plan it was found on, next to the
// potentials of that plan.
func (d *Document) OnPlanRebuilt(s transport.Snapshot, cycle []transport.Cell, previous transport.Plan, u, v []int64) {
	d.figure(d.potentialsTable(previous, s, u, v, cycle), d.words.cycleCaption)
}

func (d *Document) OnOptimalSolutionFound(s transport.Snapshot) {
	rows := make([][]string, len(s.Plan))
	for i, row := range s.Plan {
		rows[i] = make([]string, len(row))
		for j, q := range row {
			rows[i][j] = tex.Int(q.Value())
		}
	}
	d.doc.Writeln(tex.Bold(d.words.answer) + " " + tex.LineBreak)
	d.doc.Writeln(tex.InlineMath(tex.Matrix(rows)) + d.words.cost + tex.Int(s.TotalCost))
}

// ============================================================================
// Tables
// ============================================================================

func (d *Document) figure(table string, caption string) {
	if table == "" {
		return
	}
	d.doc.Writeln(tex.Paragraph(tex.Figure(table, caption)))
}

func (d *Document) tabular(rows [][]string) string {
	t, err := tex.Tabular(rows, tex.Centre)
	if err != nil {
		if d.err == nil {
			d.err = err
		}
		return ""
	}
	return t
}

func gray() string {
	c, _ := tex.CellColor("black", 15)
	return c
}

func header(n int, last string) []string {
	row := []string{gray()}
	for j := range n {
		row = append(row, tex.InlineMath(tex.Sub("B", tex.Int(int64(j+1)))))
	}
	return append(row, last)
}

func demandRow(demand []int64) []string {
	row := []string{gray()}
	for _, x := range demand {
		row = append(row, tex.InlineMath(tex.Int(x)))
	}
	return append(row, gray())
}

func (d *Document) conditionTable(costs [][]int64, supply, demand []int64) string {
	rows := [][]string{header(len(demand), d.words.stock)}
	for i, cr := range costs {
		row := []string{tex.InlineMath(tex.Sub("A", tex.Int(int64(i+1))))}
		for _, c := range cr {
			row = append(row, tex.Int(c))
		}
		rows = append(rows, append(row, tex.Int(supply[i])))
	}
	rows = append(rows, demandRow(demand))
	return d.tabular(rows)
}

func (d *Document) planTable(s transport.Snapshot) string {
	rows := [][]string{header(len(s.Demand), d.words.stock)}
	for i, pr := range s.Plan {
		row := []string{tex.InlineMath(tex.Sub("A", tex.Int(int64(i+1))))}
		for j, q := range pr {
			row = append(row, tex.InlineMath(entry(q, s.Costs[i][j])))
		}
		rows = append(rows, append(row, tex.Int(s.Supply[i])))
	}
	rows = append(rows, demandRow(s.Demand))
	return d.tabular(rows)
}

// potentialsTable lays plan out with supply on the left, u on the right,
// demand on top and v at the bottom. Cells on cycle are marked (+) or (-).
func (d *Document) potentialsTable(plan transport.Plan, s transport.Snapshot, u, v []int64, cycle []transport.Cell) string {
	top := []string{gray()}
	for _, x := range s.Demand {
		top = append(top, tex.Int(x))
	}
	rows := [][]string{append(top, tex.InlineMath("u_i"))}

	for i, pr := range plan {
		row := []string{tex.Int(s.Supply[i])}
		for j, q := range pr {
			cell := entry(q, s.Costs[i][j])
			if k := slices.Index(cycle, transport.Cell{Row: i, Col: j}); k >= 0 {
				cell = tex.Bold(sign(k)) + `\ ` + cell
			}
			row = append(row, tex.InlineMath(cell))
		}
		rows = append(rows, append(row, tex.Int(u[i])))
	}

	bottom := []string{tex.InlineMath("v_j")}
	for _, x := range v {
		bottom = append(bottom, tex.Int(x))
	}
	rows = append(rows, append(bottom, gray()))
	return d.tabular(rows)
}

func sign(k int) string {
	if k%2 == 0 {
		return "(+)"
	}
	return "(-)"
}

// entry renders a plan cell as quantity with the unit cost as superscript.
func entry(q transport.Quantity, cost int64) string {
	return q.String() + `\:` + tex.Sup("", tex.Int(cost))
}

var _ transport.Observer = (*Document)(nil)
