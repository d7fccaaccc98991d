// Package pkg provides the libraries behind potentials, a solver for the
// transportation problem.
//
// # Overview
//
// A problem is a cost matrix with a supply per row and a demand per column.
// The solver closes an unbalanced problem with a zero-cost slack row or
// column, builds a start plan with the minimum-element rule and improves it
// with the method of potentials until no reduced cost is negative.
//
// # Architecture
//
//	problem file (TOML/JSON)
//	         ↓
//	    [io] (read and validate)
//	         ↓
//	    [transport] (solve, report each step to an Observer)
//	         ↓
//	    [trace] (record, cache, replay)
//	         ↓
//	    [render] (LaTeX, log, Graphviz) → [compiler] (pdflatex)
//
// [pipeline] ties these together with a [cache] and an optional [store]
// for run history.
//
// # Quick Start
//
//	p := transport.Problem{
//	    Costs:  [][]int64{{3, 3, 1}, {9, 2, 2}, {5, 7, 6}},
//	    Supply: []int64{40, 60, 50},
//	    Demand: []int64{30, 30, 40},
//	}
//	final, err := transport.Solve(p)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(final.TotalCost) // 220
//
// To write up the solution, attach a LaTeX document as an observer:
//
//	doc := latex.New(latex.WithLanguage(latex.Russian))
//	if _, err := transport.Solve(p, doc); err != nil {
//	    return err
//	}
//	os.WriteFile("solution.tex", doc.Bytes(), 0o644)
//
// [io]: github.com/matzehuels/potentials/pkg/io
// [transport]: github.com/matzehuels/potentials/pkg/transport
// [trace]: github.com/matzehuels/potentials/pkg/trace
// [render]: github.com/matzehuels/potentials/pkg/render
// [compiler]: github.com/matzehuels/potentials/pkg/compiler
// [pipeline]: github.com/matzehuels/potentials/pkg/pipeline
// [cache]: github.com/matzehuels/potentials/pkg/cache
// [store]: github.com/matzehuels/potentials/pkg/store
package pkg
