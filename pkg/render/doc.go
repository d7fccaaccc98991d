// Package render holds the observers that turn a solve into output.
//
// Every renderer implements [transport.Observer] and is driven either live
// by a solver or afterwards by [trace.Replay]:
//
//   - [latex]: a complete LaTeX write-up of every step, in English or Russian
//   - [logsink]: one structured log line per step
//   - [basis]: the final basis as a Graphviz bipartite graph (DOT and SVG)
//
// [transport.Observer]: github.com/matzehuels/potentials/pkg/transport.Observer
// [trace.Replay]: github.com/matzehuels/potentials/pkg/trace.Replay
// [latex]: github.com/matzehuels/potentials/pkg/render/latex
// [logsink]: github.com/matzehuels/potentials/pkg/render/logsink
// [basis]: github.com/matzehuels/potentials/pkg/render/basis
package render
