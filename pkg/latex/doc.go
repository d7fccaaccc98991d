// Package latex assembles LaTeX source text.
//
// It covers what the solution reports need and nothing more: a [Document]
// with class, packages and preamble, plus string helpers for tables,
// matrices, figures and math. Helpers return plain strings so they compose
// with ordinary string concatenation.
//
//	doc := latex.NewDocument("article", "a4paper")
//	doc.UsePackage("amsmath")
//	doc.Writeln(latex.Center(latex.Bold("Report")))
//	src := doc.String()
//
// Text from untrusted input must go through [Escape] before it is written.
package latex
