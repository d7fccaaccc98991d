// Package io reads and writes transportation problems.
//
// A problem file holds the cost matrix and the two vectors. TOML:
//
//	costs  = [[3, 3, 1], [9, 2, 2], [5, 7, 6]]
//	supply = [40, 60, 50]
//	demand = [30, 30, 40]
//
// JSON:
//
//	{"costs": [[3, 3, 1], [9, 2, 2], [5, 7, 6]], "supply": [40, 60, 50], "demand": [30, 30, 40]}
//
// [ImportProblem] picks the format from the file extension. Every reader
// validates the problem before returning it, so a returned problem can be
// handed to the solver as is.
package io
