// Package transform provides the per-row custom-week computations.
//
// A Transform maps one temporal value plus a week mode (and, for instants,
// a timezone) to an integer result. The function layer chooses which
// Transform method to call from the input encoding:
//
//	Date, Date32   -> Day
//	DateTime       -> Seconds
//	DateTime64     -> Scaled.Ticks (floors to seconds, then Seconds)
//
// Week numbering follows the MySQL WEEK() modes; see the mode table in
// mode.go.
package transform
