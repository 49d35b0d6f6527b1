// Package mix holds the deterministic mix-design rules: keeping a cement/sand/water
// composition at exactly 100% and deriving a suggested next mix from history.
//
// Everything here is a pure function of its inputs and safe for concurrent use.
package mix
