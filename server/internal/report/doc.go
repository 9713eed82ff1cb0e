// Package report implements the shop's read-side queries. Every function is
// pure: it takes a store.View and returns a filtered or aggregated result in
// store insertion order unless documented otherwise.
package report
