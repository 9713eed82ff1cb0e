// Package store owns the shop's in-memory collections: customers, employees
// and service tickets. The collections are seeded once at startup and live for
// the process lifetime; only the ticket collection changes size.
//
// All access goes through a Store, which guards its slices with a
// sync.RWMutex. Read methods return deep copies. Writes (create, update,
// delete, complete) hold the write lock for the whole read-modify-write.
// Snapshot returns a View copied under a single read lock for report queries.
package store
