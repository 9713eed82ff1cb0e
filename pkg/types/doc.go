// Package types defines the shop entities shared by the store, the report
// queries and the HTTP API. These are the canonical in-memory representations;
// the JSON tags are the wire format.
package types
