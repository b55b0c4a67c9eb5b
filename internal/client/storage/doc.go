// Package storage is the client's persisted state: a byte-level KV port with
// SQLite and in-memory adapters, and Adapter, which stores JSON values under
// the fixed keys below.
//
// Nothing outside the services layer writes to storage directly. Entries are
// not encrypted and never expire; a missing entry means "not logged in".
package storage
