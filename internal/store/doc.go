// Package store provides zebra's local, integrity-checked key-value storage.
//
// Every value is wrapped in a record carrying the payload, a format version,
// the unix time of the write and the SHA-256 hex digest of the serialized
// payload. Reads re-serialize the decoded payload and compare digests, which
// catches corruption and casual tampering. It is not a MAC: anyone who can
// write the file can also fix up the digest.
//
// Backends:
//   - bolt (default): a single bbolt file, one update transaction per write
//   - sqlite: modernc.org/sqlite, one upsert statement per write
//   - file: one file per key, written via temp file and rename
//
// LocalStorage is safe for concurrent use.
package store
