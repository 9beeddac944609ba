// Package store provides a SQLite column source and sink for weekfn.
//
// Input columns are read with LoadColumn and results written with
// SaveColumn. Temporal and integer types are stored as INTEGER holding the
// raw stored value (days, seconds or ticks); String as TEXT. SQL NULL maps
// to a null marker in both directions.
//
// The store also keeps a log of executed batches (weekfn_runs), written
// from a session trace with RecordRuns.
//
// # Deterministic Reads
//
//   - Columns are read ORDER BY rowid ASC, so row order matches insertion
//   - Runs are read ORDER BY seq ASC, id ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Identifiers are quoted; values are always parameterized.
package store
