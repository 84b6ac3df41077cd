// Package ledger persists import runs and their per-split outcomes in SQLite.
//
// The Store records one row per import run plus one row per converted split,
// giving `mlsimport status` something to report after the fact. The database
// is bookkeeping, not a work queue: the pipeline's skip decisions rest on
// filesystem existence checks, never on ledger state.
package ledger
