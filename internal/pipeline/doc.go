// Package pipeline orchestrates one corpus import as a sequence of stages:
// fetch the archive, extract it, then convert each split and write its
// manifest. Every stage is idempotent through filesystem existence checks,
// so an interrupted import resumes by re-running the same command. A file
// lock on the data directory keeps concurrent imports from interleaving.
package pipeline
