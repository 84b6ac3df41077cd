// Package archive unpacks the corpus tarball into the data directory.
//
// Extraction is skipped when the marker subdirectory already exists. The
// marker is a completeness heuristic, not an integrity check: a run killed
// mid-extraction leaves a tree the next run treats as extracted.
package archive
