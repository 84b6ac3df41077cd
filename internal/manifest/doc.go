// Package manifest accumulates and serializes per-split CSV manifests.
//
// A manifest row pairs an absolute WAV path and its byte size with the
// normalized transcript. Rows are written with the fixed header
// wav_filename,wav_filesize,transcript and no index column.
package manifest
