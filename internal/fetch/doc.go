// Package fetch downloads the corpus archive when it is not already present.
//
// Downloads stream to a .partial file and rename into place on success, so a
// killed transfer never leaves a file the next run would mistake for a
// complete archive. When the archive already exists no network access occurs.
package fetch
