// Package corpus encodes the on-disk layout and text conventions of the
// Multilingual LibriSpeech corpus.
//
// It derives archive names and URLs from a language identifier, maps
// underscore-delimited utterance identifiers to their nested audio paths,
// locates aggregate transcript files, and normalizes transcript text. All
// functions are pure; filesystem walking is confined to FindTranscripts and
// ReadTranscripts.
package corpus
