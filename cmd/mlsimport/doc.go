// Command mlsimport downloads a Multilingual LibriSpeech language archive,
// extracts it, transcodes the corpus FLAC audio to 16 kHz WAV, and writes
// per-split CSV manifests suitable for speech model training.
package main
