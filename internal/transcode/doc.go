// Package transcode converts corpus FLAC audio to WAV via ffmpeg.
//
// Each utterance is an independent task: when the destination WAV already
// exists the task is a skip, otherwise ffmpeg resamples the source to the
// target rate. Run fans tasks out over a bounded worker pool; the first
// failure cancels the remaining work.
package transcode
