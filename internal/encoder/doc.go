package encoder

// Package encoder drives the external audio encoder (ffmpeg) and prober
// (ffprobe): it builds their command lines, synthesizes tones, attaches cover
// images in place, and reports failures together with captured stderr.
