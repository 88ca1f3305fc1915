package cover

// Package cover draws the deterministic QR-like album art attached to
// generated tracks.
