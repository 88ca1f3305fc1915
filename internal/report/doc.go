package report

// Package report renders the plain-text summary written next to the
// generated fixtures and the pre-run cost estimate.
