package verify

// Package verify re-reads a generated tree and reports files that are empty,
// lack the expected tags or cover, or probe to the wrong duration.
