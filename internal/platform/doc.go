package platform

// Package platform contains OS/platform integration: filesystem helpers for
// the generated tree, temp-file naming for in-place rewrites, and OS open/reveal.
