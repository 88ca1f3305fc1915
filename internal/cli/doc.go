package cli

// Package cli wires the cobra command tree: generate (the default), plan,
// verify, config init and version.
