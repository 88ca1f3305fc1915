package config

// Package config holds the generator configuration: built-in tables for
// formats, sample rates, metadata pools and the playlist tree, an optional
// YAML file layered over them, and FIXTURE_* environment overrides.
