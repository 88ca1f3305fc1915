package store

// Package store seeds the player's SQLite playlist database with favorites,
// custom play order and exclusions for generated playlists. The schema is
// applied through embedded migrations that run at most once per file.
