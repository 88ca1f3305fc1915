package model

// Package model defines the data structures shared by the generator: formats,
// planned tracks, the playlist folder tree and status enums. Tracks move
// through explicit state transitions from Pending to Completed or Error.
