package playlistcache

// Package playlistcache writes and reads the playlist.json sidecar the player
// uses to skip rescanning a folder.
