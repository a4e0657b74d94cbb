// Package storage provides JSON-based persistence for event snapshots.
//
// Snapshots track which Meetup events have already been announced, so
// repeated runs only notify about events that are actually new. The
// default storage location is ~/.local/share/meetup-bot/.
package storage
