// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Hot reload of the data document, TOML export, admin overlay
// 0.2.0 - SQLite progress store, headless summary/export/complete commands
// 0.1.0 - Initial release: star chart TUI with pan, zoom, focus lock and hover
