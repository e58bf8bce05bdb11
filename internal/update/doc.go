// Package update checks GitHub releases for a newer squadready version.
//
// The package includes:
//   - Lenient version parsing and comparison (version.go)
//   - GitHub API client for fetching release info (check.go)
//
// The daemon runs a single asynchronous check at startup so the event loop is
// never delayed by the network. Installing updates is left to the user.
package update
