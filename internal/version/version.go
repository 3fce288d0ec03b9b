// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// UserAgent is sent with every outbound HTTP request.
const UserAgent = "ls-atlas/" + Version + " (terminal planetary atlas)"

// Milestones:
// 0.3.0 - Live satellite tracker with GeoJSON trail export
// 0.2.0 - Rotating sphere viewer, texture resolution chain
// 0.1.0 - Initial release: atlas grid, planet of the week, image of the day
