// File: utils/constants.go
package utils

// PrefsEmailPrefix is the prefix used for Redis keys remembering the last
// email a session checked out with.
const PrefsEmailPrefix = "prefs:email:"

// SessionHeader carries the caller's session identity on every request.
const SessionHeader = "X-Session-ID"
