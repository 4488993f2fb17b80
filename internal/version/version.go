// Package version contains information on the current version of the
// btrc compiler. It is split from the main program for easy use.
package version

// Current is the string representing the current version of btrc.
const Current = "0.2.0"
