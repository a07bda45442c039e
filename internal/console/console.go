// Package console holds the small amount of platform-specific terminal
// setup the tools need.
package console
