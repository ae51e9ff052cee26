// Package types holds the context keys shared between the root command
// and its subcommands.
package types

type contextKey string

// ClientAppKey is where the initialized client application lives in the
// command context.
const ClientAppKey contextKey = "clientApp"
