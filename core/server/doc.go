// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the runtime environment.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, and the environment
// (development, production). Development enables verbose snapshot diagnostics
// in the list session.
package server
