// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides
// type-safe access to the settings needed by the store adapter, the
// scheduler, the Telegram integration and the ops HTTP server.
package config
