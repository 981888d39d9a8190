// Package config loads application configuration from environment variables.
//
// Every setting has a development-friendly default so a bare `go run` works
// against a local SurrealDB. Validate() reports all problems at once rather
// than failing on the first, so a misconfigured deployment surfaces its full
// list of missing variables in a single log line.
package config
