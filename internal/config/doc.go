// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml and TASKTRACKER_ environment
// variables. It provides type-safe access to settings needed by the server
// and the status updater while keeping configuration details separate from
// business logic.
package config
