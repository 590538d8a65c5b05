// Package logger builds the process-wide *slog.Logger from ServerConfig.
// Output is JSON on stdout; the level comes from server.log_level.
package logger
