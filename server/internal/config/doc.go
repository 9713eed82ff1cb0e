// Package config loads the server configuration from the `server:` section
// of a YAML file, overlaid with environment variables.
//
// Config fields:
//   - HTTPPort         port for the REST API, metrics and stream (default 8080)
//   - LogLevel         debug | info | warn | error (default info)
//   - SeedFile         optional YAML seed; empty uses the built-in shop data
//   - Stream.Interval  WebSocket summary broadcast interval (default 5s)
//   - Notify.Webhooks  slack | teams | http targets for ticket events
//
// Load(path, envFile) applies defaults, the YAML file (if path is non-empty),
// the .env file (if present) and HONEYRAES_* overrides, then validates.
// Watch(ctx, path, envFile, onChange) reloads on file changes.
package config
