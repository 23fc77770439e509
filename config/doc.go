// Package config handles taskrt.toml runtime configuration.
//
// Load starts from defaults, applies the TOML file when present, then
// applies TASKRT_* environment overrides, and validates the result. All
// sizes are in bytes.
package config
