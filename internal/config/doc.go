// Package config manages user-level settings stored at ~/.stacx/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the log level and format, with STACX_* environment variables taking
// precedence over the file.
package config
