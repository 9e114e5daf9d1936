// Package cli defines the Cobra command tree for the stacx CLI. Each file
// in this package registers one top-level command (validate, ext, proj,
// config, version) with the root command. Command implementations delegate
// to internal packages for business logic and only handle argument parsing
// and output formatting.
package cli
