// Package main (cmd/provision) registers declared services with the Data Forge
// API and writes their config files.
//
// The service list comes from, in order of precedence, repeated --service
// name=target flags, a YAML manifest passed with --services-file, or the
// built-in default (locationSelector). Services are provisioned one at a time
// in declaration order; a failing service is logged and the rest are still
// attempted. The process exits 0 unless --strict is given. Running without a
// command runs install, and flags may be given before or after the command
// name.
//
// Example usage:
//
//	provision install
//	provision --endpoint=https://staging.data-forge.tech \
//	    --service=locationSelector=src/location-selector/services.config.js \
//	    install --mirror=vault://vault.internal:8200/secret/widgets
//	provision --services-file=services.yaml verify
package main
