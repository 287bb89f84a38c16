// Package main (cmd/devserver) runs a local stand-in for the Data Forge
// service Install API.
//
// The server issues a random token for every valid Install request and keeps
// the issued tokens in memory, so tokens do not survive a restart. Tokens can
// be checked with the Status endpoint using the bearer header. Alongside the
// API it serves liveness and readiness probes, drain/undrain endpoints,
// optional pprof and Prometheus metrics on a separate listener.
//
// Example usage together with the provision tool:
//
//	provisioning-devserver --listen-addr=127.0.0.1:8080 --metrics-addr=127.0.0.1:8090
//	provision --endpoint=http://127.0.0.1:8080 install
//	provision --endpoint=http://127.0.0.1:8080 verify
package main
