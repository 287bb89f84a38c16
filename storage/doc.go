// Package storage provides config mirrors: secondary destinations that
// receive a copy of every rendered service config next to the primary file.
//
// Supported backends:
//
//   - File system directory, one <service>.config.js per service
//   - S3-compatible object storage, <prefix>/<service>/services.config.js
//   - HashiCorp Vault KV v2, <mount>/data/<path>/<service>
//
// # Mirror URI Format
//
// Mirrors are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Examples:
//
//   - file:///var/lib/dataforge/configs/
//   - s3://bucket-name/prefix/?region=us-west-2
//   - s3://KEY:SECRET@bucket-name/prefix/?endpoint=http://127.0.0.1:9000
//   - vault://vault.example.com:8200/secret/dataforge
//   - vault://TOKEN@127.0.0.1:8200/secret/dataforge?tls=false
//
// Vault tokens fall back to the VAULT_TOKEN environment variable and S3
// credentials to the default AWS credential chain when not embedded.
//
// # Multi-Mirror
//
// MultiMirror stores to every configured backend in order and joins the
// errors of those that fail. A failing backend never prevents the others
// from being written.
package storage
