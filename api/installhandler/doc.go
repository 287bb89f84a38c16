// Package installhandler implements a local, in-memory version of the Data
// Forge service install API for development and end-to-end tests.
//
// Routes:
//   - POST /api/guest-task/Services/Install accepts {subtype, source, version}
//     and answers {token}. Every call issues a fresh random token.
//   - GET /api/guest-task/Services/Status authenticates the bearer token and
//     answers with the installation it was issued for.
//
// Tokens are not persisted and never expire; restarting the server
// invalidates all of them.
package installhandler
