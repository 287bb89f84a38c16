/*
Package api groups the HTTP surface of the service provisioning system.

Subpackages:

 1. clients - HTTP clients for the install API and for authenticated
    service calls built from persisted config files
 2. installhandler - a local, in-memory implementation of the install API
 3. servers - HTTP server lifecycle, health probes and metrics wiring

This package itself holds the shared server configuration.
*/
package api
