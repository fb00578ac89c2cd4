// Package main provides the entry point for the GoAuthBridge gateway.
// It initializes and runs a web server using the Fiber framework that
// mounts an authentication provider under a configurable base path,
// guards application routes by access level and exposes the provider's
// sign-in, session and sign-out endpoints through a REST API. Sessions
// are persisted in memory, Redis, MySQL or PostgreSQL depending on the
// configured storage backend.
package main
