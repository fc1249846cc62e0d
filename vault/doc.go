// Package vault works with a markdown note vault: it uploads notes through
// the vault's local REST API, searches note files by name and appends one
// note to another.
//
// Uploads go through httpclient with retry. A circuit breaker shared by a
// Client makes a batch sync stop hammering a vault that is down. The Client
// also implements observability.HealthChecker by probing the API root.
package vault
