// Package main provides the entry point of the OpticaApp settings service.
// It resolves typed settings per tenant with a fallback to the global
// settings, caches resolved values and serves a JSON admin api for the
// settings and the integration configurations of each tenant.
package main
