// Package http implements the HTTP transport layer of the signing engine.
//
// It exposes route wiring, request handlers, and middleware for two surfaces:
// the operator API (service-to-service, authenticated by a static API key)
// and the external signer API (authenticated by bearer access tokens).
// Cross-cutting concerns such as request tracing and access logging are
// handled in this package before requests are delegated to the service layer.
package http
