// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation to protect endpoints.
//   - rayid: a unique Request ID (RayID) for every incoming request, injected into
//     the context and response headers for tracing.
//   - identity: resolves the acting user from the identity provider's headers and
//     hands it to handlers as an explicit value.
package middleware
