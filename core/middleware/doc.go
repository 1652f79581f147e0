// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the
// handler.
//
// # Components
//
//   - Auth: Implements API key validation to protect endpoints.
//   - RayID: Generates a unique request ID (ray ID) for every incoming
//     request, injecting it into the context and response headers so a
//     comparison run can be traced through the logs.
//
// These middleware components are designed to be registered globally or
// per-route group in the main application setup.
package middleware
