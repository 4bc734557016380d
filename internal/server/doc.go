// Package server exposes the playlist service over a JSON HTTP API.
//
// # Routing
//
// Routes are registered on a [chi.Router] with shared middleware for
// request logging, rate limiting and session resolution. Responses go
// through go-chi/render so every handler returns a [render.Renderer]
// and status codes stay in one place.
//
// # Sessions
//
// Login yields an opaque bearer token kept in an in-memory
// [SessionStore]. The session middleware resolves the Authorization
// header into a [services.Identity] on the request context; handlers
// never look at tokens themselves.
//
// # Error mapping
//
// Service errors are translated to HTTP statuses in one place
// (renderError): validation failures map to 400, missing
// authentication to 401, ownership failures to 403 and unknown
// resources to 404. Anything unrecognized becomes a 500 without
// leaking internals.
package server
