// Package client is the transport gateway to the CloudShare backend.
//
// # Overview
//
// The package provides:
//  1. The Gateway contract used by every higher layer: Get, Post, Patch,
//     Delete, and Upload (multipart with byte-level progress).
//  2. HTTPClient, a net/http implementation that attaches the bearer token
//     read from a TokenSource on every call, tags each request with an
//     X-Request-ID, and decodes every response body into a normalize.Node.
//  3. The endpoint table of the backend (see the Path* constants and the
//     *Path helpers).
//
// # Error Handling
//
// Non-2xx responses surface as *APIError, carrying the status, the server's
// message, and the raw envelope. Common conditions are exposed as sentinel
// errors that callers can match with errors.Is: ErrUnauthorized and
// ErrUnavailable. Nothing is retried.
package client
