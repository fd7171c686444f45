// Package errors provides the structured error type used across pipelayer.
//
// Engine failures (malformed steps, unimplemented filters, sealed types,
// bad configuration, unreadable manifests) are reported as *AppError values
// carrying a machine-readable code, so callers can branch with IsCode or
// errors.Is against a code sentinel. Errors raised by user steps are never
// wrapped by the engine; they reach the caller unchanged.
//
// AppError also carries an HTTP status and renders an RFC 7807 style body,
// which the rest package uses when a pipeline is served over HTTP.
package errors
