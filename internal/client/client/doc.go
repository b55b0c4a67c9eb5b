// Package client is the single configured HTTP client used to talk to the
// marketplace REST API.
//
// # Overview
//
// HTTPClient owns one *http.Client (instrumented with otelhttp) and a base
// URL. Every call takes the caller's access token and sends it as
// "Authorization: Bearer <token>", together with a fresh X-Request-ID.
// Operations cover login, profile read/update under the role prefix, media
// upload, generic paginated list fetches (FetchPage) and admin vendor status
// changes.
//
// # Error Handling
//
// Responses are normalized into sentinel errors that callers match with
// errors.Is: ErrUnauthorized (401/403), ErrPayloadTooLarge (413),
// ErrUnsupportedMediaType (415) and ErrUnavailable (no response, timeouts,
// 502-504). Other non-2xx statuses become *APIError carrying the server's
// message. UserMessage renders any of them for display.
package client
