// Package client talks to the tracker backend over its REST API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services layer.
// RESTClient implements it over an *http.Client whose transport is the
// request gateway and whose jar holds the backend's session cookie, so
// every call carries whatever credential the device has.
//
// # Error Handling
//
// Responses are mapped to sentinel errors callers match with errors.Is:
//   - 401/403: ErrUnauthorized
//   - 404: ErrNotFound
//   - 5xx, transport failures and timeouts: ErrUnavailable
//   - other 4xx: *APIError with the backend's message
//
// See Also
//
//   - Interface: Client
//   - REST impl: RESTClient
package client
