// Package client is the CLI's view of the GophCapsule server.
//
// # Overview
//
// The Client interface describes the operations the CLI needs. GRPCClient
// implements it over a gRPC connection using the cbor codec, attaching the
// configured access token to every call.
//
// # Error Handling
//
// Server errors that carry a known message are mapped back onto the
// sentinels in internal/common, so callers can use errors.Is on both sides
// of the wire. Transport trouble surfaces as ErrUnavailable and missing or
// rejected tokens as ErrUnauthorized.
package client
