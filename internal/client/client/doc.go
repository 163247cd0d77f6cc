// Package client is the Go client of the engine gRPC service. It derives
// every deterministic account a request names and signs requests with the
// caller's ed25519 keys.
package client
