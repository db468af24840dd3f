// Package adapter normalises the wire formats of hosted model families behind a single
// request/response contract.
//
// A model identifier is classified once into a Profile when the agent configuration is built.
// Every later request and response is then handled by the builders of that profile, so the
// identifier is never inspected again on the hot path.
//
// The network call itself is delegated to a Transport. The adapter performs exactly one call per
// invocation and never retries: any failure is returned as an *Error whose Kind is one of the
// sentinel errors declared in this package.
package adapter
