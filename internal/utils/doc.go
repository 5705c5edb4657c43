// Package utils provides shared low-level helpers used by the provider
// adapters. It covers HTTP POST helpers for synchronous and streaming calls
// (JSON or form bodies, typed [HTTPStatusError] for non-2xx answers), chunk
// readers that preserve the vendor's byte framing, per-call HTTP clients with
// proxy and cookie-jar support, lenient JSON decoding backed by jsonrepair, and
// small string helpers.
//
// Key entry points: [DoPostRaw] and [DoPostSync] for synchronous round-trips,
// [DoPostStream] together with [LineChunker] or [RawChunker] for streamed
// bodies, [NewScopedClient] for per-call clients, and [UnmarshalLenient].
package utils
