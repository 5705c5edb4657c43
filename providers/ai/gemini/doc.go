// Package gemini implements [ai.Provider] for Google's Gemini generateContent
// API.
//
// Non-streaming requests call generateContent and produce a one-fragment
// [ai.TextStream]. Streaming requests call streamGenerateContent, whose body
// is a JSON array written element by element; a [Framer] reassembles the
// elements from line chunks and every element becomes one fragment.
//
// The primary entry point is [New], which reads GEMINI_API_KEY and
// GEMINI_API_BASE_URL from the environment. With the public endpoint the key
// is sent as the "key" query parameter; a custom base URL switches to a bearer
// header. Use [GeminiProvider.WithFramer] to replace the byte-exact
// [MarkerFramer] and [GeminiProvider.WithLenientDecoding] to repair malformed
// elements before decoding.
package gemini
