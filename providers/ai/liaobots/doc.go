// Package liaobots implements [ai.Provider] for the Liaobots chat backend.
//
// A call needs an auth code. It is taken from [ai.ChatRequest].Auth, from
// [LiaobotsProvider.WithAPIKey] (or LIAOBOTS_AUTH_CODE), or from the
// [SessionStore]; when none is available a two step login handshake obtains
// one and stores it together with the login cookies. Providers built with
// [New] share a process-wide store, and concurrent first calls share one
// handshake.
//
// The chat endpoint streams plain text. Every read of the response body
// becomes one fragment; an invalid-session HTML page in the body ends the
// stream with an [ai.InvalidSessionError].
package liaobots
