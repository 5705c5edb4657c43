package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Provider Attributes ---

const (
	// AttrLLMProvider is the name of the provider (e.g., "gemini", "liaobots")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the resolved model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL (credentials redacted)
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMStreaming reports whether the call uses the streaming endpoint
	AttrLLMStreaming = "llm.streaming"

	// AttrLLMAuthMode is how credentials are sent ("bearer", "query", "auth_code")
	AttrLLMAuthMode = "llm.auth_mode"
)

// --- Request/Response Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"

	// AttrRequestHasImage reports whether an image is attached
	AttrRequestHasImage = "request.has_image"

	// AttrRequestProxy reports whether the call goes through a proxy
	AttrRequestProxy = "request.proxy"

	// AttrConversationID is the conversation id generated for a chat call
	AttrConversationID = "request.conversation_id"

	// AttrStreamFragments is the number of fragments yielded by a stream
	AttrStreamFragments = "stream.fragments"

	// AttrStreamRawBuffer is the raw buffer that failed to decode
	AttrStreamRawBuffer = "stream.raw_buffer"
)

// --- Session Attributes ---

const (
	// AttrSessionSource is where the auth code came from ("request", "provider", "cache", "handshake")
	AttrSessionSource = "session.source"

	// AttrSessionStep is the handshake step being performed ("login", "user")
	AttrSessionStep = "session.step"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanProviderStream is the span covering one CreateStream call, from
	// request preparation until the stream is drained or abandoned
	SpanProviderStream = "provider.stream"

	// SpanSessionHandshake is the span covering a login + user-info handshake
	SpanSessionHandshake = "session.handshake"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the start of a provider request
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of a provider request
	EventLLMRequestEnd = "llm.request.end"

	// EventFragmentEmitted marks a fragment handed to the caller
	EventFragmentEmitted = "stream.fragment"

	// EventSessionReused marks a call served from the session cache
	EventSessionReused = "session.reused"

	// EventSessionStored marks a handshake result written to the cache
	EventSessionStored = "session.stored"
)
