package gemini

/*
	GEMINI API - REQUEST TYPES
*/

// generateContentRequest is the body of generateContent and streamGenerateContent.
type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig"`
}

// content represents a content block with role and parts.
type content struct {
	Role  string `json:"role,omitempty"` // "user", "model" or a passed-through role
	Parts []part `json:"parts"`
}

// part is either a text part or an inline data part.
type part struct {
	Text       *string     `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

// inlineData carries base64-encoded binary data such as an image.
type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// generationConfig represents generation parameters for Gemini.
type generationConfig struct {
	StopSequences   []string `json:"stopSequences,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
}

/*
	GEMINI API - RESPONSE TYPES
*/

// generateContentResponse is one response object; the streaming endpoint
// sends a sequence of them.
type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates,omitempty"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

// candidate represents a response candidate.
type candidate struct {
	Content      *content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// promptFeedback explains why a prompt produced no candidates.
type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

/*
	GEMINI API - ERROR TYPES
*/

// errorEnvelope wraps an API error. Non-streaming calls answer with one
// envelope, streaming calls with an array of them.
type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
