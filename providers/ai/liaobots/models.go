package liaobots

import (
	"slices"

	"github.com/leofalp/chatbridge/providers/ai"
)

// ModelDescriptor is the model object the chat endpoint expects verbatim in
// the request body.
type ModelDescriptor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MaxLength  int    `json:"maxLength"`
	TokenLimit int    `json:"tokenLimit"`
	Context    string `json:"context,omitempty"` // Context window label, e.g. "32K"
}

// Model ids accepted by the backend.
const (
	ModelGPT4            = "gpt-4"
	ModelGPT40613        = "gpt-4-0613"
	ModelGPT35Turbo      = "gpt-3.5-turbo"
	ModelGPT35Turbo16k   = "gpt-3.5-turbo-16k"
	ModelGPT41106Preview = "gpt-4-1106-preview"
	ModelGPT4Plus        = "gpt-4-plus"
	ModelGeminiPro       = "gemini-pro"
	ModelClaude2         = "claude-2"
	ModelClaudeInstant1  = "claude-instant-1"

	// DefaultModel is used when a request does not name a model.
	DefaultModel = ModelGPT35Turbo
)

// modelOrder fixes the listing order of Models().
var modelOrder = []string{
	ModelGPT4,
	ModelGPT40613,
	ModelGPT35Turbo,
	ModelGPT35Turbo16k,
	ModelGPT41106Preview,
	ModelGPT4Plus,
	ModelGeminiPro,
	ModelClaude2,
	ModelClaudeInstant1,
}

var modelDescriptors = map[string]ModelDescriptor{
	ModelGPT4:            {ID: ModelGPT4, Name: "GPT-4", MaxLength: 24000, TokenLimit: 8000},
	ModelGPT40613:        {ID: ModelGPT40613, Name: "GPT-4", MaxLength: 32000, TokenLimit: 8000},
	ModelGPT35Turbo:      {ID: ModelGPT35Turbo, Name: "GPT-3.5-Turbo", MaxLength: 48000, TokenLimit: 14000, Context: "16K"},
	ModelGPT35Turbo16k:   {ID: ModelGPT35Turbo16k, Name: "GPT-3.5-16k", MaxLength: 48000, TokenLimit: 16000},
	ModelGPT41106Preview: {ID: ModelGPT41106Preview, Name: "GPT-4-Turbo", MaxLength: 260000, TokenLimit: 126000, Context: "128K"},
	ModelGPT4Plus:        {ID: ModelGPT4Plus, Name: "GPT-4-Plus", MaxLength: 130000, TokenLimit: 31000, Context: "32K"},
	ModelGeminiPro:       {ID: ModelGeminiPro, Name: "Gemini-Pro", MaxLength: 120000, TokenLimit: 30000, Context: "32K"},
	ModelClaude2:         {ID: ModelClaude2, Name: "Claude-2-200k", MaxLength: 800000, TokenLimit: 200000, Context: "200K"},
	ModelClaudeInstant1:  {ID: ModelClaudeInstant1, Name: "Claude-instant-1", MaxLength: 400000, TokenLimit: 100000, Context: "100K"},
}

var modelAliases = map[string]string{
	"claude-v2": ModelClaude2,
}

// Descriptor resolves a model id or alias to its descriptor. An empty name
// resolves to DefaultModel.
func Descriptor(name string) (ModelDescriptor, error) {
	if name == "" {
		name = DefaultModel
	}
	if target, ok := modelAliases[name]; ok {
		name = target
	}
	descriptor, ok := modelDescriptors[name]
	if !ok {
		return ModelDescriptor{}, &ai.UnknownModelError{Provider: ProviderName, Model: name}
	}
	return descriptor, nil
}

// Aliases returns a copy of the alias table.
func Aliases() map[string]string {
	aliases := make(map[string]string, len(modelAliases))
	for alias, target := range modelAliases {
		aliases[alias] = target
	}
	return aliases
}

/*
	LIAOBOTS API - WIRE TYPES
*/

// chatMessage is a message as the chat endpoint receives it; roles are sent
// unchanged.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	ConversationID string          `json:"conversationId"`
	Model          ModelDescriptor `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Key            string          `json:"key"`
	Prompt         string          `json:"prompt"`
}

// userRequest is the body of POST /api/user.
type userRequest struct {
	AuthCode string `json:"authcode"`
}

// userResponse carries the session auth code issued by /api/user.
type userResponse struct {
	AuthCode string `json:"authCode"`
}

func toChatMessages(messages []ai.Message) []chatMessage {
	converted := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		converted = append(converted, chatMessage{Role: string(message.Role), Content: message.Content})
	}
	return converted
}

// Models returns the model ids in listing order.
func (provider *LiaobotsProvider) Models() []string {
	return slices.Clone(modelOrder)
}
