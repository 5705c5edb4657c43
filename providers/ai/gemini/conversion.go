package gemini

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
)

// roleMapping translates generic roles to Gemini roles. Roles missing from
// the table are sent unchanged.
var roleMapping = map[ai.MessageRole]string{
	ai.RoleUser:      "user",
	ai.RoleAssistant: "model",
	ai.RoleSystem:    "system",
}

var (
	errNoMessages  = errors.New("request has no messages")
	errMissingText = errors.New("response has no candidates[0].content.parts[0].text")
)

// mapRole returns the Gemini role for role.
func mapRole(role ai.MessageRole) string {
	if mapped, ok := roleMapping[role]; ok {
		return mapped
	}
	return string(role)
}

// buildRequest converts the generic request into a generateContentRequest.
// The image, when present, is appended to the last content entry only.
func buildRequest(request ai.ChatRequest) (generateContentRequest, error) {
	if len(request.Messages) == 0 {
		return generateContentRequest{}, errNoMessages
	}

	contents := make([]content, 0, len(request.Messages))
	for _, message := range request.Messages {
		contents = append(contents, content{
			Role:  mapRole(message.Role),
			Parts: []part{{Text: utils.Ptr(message.Content)}},
		})
	}

	if request.Image != nil {
		mimeType, err := request.Image.ResolveMimeType()
		if err != nil {
			return generateContentRequest{}, err
		}
		last := &contents[len(contents)-1]
		last.Parts = append(last.Parts, part{
			InlineData: &inlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(request.Image.Data),
			},
		})
	}

	return generateContentRequest{
		Contents:         contents,
		GenerationConfig: buildGenerationConfig(request.GenerationConfig),
	}, nil
}

// buildGenerationConfig forwards the optional knobs verbatim. The object is
// always sent; unset knobs are omitted inside it.
func buildGenerationConfig(cfg *ai.GenerationConfig) *generationConfig {
	if cfg == nil {
		return &generationConfig{}
	}
	return &generationConfig{
		StopSequences:   cfg.StopSequences,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
	}
}

// firstText extracts candidates[0].content.parts[0].text.
func firstText(response generateContentResponse) (string, error) {
	if len(response.Candidates) == 0 {
		if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w (prompt blocked: %s)", errMissingText, response.PromptFeedback.BlockReason)
		}
		return "", errMissingText
	}
	candidate := response.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 || candidate.Content.Parts[0].Text == nil {
		if candidate.FinishReason != "" {
			return "", fmt.Errorf("%w (finish reason: %s)", errMissingText, candidate.FinishReason)
		}
		return "", errMissingText
	}
	return *candidate.Content.Parts[0].Text, nil
}

// extractErrorMessage returns the vendor message of an error body. It tries
// the streaming shape (array of envelopes) first, then a single envelope, and
// falls back to the raw body.
func extractErrorMessage(body []byte) string {
	var envelopes []errorEnvelope
	if err := json.Unmarshal(body, &envelopes); err == nil && len(envelopes) > 0 && envelopes[0].Error.Message != "" {
		return envelopes[0].Error.Message
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	return utils.TruncateStringDefault(strings.TrimSpace(string(body)))
}
