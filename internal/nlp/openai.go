package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
)

// OpenAIConfig configures the OpenAI-compatible translation provider.
type OpenAIConfig struct {
	// APIKey is the bearer token used to authenticate against the API.
	APIKey string

	// BaseURL overrides the API endpoint. Useful for Azure OpenAI, local
	// models (Ollama), or any other OpenAI-compatible endpoint.
	// Defaults to https://api.openai.com/v1 when empty.
	BaseURL string

	// Model is the chat model to use. Defaults to gpt-4o-mini when empty.
	Model string

	// Timeout is the HTTP request timeout. Defaults to 30 s.
	Timeout time.Duration
}

// openAIProvider implements Provider using the OpenAI chat completions API
// with JSON-mode output and temperature 0 so translations are deterministic.
type openAIProvider struct {
	cfg    OpenAIConfig
	client *http.Client
}

// NewOpenAI returns a Provider backed by the OpenAI (or compatible) chat
// API. The returned provider is safe for concurrent use.
func NewOpenAI(cfg OpenAIConfig) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &openAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// --- minimal OpenAI wire types ---

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiRequest struct {
	Model          string       `json:"model"`
	Messages       []oaiMessage `json:"messages"`
	Temperature    float64      `json:"temperature"`
	MaxTokens      int          `json:"max_tokens,omitempty"`
	ResponseFormat *oaiFormat   `json:"response_format,omitempty"`
}

type oaiFormat struct {
	Type string `json:"type"` // "json_object"
}

type oaiResponse struct {
	Choices []oaiChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type oaiChoice struct {
	Message      oaiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

// systemPromptTmpl is the instruction set sent as the "system" message.
// Two printf verbs are substituted at call time:
//  1. %s is the comma-separated list of topics currently on the cluster
//  2. %s is the remembered topic from the conversation, or "(none)"
const systemPromptTmpl = `You are a Kafka cluster assistant.
Your only job is to translate the user's message into a structured JSON command proposal.
You NEVER produce executable code and you NEVER perform actions yourself.

The only supported operations are:
- list_topics: list the topics on the cluster. No parameters.
- describe_topic: show metadata and configuration of one topic. Parameter: topic.
- create_topic: create a topic. Parameters: topic, partitions (integer), retention (echo the user's retention phrase verbatim, e.g. "one day", "24 hours"; do not convert units).
- explain_concept: answer a conceptual question about Kafka. Parameters: concept, answer (your conversational English answer).

Topics currently on the cluster: %s
Remembered topic from this conversation: %s

RULES (strict, do not deviate):
1. Respond ONLY with a single valid JSON object. No markdown, no code fences, no text outside JSON.
2. The JSON object has the fields: intent, topic, partitions, retention, concept, answer. Include only the fields relevant to the intent.
3. intent must be one of: list_topics, create_topic, describe_topic, explain_concept, unknown.
4. If the user asks for any other operation (deleting topics, altering configs, producing or consuming messages), set intent to "unknown" and explain in "answer" that only listing, describing, creating topics and conceptual questions are supported.
5. If the user refers to "that topic" or names no topic and a remembered topic exists, use the remembered topic.
6. If a required parameter is missing and cannot be resolved, set intent to "unknown" and ask for it in "answer".
7. Never invent topic names, partition counts, or retention values the user did not state.`

// correctiveMessage is sent once, and only once, when the first reply
// violates the translation schema.
const correctiveMessage = `Your previous reply did not conform to the required JSON schema. Respond again with ONLY a single JSON object with the fields intent, topic, partitions, retention, concept, answer and no other text.`

// Translate sends the user prompt to the LLM and returns a schema-validated
// Translation. A reply violating the schema triggers exactly one corrective
// re-prompt; a second violation is ErrMalformedOutput.
func (p *openAIProvider) Translate(ctx context.Context, req TranslateRequest) (*Translation, error) {
	topics := strings.Join(req.KnownTopics, ", ")
	if topics == "" {
		topics = "(none)"
	}
	remembered := req.RememberedTopic
	if remembered == "" {
		remembered = "(none)"
	}

	system := fmt.Sprintf(systemPromptTmpl, topics, remembered)
	messages := []oaiMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: req.Prompt},
	}

	raw, err := p.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	translation, decodeErr := decodeTranslation([]byte(raw))
	if decodeErr == nil {
		return translation, nil
	}
	if !errors.Is(decodeErr, ErrMalformedOutput) {
		return nil, decodeErr
	}

	// One corrective round trip, never more.
	slog.WarnContext(ctx, "Translation violated schema, sending corrective re-prompt", "error", decodeErr)
	messages = append(messages,
		oaiMessage{Role: "assistant", Content: raw},
		oaiMessage{Role: "user", Content: correctiveMessage},
	)
	raw, err = p.complete(ctx, messages)
	if err != nil {
		return nil, err
	}
	return decodeTranslation([]byte(raw))
}

// complete performs a single chat completion round trip and returns the
// assistant message content with any code fences stripped.
func (p *openAIProvider) complete(ctx context.Context, messages []oaiMessage) (string, error) {
	body := oaiRequest{
		Model:          p.cfg.Model,
		Messages:       messages,
		Temperature:    0,
		MaxTokens:      1024,
		ResponseFormat: &oaiFormat{Type: "json_object"},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("nlp: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/chat/completions",
		bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("nlp: create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: upstream HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("nlp: read response body: %w", err)
	}

	var oaiResp oaiResponse
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return "", fmt.Errorf("nlp: decode API response: %w", err)
	}
	if oaiResp.Error != nil {
		return "", fmt.Errorf("nlp: API error (%s): %s", oaiResp.Error.Type, oaiResp.Error.Message)
	}
	if len(oaiResp.Choices) == 0 {
		return "", fmt.Errorf("nlp: no choices returned (HTTP %d)", resp.StatusCode)
	}

	return stripCodeFences(oaiResp.Choices[0].Message.Content), nil
}

// stripCodeFences removes a ```json ... ``` wrapper some models insist on
// despite JSON mode.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.Trim(s, "`")
	if rest, ok := strings.CutPrefix(s, "json"); ok {
		s = rest
	}
	return strings.TrimSpace(s)
}
