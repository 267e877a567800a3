package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"prospector/internal/model"
)

const extractionPrompt = `You are analyzing a social media post/comment about AI sales tools.
Extract any AI/software tools mentioned and claims made about them.

POST CONTENT:
%s

SOURCE INFO:
- URL: %s

INSTRUCTIONS:
1. Identify all AI tools, software products, or SaaS platforms mentioned
2. For each tool, extract any claims made about it
3. Assign confidence scores based on:
   - Direct experience claims (high: 0.8-1.0)
   - Secondhand recommendations (medium: 0.5-0.7)
   - Vague mentions (low: 0.2-0.4)

CATEGORIES for tools: %s
CLAIM TYPES: %s

Respond with valid JSON only, no other text:
{
  "tools": [
    {
      "name": "Tool Name",
      "url": "https://...",
      "description": "Brief description if mentioned",
      "category": "one of the categories above"
    }
  ],
  "claims": [
    {
      "tool_name": "Tool Name",
      "claim_type": "feature|pricing|integration|limitation|comparison|use_case",
      "content": "The specific claim text",
      "confidence": 0.7
    }
  ]
}

If no tools are mentioned, return: {"tools": [], "claims": []}
`

const maxPromptContent = 4000

var jsonBlockRe = regexp.MustCompile(`\{[\s\S]*\}`)

// OpenAIAnalyzer extracts candidates and claims with a chat completion
// call that must answer in JSON.
type OpenAIAnalyzer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIAnalyzer creates an analyzer backed by the OpenAI API.
func NewOpenAIAnalyzer(cfg model.LLMConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	return &OpenAIAnalyzer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     chatModel,
		maxTokens: maxTokens,
	}, nil
}

// Analyze sends the mention text to the model and parses the JSON reply.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, mention *model.Mention) *Analysis {
	content := mention.RawText
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}

	prompt := fmt.Sprintf(extractionPrompt,
		content,
		mention.SourceURL,
		strings.Join(model.Categories, ", "),
		strings.Join(claimTypeNames(), ", "),
	)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   a.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return &Analysis{MentionID: mention.ID, Err: fmt.Errorf("chat completion: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return &Analysis{MentionID: mention.ID, Err: fmt.Errorf("empty response")}
	}

	return parseResponse(mention.ID, resp.Choices[0].Message.Content)
}

// parseResponse pulls the first JSON object out of the model reply and
// decodes it. Replies sometimes wrap the JSON in prose.
func parseResponse(mentionID int64, response string) *Analysis {
	block := jsonBlockRe.FindString(response)
	if block == "" {
		return &Analysis{
			MentionID:   mentionID,
			RawResponse: response,
			Err:         fmt.Errorf("no JSON found in response"),
		}
	}

	var payload struct {
		Tools  []ExtractedCandidate `json:"tools"`
		Claims []ExtractedClaim     `json:"claims"`
	}
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return &Analysis{
			MentionID:   mentionID,
			RawResponse: response,
			Err:         fmt.Errorf("parse response: %w", err),
		}
	}

	for i := range payload.Tools {
		if payload.Tools[i].Category == "" {
			payload.Tools[i].Category = model.CategoryOther
		}
	}
	for i := range payload.Claims {
		if payload.Claims[i].ClaimType == "" {
			payload.Claims[i].ClaimType = string(model.ClaimTypeFeature)
		}
		if payload.Claims[i].Confidence == 0 {
			payload.Claims[i].Confidence = 0.5
		}
	}

	return &Analysis{
		MentionID:   mentionID,
		Candidates:  payload.Tools,
		Claims:      payload.Claims,
		RawResponse: response,
	}
}

func claimTypeNames() []string {
	types := []model.ClaimType{
		model.ClaimTypeFeature,
		model.ClaimTypePricing,
		model.ClaimTypeIntegration,
		model.ClaimTypeLimitation,
		model.ClaimTypeComparison,
		model.ClaimTypeUseCase,
		model.ClaimTypeAudience,
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
