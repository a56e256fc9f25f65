package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fdg312/fitplan/internal/config"
)

type OpenAIProvider struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 120
	}
	baseURL := strings.TrimRight(cfg.OpenAIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		baseURL:     baseURL,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	requestPayload := chatCompletionsRequest{
		Model:          p.model,
		Temperature:    p.temperature,
		MaxTokens:      p.maxTokens,
		Messages:       p.buildMessages(req),
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrGenerationFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGenerationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: openai request failed with status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGenerationFailed, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai response does not contain choices", ErrGenerationFailed)
	}

	content := stripCodeFence(strings.TrimSpace(parsed.Choices[0].Message.Content))
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: %s response is not valid JSON", ErrGenerationFailed, req.Schema)
	}
	return json.RawMessage(content), nil
}

func (p *OpenAIProvider) buildMessages(req GenerateRequest) []chatMessageRequest {
	messages := make([]chatMessageRequest, 0, len(req.Messages)+1)
	messages = append(messages, chatMessageRequest{
		Role:    RoleSystem,
		Content: schemaInstructions(req.Schema),
	})
	for _, msg := range req.Messages {
		role := strings.TrimSpace(msg.Role)
		if role == "" {
			continue
		}
		messages = append(messages, chatMessageRequest{
			Role:    role,
			Content: messageContent(msg.Content),
		})
	}
	return messages
}

// messageContent collapses text-only messages into a plain string; messages
// with images use the multi-part form.
func messageContent(parts []ContentPart) any {
	hasImage := false
	for _, part := range parts {
		if part.Type == PartImage {
			hasImage = true
			break
		}
	}
	if !hasImage {
		texts := make([]string, 0, len(parts))
		for _, part := range parts {
			texts = append(texts, part.Text)
		}
		return strings.Join(texts, "\n")
	}

	out := make([]contentPartRequest, 0, len(parts))
	for _, part := range parts {
		if part.Type == PartImage {
			out = append(out, contentPartRequest{Type: "image_url", ImageURL: &imageURLRequest{URL: part.ImageURL}})
			continue
		}
		out = append(out, contentPartRequest{Type: "text", Text: part.Text})
	}
	return out
}

func schemaInstructions(schema Schema) string {
	base := "Respond with a single JSON object only, no prose. All numbers are plain JSON numbers. "
	switch schema {
	case SchemaDailyMealPlan:
		return base + `Shape: {"id":string,"date":string,"meals":[MEAL],"totalNutrition":NUTRITION}. ` + mealShape
	case SchemaMeal:
		return base + "Shape: MEAL. " + mealShape
	case SchemaWorkoutPlan:
		return base + `Shape: {"plan":[{"day":int,"week":int,"dayName":string,"dayNameAr":string,"focus":string,"focusAr":string,` +
			`"weeklyIntensity":string,"exercises":[{"name":string,"nameAr":string,"sets":int,"reps":string,"restTime":string,` +
			`"videoUrl":string,"notes":string,"injuryWarnings":[string]}]}]}.`
	case SchemaCalorieBreakdown:
		return base + `Shape: {"breakfast":MEAL,"lunch":MEAL,"dinner":MEAL,"snack":MEAL,"total":MACROS,"notes":string} ` +
			`where MEAL is {"items":[{"name":string,"quantity":number,"unit":string,"calories":number,"protein":number,"carbs":number,"fat":number}],"totals":MACROS} ` +
			`and MACROS is {"calories":number,"protein":number,"carbs":number,"fat":number}. Omit meals that were not described.`
	default:
		return base
	}
}

const mealShape = `MEAL is {"id":string,"name":string,"type":"breakfast"|"lunch"|"dinner"|"snack","ingredients":[string],` +
	`"instructions":[string],"nutrition":NUTRITION,"prepTime":int,"servings":int}; ` +
	`NUTRITION is {"calories":int,"protein":int,"carbs":int,"fat":int,"fiber":int}. ` +
	`calories must equal protein*4 + carbs*4 + fat*9.`

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

type chatCompletionsRequest struct {
	Model          string               `json:"model"`
	Messages       []chatMessageRequest `json:"messages"`
	Temperature    float64              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens"`
	ResponseFormat *responseFormat      `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessageRequest struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPartRequest struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	ImageURL *imageURLRequest `json:"image_url,omitempty"`
}

type imageURLRequest struct {
	URL string `json:"url"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
