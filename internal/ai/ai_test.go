package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/fitplan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockMealPlanFollowsMeta(t *testing.T) {
	raw, err := NewMockProvider().Generate(context.Background(), GenerateRequest{
		Schema: SchemaDailyMealPlan,
		Meta: map[string]string{
			MetaMealsPerDay: "4",
			MetaCalories:    "2000",
			MetaProtein:     "150",
			MetaCarbs:       "200",
			MetaFat:         "67",
			MetaFiber:       "28",
			MetaDate:        "2024-03-01",
		},
	})
	require.NoError(t, err)

	var plan struct {
		Date  string `json:"date"`
		Meals []struct {
			Type      string `json:"type"`
			Nutrition struct {
				Calories int `json:"calories"`
				Protein  int `json:"protein"`
				Carbs    int `json:"carbs"`
				Fat      int `json:"fat"`
			} `json:"nutrition"`
		} `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(raw, &plan))

	assert.Equal(t, "2024-03-01", plan.Date)
	require.Len(t, plan.Meals, 4)
	assert.Equal(t, "snack", plan.Meals[0].Type)
	for _, m := range plan.Meals {
		n := m.Nutrition
		assert.Equal(t, n.Protein*4+n.Carbs*4+n.Fat*9, n.Calories)
	}
}

func TestMockMealUsesRequestedType(t *testing.T) {
	raw, err := NewMockProvider().Generate(context.Background(), GenerateRequest{
		Schema: SchemaMeal,
		Meta:   map[string]string{MetaMealType: "dinner", MetaProtein: "40"},
	})
	require.NoError(t, err)

	var meal map[string]any
	require.NoError(t, json.Unmarshal(raw, &meal))
	assert.Equal(t, "dinner", meal["type"])
}

func TestMockWorkoutPlanDayCount(t *testing.T) {
	raw, err := NewMockProvider().Generate(context.Background(), GenerateRequest{
		Schema: SchemaWorkoutPlan,
		Meta:   map[string]string{MetaDaysPerWeek: "3", MetaPlanWeeks: "8"},
	})
	require.NoError(t, err)

	var out struct {
		Plan []struct {
			Day  int `json:"day"`
			Week int `json:"week"`
		} `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Plan, 24)
	last := out.Plan[len(out.Plan)-1]
	assert.Equal(t, 3, last.Day)
	assert.Equal(t, 8, last.Week)
}

func TestMockCalorieBreakdownSkipsEmptyMeals(t *testing.T) {
	raw, err := NewMockProvider().Generate(context.Background(), GenerateRequest{
		Schema: SchemaCalorieBreakdown,
		Meta:   map[string]string{"breakfast": "eggs, bread", "snack": "  "},
	})
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out, "breakfast")
	assert.NotContains(t, out, "snack")
	assert.JSONEq(t, `{"calories":300,"protein":16,"carbs":30,"fat":12}`, string(out["total"]))
}

func TestMockUnknownSchema(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), GenerateRequest{Schema: "nope"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestRateLimitedDisabled(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, mock, NewRateLimited(mock, 0, 5))
}

func TestRateLimitedCancelledContext(t *testing.T) {
	p := NewRateLimited(NewMockProvider(), 0.001, 1)

	_, err := p.Generate(context.Background(), GenerateRequest{Schema: SchemaMeal})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Generate(ctx, GenerateRequest{Schema: SchemaMeal})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestOpenAIProviderGenerate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + "```json\\n{\\\"plan\\\":[]}\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(&config.Config{
		OpenAIAPIKey:  "sk-test",
		OpenAIModel:   "gpt-4.1-mini",
		OpenAIBaseURL: srv.URL,
	})

	raw, err := p.Generate(context.Background(), GenerateRequest{
		Schema: SchemaWorkoutPlan,
		Messages: []Message{{
			Role: RoleUser,
			Content: []ContentPart{
				{Type: PartText, Text: "build a plan"},
				{Type: PartImage, ImageURL: "data:image/jpeg;base64,AAAA"},
			},
		}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan":[]}`, string(raw))

	assert.Equal(t, map[string]any{"type": "json_object"}, gotBody["response_format"])
	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	parts := messages[1].(map[string]any)["content"].([]any)
	assert.Equal(t, "image_url", parts[1].(map[string]any)["type"])
}

func TestOpenAIProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusTooManyRequests, `{}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"not json content", http.StatusOK, `{"choices":[{"message":{"content":"sorry, I cannot"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOpenAIProvider(&config.Config{OpenAIBaseURL: srv.URL})
			_, err := p.Generate(context.Background(), GenerateRequest{
				Schema:   SchemaMeal,
				Messages: []Message{TextMessage(RoleUser, "hi")},
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrGenerationFailed))
		})
	}
}

func TestNewProviderFallsBackToMock(t *testing.T) {
	var sb strings.Builder
	p := NewProvider(&config.Config{AIMode: "weird"}, logWriter{&sb})
	_, ok := p.(*MockProvider)
	assert.True(t, ok)
	assert.Contains(t, sb.String(), "provider=mock")

	limited := NewProvider(&config.Config{AIMode: ModeMock, AIRateLimitRPS: 2}, nil)
	_, ok = limited.(*RateLimited)
	assert.True(t, ok)
}

type logWriter struct{ sb *strings.Builder }

func (l logWriter) Printf(format string, v ...any) {
	l.sb.WriteString(fmt.Sprintf(format, v...))
}
