package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"civicpulse-be/models"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier_FixedOrder(t *testing.T) {
	kc := KeywordClassifier{}

	tests := []struct {
		name        string
		title       string
		description string
		category    string
		priority    models.Priority
	}{
		{
			name:        "pothole maps to Road at MEDIUM",
			title:       "Large pothole on Main St",
			description: "car damaged",
			category:    "Road",
			priority:    models.PriorityMedium,
		},
		{
			name:        "fire maps to Fire at CRITICAL",
			title:       "Warehouse burning",
			description: "fire spreading fast",
			category:    "Fire",
			priority:    models.PriorityCritical,
		},
		{
			name:        "accident without fire maps to Medical at CRITICAL",
			title:       "Bad accident at the crossing",
			description: "people hurt",
			category:    "Medical",
			priority:    models.PriorityCritical,
		},
		{
			name:        "water leak maps to Water at HIGH",
			title:       "Burst pipe",
			description: "water leak flooding the street",
			category:    "Water",
			priority:    models.PriorityHigh,
		},
		{
			name:        "power outage maps to Electricity at HIGH",
			title:       "No power since morning",
			description: "electricity is out on our block",
			category:    "Electricity",
			priority:    models.PriorityHigh,
		},
		{
			name:        "trash maps to Garbage at LOW",
			title:       "Overflowing bins",
			description: "trash not collected for a week",
			category:    "Garbage",
			priority:    models.PriorityLow,
		},
		{
			name:        "unmatched text maps to Other at MEDIUM",
			title:       "Broken bench",
			description: "the park bench is split in two",
			category:    "Other",
			priority:    models.PriorityMedium,
		},
		{
			name:        "empty input maps to Other at MEDIUM",
			title:       "",
			description: "",
			category:    "Other",
			priority:    models.PriorityMedium,
		},
		{
			// fire terms are checked before water terms
			name:        "fire wins over water",
			title:       "fire near the water plant",
			description: "pipe room ablaze",
			category:    "Fire",
			priority:    models.PriorityCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := kc.Categorize(context.Background(), tt.title, tt.description)
			assert.Equal(t, tt.category, result.Category)
			assert.Equal(t, tt.priority, result.Priority)
			assert.Equal(t, 0.85, result.Confidence)
		})
	}
}

func TestKeywordClassifier_Deterministic(t *testing.T) {
	kc := KeywordClassifier{}

	first := kc.Categorize(context.Background(), "streetlight pole down", "power line touching the ground")
	for i := 0; i < 10; i++ {
		again := kc.Categorize(context.Background(), "streetlight pole down", "power line touching the ground")
		assert.Equal(t, first, again)
	}
}

type fakeCompleter struct {
	content string
	err     error
}

func (f fakeCompleter) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestAIClassifier_UsesBackendResult(t *testing.T) {
	ai := &AIClassifier{
		client:  fakeCompleter{content: `{"category":"Streetlight","priority":"LOW","confidence":0.92}`},
		timeout: time.Second,
	}

	result := ai.Categorize(context.Background(), "lamp out", "dark corner at night")
	assert.Equal(t, "Streetlight", result.Category)
	assert.Equal(t, models.PriorityLow, result.Priority)
	assert.Equal(t, 0.92, result.Confidence)
}

func TestAIClassifier_FallsBackOnError(t *testing.T) {
	ai := &AIClassifier{
		client:  fakeCompleter{err: errors.New("backend unavailable")},
		timeout: time.Second,
	}

	result := ai.Categorize(context.Background(), "Large pothole on Main St", "car damaged")
	assert.Equal(t, "Road", result.Category)
	assert.Equal(t, models.PriorityMedium, result.Priority)
	assert.Equal(t, 0.85, result.Confidence)
}

func TestAIClassifier_FallsBackOnMalformedJSON(t *testing.T) {
	ai := &AIClassifier{
		client:  fakeCompleter{content: "not json at all"},
		timeout: time.Second,
	}

	result := ai.Categorize(context.Background(), "fire in the market", "fire spreading fast")
	assert.Equal(t, "Fire", result.Category)
	assert.Equal(t, models.PriorityCritical, result.Priority)
}

func TestAIClassifier_FallsBackOnUnknownValues(t *testing.T) {
	ai := &AIClassifier{
		client:  fakeCompleter{content: `{"category":"Aliens","priority":"URGENT","confidence":0.99}`},
		timeout: time.Second,
	}

	result := ai.Categorize(context.Background(), "water leak", "pipe burst")
	assert.Equal(t, "Water", result.Category)
	assert.Equal(t, models.PriorityHigh, result.Priority)
	assert.Equal(t, 0.85, result.Confidence)
}
