// Package services holds the pluggable capabilities the lifecycle
// controllers depend on: categorization, media ingestion and outbound
// notifications. Each capability has a real provider and a logging
// fallback, selected once from the environment at startup.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"civicpulse-be/models"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Classification is the result of categorizing an issue report.
type Classification struct {
	Category   string          `json:"category"`
	Priority   models.Priority `json:"priority"`
	Confidence float64         `json:"confidence"`
}

// Classifier assigns a category, priority and confidence to a new
// issue. Implementations never fail; any internal error collapses to
// the keyword fallback.
type Classifier interface {
	Categorize(ctx context.Context, title, description string) Classification
}

// NewClassifierFromEnv returns the AI-backed classifier when
// OPENAI_API_KEY is set, the deterministic keyword classifier otherwise.
func NewClassifierFromEnv() Classifier {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		logrus.Info("OPENAI_API_KEY not set, using keyword classifier")
		return KeywordClassifier{}
	}
	return &AIClassifier{
		client:  openai.NewClient(key),
		timeout: 10 * time.Second,
	}
}

// KeywordClassifier is the deterministic fallback: the lower-cased
// title+description is scanned for keyword sets in a fixed priority
// order, so identical input always yields the identical result.
type KeywordClassifier struct{}

func (KeywordClassifier) Categorize(_ context.Context, title, description string) Classification {
	text := strings.ToLower(title + " " + description)

	category := "Other"
	priority := models.PriorityMedium

	switch {
	case containsAny(text, "fire", "accident", "blood", "collapse"):
		if strings.Contains(text, "fire") {
			category = "Fire"
		} else {
			category = "Medical"
		}
		priority = models.PriorityCritical
	case containsAny(text, "water", "leak", "pipe"):
		category = "Water"
		priority = models.PriorityHigh
	case containsAny(text, "road", "pothole", "traffic"):
		category = "Road"
		priority = models.PriorityMedium
	case containsAny(text, "electricity", "power", "pole"):
		category = "Electricity"
		priority = models.PriorityHigh
	case containsAny(text, "garbage", "trash", "waste"):
		category = "Garbage"
		priority = models.PriorityLow
	}

	return Classification{Category: category, Priority: priority, Confidence: 0.85}
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// chatCompleter is the slice of the OpenAI client the classifier uses;
// tests substitute a fake.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AIClassifier delegates to a chat-completion model with a structured
// JSON response. Any failure, timeout or malformed reply falls back to
// the keyword classifier.
type AIClassifier struct {
	client   chatCompleter
	fallback KeywordClassifier
	timeout  time.Duration
}

func (a *AIClassifier) Categorize(ctx context.Context, title, description string) Classification {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`Analyze the following civic issue report and categorize it.
Title: %s
Description: %s

Categories: Road, Water, Electricity, Crime, Medical, Fire, Garbage, Streetlight, Other.
Priorities: LOW, MEDIUM, HIGH, CRITICAL.

Return JSON format: { "category": "...", "priority": "...", "confidence": 0.0-1.0 }`, title, description)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logrus.WithError(err).Warn("AI categorization failed, falling back to keywords")
		return a.fallback.Categorize(ctx, title, description)
	}

	if len(resp.Choices) == 0 {
		logrus.Warn("AI categorization returned no choices, falling back to keywords")
		return a.fallback.Categorize(ctx, title, description)
	}

	var result Classification
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		logrus.WithError(err).Warn("AI categorization returned malformed JSON, falling back to keywords")
		return a.fallback.Categorize(ctx, title, description)
	}

	if !models.ValidCategory(result.Category) || !models.ValidPriority(result.Priority) {
		logrus.WithFields(logrus.Fields{
			"category": result.Category,
			"priority": result.Priority,
		}).Warn("AI categorization outside allowed values, falling back to keywords")
		return a.fallback.Categorize(ctx, title, description)
	}

	return result
}
