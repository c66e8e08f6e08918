// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agendapro/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiClient is a Provider backed by Google's Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }

func (g *GeminiClient) Close() error { return g.client.Close() }

// session builds a chat session whose history is everything but the last message,
// which is returned separately to be sent.
func (g *GeminiClient) session(messages []models.ChatMessage) (*genai.ChatSession, genai.Text, error) {
	system, turns := splitSystem(messages)
	if len(turns) == 0 || turns[len(turns)-1].Role != models.RoleUser {
		return nil, "", errors.New("gemini: conversation must end with a user message")
	}

	// a model value per call, since the system instruction differs between turns
	model := g.client.GenerativeModel(g.modelName)
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(system, "\n\n"))},
		}
	}

	cs := model.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return cs, genai.Text(turns[len(turns)-1].Content), nil
}

func (g *GeminiClient) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	cs, prompt, err := g.session(messages)
	if err != nil {
		return "", err
	}
	resp, err := cs.SendMessage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	return responseText(resp), nil
}

func (g *GeminiClient) Stream(ctx context.Context, messages []models.ChatMessage, onDelta func(string)) (string, error) {
	cs, prompt, err := g.session(messages)
	if err != nil {
		return "", err
	}

	var acc strings.Builder
	iter := cs.SendMessageStream(ctx, prompt)
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return acc.String(), fmt.Errorf("gemini stream error: %w", err)
		}
		if delta := responseText(resp); delta != "" {
			acc.WriteString(delta)
			onDelta(delta)
		}
	}
	return acc.String(), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}
