package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// AICategorizer classifies a transaction description through the Anthropic
// API. Treated as a black box: any failure surfaces as an error and the
// caller falls back to its default category.
type AICategorizer struct {
	apiKey string
	client *http.Client
}

func NewAICategorizer() *AICategorizer {
	return &AICategorizer{
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

var suggestionCategories = []string{
	"Alimentação", "Transporte", "Moradia", "Saúde", "Educação", "Lazer",
	"Internet e Telefonia", "Tarifas Bancárias", "Vestuário", "Salário",
	"Investimentos", "Outros",
}

// PredictCategory asks the model to classify a description into one of the
// fixed categories. Answers must be exactly one category name.
func (s *AICategorizer) PredictCategory(ctx context.Context, description string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	prompt := fmt.Sprintf(`Você é um assistente de finanças pessoais. Analise a descrição: %q.
Classifique-a ESTRITAMENTE em uma única destas categorias:
%s

Responda APENAS com o nome da categoria. Sem frases.`,
		description, strings.Join(suggestionCategories, ", "))

	reqBody := anthropicRequest{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 24,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("anthropic error %d: %s", resp.StatusCode, string(body))
	}

	var result anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Content) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	category := strings.TrimSpace(result.Content[0].Text)
	for _, known := range suggestionCategories {
		if strings.EqualFold(category, known) {
			return known, nil
		}
	}
	return fallbackCategory, nil
}
