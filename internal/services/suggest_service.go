package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/curelink/curelink-backend/internal/config"
)

var ErrAINotConfigured = errors.New("AI suggestion provider is not configured")

const maxSuggestions = 7

const suggestSystemPrompt = `You are a health coach for a patient self-care app.
Given the patient's goal, suggest short daily self-care tasks.
Return a JSON array of at most 7 task names, each under 60 characters.
Example: ["Drink 8 glasses of water", "Walk for 30 minutes"]
Return ONLY the JSON array, no extra text.`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SuggestService turns a free-text health goal into a flat list of
// task names via an OpenAI-compatible chat completions endpoint.
type SuggestService struct {
	cfg    *config.Config
	client *http.Client
}

func NewSuggestService(cfg *config.Config) *SuggestService {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SuggestService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *SuggestService) SuggestTasks(goal string) ([]string, error) {
	if s.cfg.AIAPIKey == "" {
		return nil, ErrAINotConfigured
	}
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, errors.New("goal is required")
	}

	reqBody := chatRequest{
		Model: s.cfg.AIModel,
		Messages: []chatMessage{
			{Role: "system", Content: suggestSystemPrompt},
			{Role: "user", Content: goal},
		},
		Temperature: 0.7,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.AIAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.AIAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("no response from AI")
	}

	return parseSuggestions(completion.Choices[0].Message.Content)
}

// parseSuggestions extracts the task list from the model output,
// tolerating markdown code fences and surrounding prose.
func parseSuggestions(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var tasks []string
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		start := strings.Index(content, "[")
		end := strings.LastIndex(content, "]")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to parse suggestions: %w", err)
		}
		if err2 := json.Unmarshal([]byte(content[start:end+1]), &tasks); err2 != nil {
			return nil, fmt.Errorf("failed to parse suggestions: %w", err2)
		}
	}

	cleaned := make([]string, 0, maxSuggestions)
	for _, t := range tasks {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		cleaned = append(cleaned, t)
		if len(cleaned) == maxSuggestions {
			break
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("AI returned no usable suggestions")
	}
	return cleaned, nil
}
