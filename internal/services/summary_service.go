package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/halewood/onboarding-api/internal/models"
)

// SummaryService turns a submitted questionnaire into a short onboarding
// brief for the account team. Optional: only wired when an API key is set.
type SummaryService struct {
	client *openai.Client
}

func NewSummaryService(apiKey string) *SummaryService {
	return &SummaryService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateBrief summarizes the questionnaire responses into a few paragraphs.
func (s *SummaryService) GenerateBrief(ctx context.Context, companyName string, responses []models.QuestionnaireResponse) (string, error) {
	var sb strings.Builder
	for _, response := range responses {
		fmt.Fprintf(&sb, "Section %q:\n", response.SectionKey)
		for key, value := range response.Responses {
			if value == nil {
				continue
			}
			fmt.Fprintf(&sb, "  %s: %v\n", key, value)
		}
	}

	prompt := fmt.Sprintf(`You are an onboarding assistant for a marketing agency. Write a short onboarding brief (3-4 paragraphs, plain text) for the account team about the client below, based on their intake questionnaire answers. Focus on who the client is, what services they selected and what the team should prepare first. Do not invent facts that are not in the answers.

Client: %s

Questionnaire answers:
%s`, companyName, sb.String())

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.4,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate brief: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
