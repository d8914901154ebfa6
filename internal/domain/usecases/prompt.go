package usecases

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
)

// SystemPrompt frames the model as a grounded sales analyst.
const SystemPrompt = `You are a Sales Insight Agent.
Use the provided context about the Sales API and schema to ensure accurate, grounded answers.
Always:
- treat 'total' and line item 'price' as cents;
- filter only orders with state = "locked" when computing sales;
- convert cents -> dollars (two decimals) in user-facing text;
- clearly state the exact date range you analyzed in YYYY-MM-DD format;
- if the timeframe yields no orders, say so gracefully and suggest another range.
Be concise, correct, and helpful.`

// AnalystInstructions opens every user message.
const AnalystInstructions = `You are given:
1) A natural language user question.
2) A date range you must analyze (start_dt..end_dt, timezone-aware).
3) A compact JSON summary of orders (filtered and aggregated).
4) RAG context snippets from API docs/examples.

Task:
- Understand the question intent (best-sellers, revenue, trend, AOV, etc.).
- Use the JSON data to compute the answer. If something cannot be computed, say it and explain why.
- Provide crisp bullet points or short paragraphs.
- Include totals and, when relevant, top-k lists with quantities and revenue.

Output ONLY the final user-facing answer (no chain-of-thought).`

// buildPrompt composes the user message sent to the text generator.
func buildPrompt(question string, interval entities.DateInterval, payload entities.AggregatePayload, snippets []entities.Snippet) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(AnalystInstructions)
	sb.WriteString("\n\nUser Question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nDate Range:\n")
	sb.WriteString(interval.String())
	sb.WriteString("\n\nData (JSON):\n```json\n")
	sb.Write(data)
	sb.WriteString("\n```\n")
	sb.WriteString(formatContext(snippets))
	return sb.String(), nil
}

// formatContext joins snippet texts under a RAG CONTEXT header, empty when none.
func formatContext(snippets []entities.Snippet) string {
	if len(snippets) == 0 {
		return ""
	}
	texts := make([]string, len(snippets))
	for i, s := range snippets {
		texts[i] = s.Text
	}
	return "\n--- RAG CONTEXT ---\n" + strings.Join(texts, "\n\n")
}
