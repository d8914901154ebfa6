package retrieval

import "github.com/0xcro3dile/salesinsight-go/internal/domain/entities"

// SalesDocs returns the fixed grounding corpus describing the sales API,
// its fields, example questions, evaluation criteria and money formatting.
func SalesDocs() []entities.Document {
	return []entities.Document{
		{
			ID: "endpoint",
			Text: `Sales API Endpoint:
GET https://sandbox.mkonnekt.net/ch-portal/api/v1/orders/recent
No auth required. Returns recent orders.
`,
		},
		{
			ID: "key_fields",
			Text: `Key Fields:
- total: integer cents (e.g., 906 == $9.06)
- state: "locked" (completed) or "open" (in progress) — use locked for sales
- createdTime: ISO8601 timestamp
- lineItems[].name: product name
- lineItems[].price: item price in cents
- lineItems[].itemCode: UPC
`,
		},
		{
			ID: "examples",
			Text: `Example questions & outputs:
- "What were our best-selling items yesterday?"
- "Show me the sales trend for last week"
- "How much revenue did we make today?"
- "What's the average order value this month?"
`,
		},
		{
			ID: "eval",
			Text: `Evaluation:
- Accurate LLM responses
- Date/time handling
- Edge cases
- Good error messages
- Caching is a bonus
- Multi-turn is a bonus
`,
		},
		{
			ID: "money_rules",
			Text: `Money Formatting Rules:
- Convert cents to dollars with 2 decimals.
- Summaries should show both units when useful, e.g., $12.34.
`,
		},
	}
}
