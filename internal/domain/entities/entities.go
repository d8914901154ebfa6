// Package entities contains core business entities.
// These are pure domain objects with no knowledge of the sales API, the cache or the LLM.
package entities

import (
	"fmt"
	"time"
)

// OrderStateLocked marks a finalized sale eligible for revenue calculations.
const OrderStateLocked = "locked"

// Order is one purchase transaction from the sales API.
// Money fields are integer cents.
type Order struct {
	MerchantID  string
	OrderID     string
	OrderNumber string
	CreatedTime time.Time
	State       string
	Currency    string
	Total       *int64 // nil when the source omitted it
	LineItems   []LineItem
}

// TotalCents returns the order total, treating an absent total as zero.
func (o Order) TotalCents() int64 {
	if o.Total == nil {
		return 0
	}
	return *o.Total
}

// IsLocked reports whether the order is a finalized sale.
func (o Order) IsLocked() bool {
	return o.State == OrderStateLocked
}

// LineItem is one product line within an Order.
type LineItem struct {
	LineItemID string
	Name       string // empty when the source omitted it
	ItemCode   string
	Price      *int64   // cents
	UnitQty    *float64 // nil when the source omitted it
}

// PriceCents returns the line price, zero when absent.
func (li LineItem) PriceCents() int64 {
	if li.Price == nil {
		return 0
	}
	return *li.Price
}

// Units returns the quantity counted for this line: 1 when absent.
func (li LineItem) Units() float64 {
	if li.UnitQty == nil {
		return 1
	}
	return *li.UnitQty
}

// DateInterval is a resolved span of timezone-aware instants.
// Produced fresh per query and never mutated.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// String formats the interval as "YYYY-MM-DD to YYYY-MM-DD".
func (d DateInterval) String() string {
	return fmt.Sprintf("%s to %s", d.Start.Format(time.DateOnly), d.End.Format(time.DateOnly))
}

// Duration returns End - Start.
func (d DateInterval) Duration() time.Duration {
	return d.End.Sub(d.Start)
}

// ItemUnits is a per-item unit count.
type ItemUnits struct {
	Name  string  `json:"name"`
	Units float64 `json:"units"`
}

// ItemRevenue is a per-item revenue total.
type ItemRevenue struct {
	Name           string  `json:"name"`
	RevenueCents   int64   `json:"revenue_cents"`
	RevenueDollars float64 `json:"revenue_dollars"`
}

// DailyTotals is the revenue and order count of one calendar day.
type DailyTotals struct {
	RevenueCents   int64   `json:"revenue_cents"`
	RevenueDollars float64 `json:"revenue_dollars"`
	Orders         int     `json:"orders"`
}

// AggregatePayload is the read-only summary handed to the text generator.
type AggregatePayload struct {
	DateRange                string                 `json:"date_range"`
	OrderCount               int                    `json:"order_count"`
	RevenueTotalCents        int64                  `json:"revenue_total_cents"`
	RevenueTotalDollars      float64                `json:"revenue_total_dollars"`
	AverageOrderValueCents   int64                  `json:"average_order_value_cents"`
	AverageOrderValueDollars float64                `json:"average_order_value_dollars"`
	TopItemsByUnits          []ItemUnits            `json:"top_items_by_units"`
	TopItemsByRevenueCents   []ItemRevenue          `json:"top_items_by_revenue_cents"`
	Daily                    map[string]DailyTotals `json:"daily"` // keyed by YYYY-MM-DD
}

// Document is one grounding text in the retrieval corpus.
type Document struct {
	ID   string
	Text string
}

// Snippet is a retrieved document with its similarity score in [0,1].
type Snippet struct {
	DocumentID string
	Text       string
	Score      float64
}

// ChatRequest is a question with its per-request options.
type ChatRequest struct {
	Question     string
	ForceRefresh bool
	TopK         int // 0 means the configured default
}

// ChatResponse is the composed answer and everything that fed it.
type ChatResponse struct {
	Answer   string
	Interval DateInterval
	Payload  AggregatePayload
	Snippets []Snippet
}
