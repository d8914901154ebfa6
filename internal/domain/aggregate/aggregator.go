// Package aggregate filters orders to a date interval and summarises them.
// All arithmetic is done in integer cents; dollars appear only in the payload.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
)

// DefaultTopN is the length of the top-item lists.
const DefaultTopN = 10

// Bounds selects how interval end points are compared.
type Bounds int

const (
	// Inclusive keeps start <= t <= end.
	Inclusive Bounds = iota
	// HalfOpen keeps start <= t < end.
	HalfOpen
)

func (b Bounds) String() string {
	if b == HalfOpen {
		return "half_open"
	}
	return "inclusive"
}

// ParseBounds maps "inclusive" or "half_open" to a Bounds value.
func ParseBounds(s string) (Bounds, error) {
	switch s {
	case "", "inclusive":
		return Inclusive, nil
	case "half_open", "half-open":
		return HalfOpen, nil
	default:
		return Inclusive, fmt.Errorf("unknown interval kind %q", s)
	}
}

// Policy is the single, explicit order-filtering policy.
type Policy struct {
	RequireLocked bool
	Bounds        Bounds
}

var (
	// RangeOnly keeps every order inside [start, end], whatever its state.
	RangeOnly = Policy{RequireLocked: false, Bounds: Inclusive}
	// LockedHalfOpen keeps locked orders inside [start, end).
	LockedHalfOpen = Policy{RequireLocked: true, Bounds: HalfOpen}
	// DefaultPolicy counts only finalized sales and matches the closed
	// intervals the date-range resolver produces.
	DefaultPolicy = Policy{RequireLocked: true, Bounds: Inclusive}
)

// Keep reports whether o passes the policy for iv.
func (p Policy) Keep(o entities.Order, iv entities.DateInterval) bool {
	if p.RequireLocked && !o.IsLocked() {
		return false
	}
	t := o.CreatedTime
	if t.Before(iv.Start) {
		return false
	}
	if p.Bounds == HalfOpen {
		return t.Before(iv.End)
	}
	return !t.After(iv.End)
}

// Filter returns the orders in iv that satisfy p, preserving input order.
// Timestamps compare as instants, so mixed offsets need no normalisation.
func Filter(orders []entities.Order, iv entities.DateInterval, p Policy) []entities.Order {
	out := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		if p.Keep(o, iv) {
			out = append(out, o)
		}
	}
	return out
}

// Aggregator computes AggregatePayloads in a fixed location.
type Aggregator struct {
	loc  *time.Location
	topN int
}

// NewAggregator creates an aggregator that buckets days in loc.
func NewAggregator(loc *time.Location, topN int) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Aggregator{loc: loc, topN: topN}
}

// Aggregate summarises already-filtered orders.
func (a *Aggregator) Aggregate(orders []entities.Order) entities.AggregatePayload {
	var revenue int64
	units := newTally[float64]()
	itemRevenue := newTally[int64]()
	daily := make(map[string]entities.DailyTotals)

	for _, o := range orders {
		total := o.TotalCents()
		revenue += total

		day := o.CreatedTime.In(a.loc).Format(time.DateOnly)
		d := daily[day]
		d.RevenueCents += total
		d.Orders++
		daily[day] = d

		for _, li := range o.LineItems {
			// Unnamed lines are dropped from per-item totals, not bucketed.
			if li.Name == "" {
				continue
			}
			units.add(li.Name, li.Units())
			itemRevenue.add(li.Name, li.PriceCents())
		}
	}

	for day, d := range daily {
		d.RevenueDollars = CentsToDollars(d.RevenueCents)
		daily[day] = d
	}

	count := len(orders)
	aov := int64(0)
	if count > 0 {
		aov = floorDiv(revenue, int64(count))
	}

	topUnits := make([]entities.ItemUnits, 0, a.topN)
	for _, e := range units.top(a.topN) {
		topUnits = append(topUnits, entities.ItemUnits{Name: e.name, Units: e.value})
	}
	topRevenue := make([]entities.ItemRevenue, 0, a.topN)
	for _, e := range itemRevenue.top(a.topN) {
		topRevenue = append(topRevenue, entities.ItemRevenue{
			Name:           e.name,
			RevenueCents:   e.value,
			RevenueDollars: CentsToDollars(e.value),
		})
	}

	return entities.AggregatePayload{
		OrderCount:               count,
		RevenueTotalCents:        revenue,
		RevenueTotalDollars:      CentsToDollars(revenue),
		AverageOrderValueCents:   aov,
		AverageOrderValueDollars: CentsToDollars(aov),
		TopItemsByUnits:          topUnits,
		TopItemsByRevenueCents:   topRevenue,
		Daily:                    daily,
	}
}

// Summarize filters orders to iv with p and aggregates the survivors.
func (a *Aggregator) Summarize(orders []entities.Order, iv entities.DateInterval, p Policy) entities.AggregatePayload {
	payload := a.Aggregate(Filter(orders, iv, p))
	payload.DateRange = iv.String()
	return payload
}

// SortedDays returns the daily keys in ascending date order.
func SortedDays(daily map[string]entities.DailyTotals) []string {
	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

type number interface {
	~int64 | ~float64
}

type tallyEntry[T number] struct {
	name  string
	value T
}

// tally accumulates values by name and remembers first-seen order.
type tally[T number] struct {
	index   map[string]int
	entries []tallyEntry[T]
}

func newTally[T number]() *tally[T] {
	return &tally[T]{index: make(map[string]int)}
}

func (t *tally[T]) add(name string, v T) {
	i, ok := t.index[name]
	if !ok {
		t.index[name] = len(t.entries)
		t.entries = append(t.entries, tallyEntry[T]{name: name})
		i = len(t.entries) - 1
	}
	t.entries[i].value += v
}

// top returns the n largest entries, ties kept in first-seen order.
func (t *tally[T]) top(n int) []tallyEntry[T] {
	sorted := make([]tallyEntry[T], len(t.entries))
	copy(sorted, t.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].value > sorted[j].value
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
