package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubParser returns a fixed date for any input.
type stubParser struct {
	date time.Time
	ok   bool
}

func (s stubParser) ParseDate(text string, now time.Time) (time.Time, bool) {
	return s.date, s.ok
}

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("tzdata not available")
	}
	return loc
}

// 2024-03-13 is a Wednesday.
func wednesday(loc *time.Location) time.Time {
	return time.Date(2024, 3, 13, 15, 30, 45, 123000, loc)
}

func TestResolve_Yesterday(t *testing.T) {
	loc := kolkata(t)
	r := NewResolver(loc, nil)
	now := wednesday(loc)

	iv, name := r.ResolveWithRule("What were our best-selling items yesterday?", now)

	assert.Equal(t, "yesterday", name)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, loc), iv.Start)
	assert.Equal(t, time.Date(2024, 3, 12, 23, 59, 59, 999999000, loc), iv.End)
	assert.Equal(t, 24*time.Hour-time.Microsecond, iv.Duration())
}

func TestResolve_YesterdayAcrossMonthBoundary(t *testing.T) {
	r := NewResolver(time.UTC, nil)
	now := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)

	iv := r.Resolve("YESTERDAY", now)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, 29, iv.End.Day())
}

func TestResolve_LastWeek(t *testing.T) {
	loc := kolkata(t)
	r := NewResolver(loc, nil)

	iv := r.Resolve("Show me the sales trend for last week", wednesday(loc))

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, loc), iv.Start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999999000, loc), iv.End)
	assert.Equal(t, time.Monday, iv.Start.Weekday())
	assert.Equal(t, time.Sunday, iv.End.Weekday())
	assert.Equal(t, 7*24*time.Hour-time.Microsecond, iv.Duration())
}

func TestResolve_LastWeekOnEveryWeekday(t *testing.T) {
	r := NewResolver(time.UTC, nil)
	base := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC) // Monday

	for i := 0; i < 7; i++ {
		now := base.AddDate(0, 0, i)
		iv := r.Resolve("last week", now)

		assert.Equal(t, time.Monday, iv.Start.Weekday(), "now=%s", now)
		assert.Equal(t, time.Sunday, iv.End.Weekday(), "now=%s", now)
		assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), iv.Start, "now=%s", now)
	}
}

func TestResolve_ThisWeekEndsNow(t *testing.T) {
	loc := kolkata(t)
	r := NewResolver(loc, nil)
	now := wednesday(loc)

	for _, q := range []string{"revenue this week", "orders in the current week"} {
		iv, name := r.ResolveWithRule(q, now)

		assert.Equal(t, "this week", name)
		assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), iv.Start)
		assert.True(t, iv.End.Equal(now))
		assert.False(t, iv.Start.After(now))
	}
}

func TestResolve_ThisWeekOnSunday(t *testing.T) {
	r := NewResolver(time.UTC, nil)
	now := time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC) // Sunday

	iv := r.Resolve("this week", now)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), iv.Start)
}

func TestResolve_Today(t *testing.T) {
	loc := kolkata(t)
	r := NewResolver(loc, nil)
	now := wednesday(loc)

	iv := r.Resolve("  How much revenue did we make TODAY?  ", now)

	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, loc), iv.Start)
	assert.True(t, iv.End.Equal(now))
}

func TestResolve_ThisMonth(t *testing.T) {
	r := NewResolver(time.UTC, nil)
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	iv, name := r.ResolveWithRule("What's the average order value this month?", now)

	assert.Equal(t, "this month", name)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), iv.Start)
	assert.True(t, iv.End.Equal(now))
}

func TestResolve_RuleOrder(t *testing.T) {
	r := NewResolver(time.UTC, stubParser{ok: true, date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	_, name := r.ResolveWithRule("yesterday vs last week", now)
	assert.Equal(t, "yesterday", name)

	_, name = r.ResolveWithRule("last week and this week", now)
	assert.Equal(t, "last week", name)

	_, name = r.ResolveWithRule("today and this week", now)
	assert.Equal(t, "this week", name)
}

func TestResolve_GenericParseExpandsToFullDay(t *testing.T) {
	loc := kolkata(t)
	parsed := time.Date(2024, 11, 3, 14, 22, 0, 0, loc)
	r := NewResolver(loc, stubParser{date: parsed, ok: true})

	iv, name := r.ResolveWithRule("sales on Nov 3", wednesday(loc))

	assert.Equal(t, "parsed", name)
	assert.Equal(t, time.Date(2024, 11, 3, 0, 0, 0, 0, loc), iv.Start)
	assert.Equal(t, time.Date(2024, 11, 3, 23, 59, 59, 999999000, loc), iv.End)
}

func TestResolve_FallbackSevenDays(t *testing.T) {
	loc := kolkata(t)
	now := wednesday(loc)

	for _, r := range []*Resolver{
		NewResolver(loc, nil),
		NewResolver(loc, stubParser{ok: false}),
	} {
		iv, name := r.ResolveWithRule("what sold best?", now)

		assert.Equal(t, "fallback", name)
		assert.True(t, iv.End.Equal(now))
		assert.Equal(t, FallbackWindow, iv.Duration())
	}
}

func TestResolve_EmptyInputNeverFails(t *testing.T) {
	r := NewResolver(time.UTC, stubParser{ok: true, date: time.Now()})
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	iv, name := r.ResolveWithRule("   ", now)

	assert.Equal(t, "fallback", name)
	assert.False(t, iv.Start.After(iv.End))
}

func TestResolve_ConvertsNowToLocation(t *testing.T) {
	loc := kolkata(t)
	r := NewResolver(loc, nil)
	// 20:00 UTC on the 12th is already the 13th in Kolkata (+05:30).
	now := time.Date(2024, 3, 12, 20, 0, 0, 0, time.UTC)

	iv := r.Resolve("today", now)

	require.Equal(t, loc, iv.Start.Location())
	assert.Equal(t, 13, iv.Start.Day())
}

func TestNewResolver_NilLocationDefaultsToUTC(t *testing.T) {
	r := NewResolver(nil, nil)
	assert.Equal(t, time.UTC, r.Location())
}
