// Package daterange maps free-text questions to concrete date intervals.
// Resolution is an ordered, first-match-wins rule list over the lower-cased
// question, followed by a generic date parse and a 7-day fallback.
// It never fails: every input yields a usable interval.
package daterange

import (
	"strings"
	"time"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
)

// FallbackWindow is the span used when nothing in the question names a date.
const FallbackWindow = 7 * 24 * time.Hour

// DateParser finds a single date mentioned somewhere in free text.
type DateParser interface {
	// ParseDate returns the date found in text relative to now, ok=false when none.
	ParseDate(text string, now time.Time) (date time.Time, ok bool)
}

type rule struct {
	name    string
	match   func(text string) bool
	resolve func(now time.Time) entities.DateInterval
}

// Resolver resolves question text into a DateInterval in a fixed location.
type Resolver struct {
	loc    *time.Location
	parser DateParser
	rules  []rule
}

// NewResolver creates a resolver for loc. A nil parser disables the generic
// parse step so anything not matched by a rule falls back to the last 7 days.
func NewResolver(loc *time.Location, parser DateParser) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	r := &Resolver{loc: loc, parser: parser}
	r.rules = []rule{
		{name: "yesterday", match: contains("yesterday"), resolve: r.yesterday},
		{name: "last week", match: contains("last week"), resolve: r.lastWeek},
		{name: "this week", match: contains("this week", "current week"), resolve: r.thisWeek},
		{name: "today", match: contains("today"), resolve: r.today},
		{name: "this month", match: contains("this month"), resolve: r.thisMonth},
	}
	return r
}

// Location returns the zone intervals are resolved in.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Resolve maps question to an interval relative to now.
func (r *Resolver) Resolve(question string, now time.Time) entities.DateInterval {
	interval, _ := r.ResolveWithRule(question, now)
	return interval
}

// ResolveWithRule is Resolve plus the name of the rule that matched:
// a rule name, "parsed" or "fallback".
func (r *Resolver) ResolveWithRule(question string, now time.Time) (entities.DateInterval, string) {
	now = now.In(r.loc)
	text := strings.ToLower(strings.TrimSpace(question))

	for _, rl := range r.rules {
		if rl.match(text) {
			return rl.resolve(now), rl.name
		}
	}

	if r.parser != nil && text != "" {
		if date, ok := r.parser.ParseDate(text, now); ok {
			date = date.In(r.loc)
			return entities.DateInterval{Start: r.startOfDay(date), End: r.endOfDay(date)}, "parsed"
		}
	}

	return entities.DateInterval{Start: now.Add(-FallbackWindow), End: now}, "fallback"
}

func (r *Resolver) yesterday(now time.Time) entities.DateInterval {
	day := r.addDays(now, -1)
	return entities.DateInterval{Start: r.startOfDay(day), End: r.endOfDay(day)}
}

func (r *Resolver) lastWeek(now time.Time) entities.DateInterval {
	thisMonday := r.addDays(now, -mondayIndex(now))
	lastMonday := r.addDays(thisMonday, -7)
	lastSunday := r.addDays(lastMonday, 6)
	return entities.DateInterval{Start: r.startOfDay(lastMonday), End: r.endOfDay(lastSunday)}
}

// thisWeek ends at now: the current week is still in progress.
func (r *Resolver) thisWeek(now time.Time) entities.DateInterval {
	thisMonday := r.addDays(now, -mondayIndex(now))
	return entities.DateInterval{Start: r.startOfDay(thisMonday), End: now}
}

func (r *Resolver) today(now time.Time) entities.DateInterval {
	return entities.DateInterval{Start: r.startOfDay(now), End: now}
}

func (r *Resolver) thisMonth(now time.Time) entities.DateInterval {
	y, m, _ := now.Date()
	return entities.DateInterval{Start: time.Date(y, m, 1, 0, 0, 0, 0, r.loc), End: now}
}

// addDays moves by calendar days, so DST shifts never change the date.
func (r *Resolver) addDays(t time.Time, days int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 12, 0, 0, 0, r.loc)
}

func (r *Resolver) startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.loc)
}

// endOfDay is 23:59:59.999999, microsecond precision.
func (r *Resolver) endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999000, r.loc)
}

// mondayIndex returns the weekday with Monday = 0 and Sunday = 6.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func contains(phrases ...string) func(string) bool {
	return func(text string) bool {
		for _, p := range phrases {
			if strings.Contains(text, p) {
				return true
			}
		}
		return false
	}
}
