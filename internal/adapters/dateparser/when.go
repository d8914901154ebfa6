package dateparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"go.uber.org/zap"
)

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	isoDate      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDate    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	dayMonthDate = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?(?:\s+of)?\s+(` + monthNames + `)\.?(?:,?\s+(\d{4}))?\b`)
	monthDayDate = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	weekdayName  = regexp.MustCompile(`(?i)\b(last\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	// when matches are only trusted for relative day phrases; its month and
	// hour rules fire on words like "may" and on bare numbers.
	relativeDay = regexp.MustCompile(`(?i)\bago\b|\btomorrow\b|\btonight\b|\bin\s+(?:\d+|an?|one|two|three|four|five|six|seven)\s+(?:days?|weeks?)\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

// WhenParser implements daterange.DateParser. Explicit calendar dates and
// weekday names are matched first and resolve towards the past; relative
// day phrases ("3 days ago", "tomorrow") go through olebedev/when.
type WhenParser struct {
	parser *when.Parser
	log    *zap.Logger
}

func NewWhenParser(log *zap.Logger) *WhenParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	if log == nil {
		log = zap.NewNop()
	}
	return &WhenParser{parser: w, log: log}
}

// ParseDate returns the single date the text names, in now's location.
func (p *WhenParser) ParseDate(text string, now time.Time) (time.Time, bool) {
	if date, match, ok := explicitDate(text, now); ok {
		p.log.Debug("date parsed", zap.String("match", match), zap.Time("date", date))
		return date, true
	}

	r, err := p.parser.Parse(text, now)
	if err != nil {
		p.log.Debug("date parse failed", zap.String("text", text), zap.Error(err))
		return time.Time{}, false
	}
	if r == nil {
		return time.Time{}, false
	}
	if !relativeDay.MatchString(r.Text) {
		p.log.Debug("date match ignored", zap.String("match", r.Text))
		return time.Time{}, false
	}

	p.log.Debug("date parsed", zap.String("match", r.Text), zap.Time("date", r.Time))
	return r.Time.In(now.Location()), true
}

func explicitDate(text string, now time.Time) (time.Time, string, bool) {
	loc := now.Location()

	if m := isoDate.FindStringSubmatch(text); m != nil {
		if d, ok := calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), loc); ok {
			return d, m[0], true
		}
	}

	// US order, month first.
	if m := slashDate.FindStringSubmatch(text); m != nil {
		if d, ok := calendarDate(atoi(m[3]), atoi(m[1]), atoi(m[2]), loc); ok {
			return d, m[0], true
		}
	}

	if m := dayMonthDate.FindStringSubmatch(text); m != nil {
		if d, ok := namedMonthDate(m[3], m[2], m[1], now); ok {
			return d, m[0], true
		}
	}

	if m := monthDayDate.FindStringSubmatch(text); m != nil {
		if d, ok := namedMonthDate(m[3], m[1], m[2], now); ok {
			return d, m[0], true
		}
	}

	if m := weekdayName.FindStringSubmatch(text); m != nil {
		return pastWeekday(now, weekdays[strings.ToLower(m[2])], m[1] != ""), m[0], true
	}

	return time.Time{}, "", false
}

// namedMonthDate builds a date from a month name. Without a year the most
// recent occurrence not after now is used.
func namedMonthDate(year, month, day string, now time.Time) (time.Time, bool) {
	mon, ok := monthNumber(month)
	if !ok {
		return time.Time{}, false
	}
	if year != "" {
		return calendarDate(atoi(year), mon, atoi(day), now.Location())
	}

	d, ok := calendarDate(now.Year(), mon, atoi(day), now.Location())
	if !ok {
		return time.Time{}, false
	}
	if d.After(now) {
		return calendarDate(now.Year()-1, mon, atoi(day), now.Location())
	}
	return d, true
}

// pastWeekday returns the latest day with weekday wd that is not after
// now's date. strict excludes today itself ("last friday" on a Friday).
func pastWeekday(now time.Time, wd time.Weekday, strict bool) time.Time {
	back := (int(now.Weekday()) - int(wd) + 7) % 7
	if back == 0 && strict {
		back = 7
	}
	y, m, d := now.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, now.Location())
}

// calendarDate rejects out-of-range parts instead of letting time.Date
// normalise them (2024-02-31 is not March 2).
func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func monthNumber(name string) (int, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	for i, m := range []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"} {
		if name[:3] == m {
			return i + 1, true
		}
	}
	return 0, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
