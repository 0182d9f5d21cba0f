package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// PeriodKind names the supported calendar windows.
type PeriodKind string

const (
	PeriodToday     PeriodKind = "today"
	PeriodThisWeek  PeriodKind = "week"
	PeriodThisMonth PeriodKind = "month"
	PeriodAllTime   PeriodKind = "all"
	PeriodRange     PeriodKind = "range"
)

// Period restricts aggregation to a calendar window. Start and End are
// inclusive day bounds; an all-time period leaves them zero.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// Today covers the single calendar day of the reference time.
func Today(now time.Time) Period {
	day := truncateToDay(now)
	return Period{Kind: PeriodToday, Start: day, End: day}
}

// ThisWeek covers the calendar week (Monday through Sunday) containing the
// reference time. Not a rolling seven-day window.
func ThisWeek(now time.Time) Period {
	start := mondayStart(now)
	return Period{Kind: PeriodThisWeek, Start: start, End: start.AddDate(0, 0, 6)}
}

// ThisMonth covers the calendar month containing the reference time.
func ThisMonth(now time.Time) Period {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: PeriodThisMonth, Start: start, End: start.AddDate(0, 1, -1)}
}

// AllTime places no calendar restriction.
func AllTime() Period {
	return Period{Kind: PeriodAllTime}
}

// Between covers an explicit inclusive date range.
func Between(start, end time.Time) (Period, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return Period{}, &models.ValidationError{Field: "period", Reason: "range end precedes start"}
	}
	return Period{Kind: PeriodRange, Start: start, End: end}, nil
}

// ParsePeriod resolves a query-string period ("today", "week", "month",
// "all", or "YYYY-MM-DD..YYYY-MM-DD") relative to the reference time. An
// empty value means all time.
func ParsePeriod(value string, now time.Time) (Period, error) {
	switch PeriodKind(value) {
	case PeriodToday:
		return Today(now), nil
	case PeriodThisWeek:
		return ThisWeek(now), nil
	case PeriodThisMonth:
		return ThisMonth(now), nil
	case PeriodAllTime, PeriodKind(""):
		return AllTime(), nil
	}

	parts := strings.SplitN(value, "..", 2)
	if len(parts) == 2 {
		start, err := time.Parse(models.DateLayout, parts[0])
		if err != nil {
			return Period{}, &models.ValidationError{Field: "period", Reason: "bad range start " + parts[0]}
		}
		end, err := time.Parse(models.DateLayout, parts[1])
		if err != nil {
			return Period{}, &models.ValidationError{Field: "period", Reason: "bad range end " + parts[1]}
		}
		return Between(start, end)
	}

	return Period{}, &models.ValidationError{Field: "period", Reason: "unknown period " + value}
}

// Contains reports whether the record date falls inside the window.
func (p Period) Contains(date time.Time) bool {
	if p.Kind == PeriodAllTime || p.Kind == "" {
		return true
	}
	day := truncateToDay(date)
	return !day.Before(p.Start) && !day.After(p.End)
}

// String renders the window for report labels.
func (p Period) String() string {
	if p.Kind == PeriodAllTime || p.Kind == "" {
		return "all time"
	}
	return fmt.Sprintf("%s (%s to %s)", p.Kind, p.Start.Format(models.DateLayout), p.End.Format(models.DateLayout))
}

func mondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return truncateToDay(start)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
