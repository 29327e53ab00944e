package slot

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingDate  = errors.New("slot date is required")
	ErrMissingTime  = errors.New("slot needs an hour or an explicit start/end pair")
	ErrBadDate      = errors.New("unparseable slot date")
	ErrBadHour      = errors.New("unparseable slot hour")
	ErrInvalidRange = errors.New("slot end must be after start")
)

const dateLayout = "2006-01-02"

// Input is one raw cart slot as submitted by a client. Exactly one of
// {StartTime+EndTime, Date+Hour} must be resolvable.
//
// TZOffsetMinutes is the signed offset of the caller's wall clock from UTC
// (UTC+2 is 120). Explicit instants are trusted as already UTC and the offset
// is ignored for them. A zero offset means the wall clock already is UTC; the
// legacy fixed-UTC+1 interpretation is intentionally not supported because it
// shifts instants across DST transitions.
type Input struct {
	Date            string
	Hour            string
	StartTime       *time.Time
	EndTime         *time.Time
	TZOffsetMinutes int
}

// Policy is the deployment-level resolution policy.
type Policy struct {
	SessionMinutes int
}

// Range is the canonical half-open [Start, End) UTC interval backing a slot.
// Date is the start's calendar day as the caller expressed it; End may land
// on the following day.
type Range struct {
	Start       time.Time
	End         time.Time
	Date        string
	DurationMin int
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports half-open interval overlap: back-to-back ranges where one
// ends exactly when the other starts do not overlap.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Resolve normalizes a raw slot into a canonical UTC range. It is pure and
// deterministic, which is what makes retrying a failed reservation attempt
// safe.
func Resolve(in Input, p Policy) (Range, error) {
	if in.StartTime != nil && in.EndTime != nil {
		return resolveExplicit(in)
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		return Range{}, ErrMissingDate
	}
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return Range{}, ErrBadDate
	}

	if strings.TrimSpace(in.Hour) == "" {
		return Range{}, ErrMissingTime
	}
	hour, minute, err := parseHour(in.Hour)
	if err != nil {
		return Range{}, err
	}

	session := p.SessionMinutes
	if session <= 0 {
		session = 60
	}

	local := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	start := local.Add(-time.Duration(in.TZOffsetMinutes) * time.Minute)
	end := start.Add(time.Duration(session) * time.Minute)

	return Range{
		Start:       start,
		End:         end,
		Date:        date,
		DurationMin: session,
	}, nil
}

// Explicit instants pass through verbatim: they are already UTC and no
// session-duration policy applies.
func resolveExplicit(in Input) (Range, error) {
	start := in.StartTime.UTC()
	end := in.EndTime.UTC()
	if !end.After(start) {
		return Range{}, ErrInvalidRange
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = start.Format(dateLayout)
	}

	return Range{
		Start:       start,
		End:         end,
		Date:        date,
		DurationMin: int(end.Sub(start) / time.Minute),
	}, nil
}

var hourPattern = regexp.MustCompile(`(\d{1,2})\s*[hH:]?\s*(\d{2})?`)

// parseHour accepts numeric hours ("18", "18.5" meaning 18:30) and free-text
// forms ("18h30", "18:00", "18h-19h" where only the first hour counts).
func parseHour(raw string) (int, int, error) {
	raw = strings.TrimSpace(raw)

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		hour := int(f)
		minute := int(math.Round((f - float64(hour)) * 60))
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return 0, 0, ErrBadHour
		}
		return hour, minute, nil
	}

	m := hourPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, ErrBadHour
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return 0, 0, ErrBadHour
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return 0, 0, ErrBadHour
		}
	}
	return hour, minute, nil
}
