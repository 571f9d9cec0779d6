package scheduling

import (
	"errors"
	"strings"
	"time"
)

// DefaultDuration — длительность записи, если у услуги не задана длительность.
const DefaultDuration = 30 * time.Minute

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

// TimeRange представляет временной интервал [Start, End].
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создаёт интервал и делает простую валидацию.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Contains — попадает ли t в интервал, включая обе границы.
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && !t.After(tr.End)
}

// DayWindow возвращает окно дня: [полночь, 23:59:59.999] по настенным часам loc.
// Берётся календарная дата date как есть, без перевода в loc.
func DayWindow(date time.Time, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.Local
	}
	y, m, day := date.Date()
	return TimeRange{
		Start: time.Date(y, m, day, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, day, 23, 59, 59, int(999*time.Millisecond), loc),
	}
}

// ServiceDuration переводит длительность услуги в минутах в time.Duration.
// Пустое или неположительное значение даёт DefaultDuration.
func ServiceDuration(durationMin *int64) time.Duration {
	if durationMin == nil || *durationMin <= 0 {
		return DefaultDuration
	}
	return time.Duration(*durationMin) * time.Minute
}

// DerivedEnd — конец записи никогда не хранится, только вычисляется.
func DerivedEnd(start time.Time, durationMin *int64) time.Time {
	return start.Add(ServiceDuration(durationMin))
}

// CombineDateTime склеивает поля формы "2006-01-02" и "15:04" в момент времени
// по настенным часам loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, Invalid("date", "is required")
	}
	if clock == "" {
		return time.Time{}, Invalid("time", "is required")
	}
	if _, err := time.ParseInLocation(DateLayout, date, loc); err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD", Err: err}
	}
	if _, err := time.ParseInLocation(TimeLayout, clock, loc); err != nil {
		return time.Time{}, &ValidationError{Field: "time", Reason: "must be HH:MM", Err: err}
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "time", Reason: "invalid date/time", Err: err}
	}
	return t, nil
}

// ParseDate разбирает дату доски "2006-01-02" в полночь loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD", Err: err}
	}
	return d, nil
}

// SuggestTimes разбивает рабочие часы дня на варианты начала с шагом step.
// opensAt/closesAt — "15:04". Вариант, который не помещается целиком до закрытия, отбрасывается.
func SuggestTimes(date time.Time, opensAt, closesAt string, step time.Duration, loc *time.Location) ([]string, error) {
	if step <= 0 {
		return nil, ErrSlotDuration
	}
	day := DayWindow(date, loc).Start
	from, err := clockOn(day, opensAt)
	if err != nil {
		return nil, err
	}
	to, err := clockOn(day, closesAt)
	if err != nil {
		return nil, err
	}
	if !to.After(from) {
		return []string{}, nil
	}

	var out []string
	for cur := from; !cur.Add(step).After(to); cur = cur.Add(step) {
		out = append(out, cur.Format(TimeLayout))
	}
	return out, nil
}

func clockOn(day time.Time, clock string) (time.Time, error) {
	c, err := time.Parse(TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, ErrInvalidTimeRange
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}

func rangesOverlap(a, b TimeRange, inclusive bool) bool {
	if inclusive {
		// [a.Start, a.End] и [b.Start, b.End] пересекаются,
		// если a.Start <= b.End && b.Start <= a.End
		return !a.Start.After(b.End) && !b.Start.After(a.End)
	}

	// Полуоткрытые интервалы [Start, End)
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
