package scheduling

import (
	"fmt"
	"time"

	"github.com/hugo050303/barber-saas/internal/model"
)

// FormatBlockLabel форматирует интервал блока на доске: "10:00–10:45".
// Если loc != nil, время переводится в указанный часовой пояс.
func FormatBlockLabel(tr TimeRange, loc *time.Location) string {
	start, end := tr.Start, tr.End
	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}
	return fmt.Sprintf("%s–%s", start.Format(TimeLayout), end.Format(TimeLayout))
}

// FormatSummary — строка подтверждения для клиента.
func FormatSummary(serviceName, providerName string, start time.Time, loc *time.Location) string {
	if loc != nil {
		start = start.In(loc)
	}
	return fmt.Sprintf("%s with %s on %s at %s",
		serviceName, providerName, start.Format(DateLayout), start.Format(TimeLayout))
}

// Tone — визуальное отличие блока по статусу. Ни на что, кроме отображения, не влияет.
type Tone struct {
	Accent string `json:"accent"`
	Muted  bool   `json:"muted"`
}

func ToneFor(status model.AppointmentStatus) Tone {
	switch status {
	case model.AppointmentStatusCompleted:
		return Tone{Accent: "green", Muted: true}
	case model.AppointmentStatusCancelled:
		return Tone{Accent: "red", Muted: true}
	case model.AppointmentStatusConfirmed:
		return Tone{Accent: "blue"}
	default:
		return Tone{Accent: "yellow"}
	}
}
