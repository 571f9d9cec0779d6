package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

// Block — одна запись на доске.
type Block struct {
	AppointmentID string                  `json:"appointmentId"`
	Start         time.Time               `json:"start"`
	End           time.Time               `json:"end"`
	Label         string                  `json:"label"`
	ClientName    string                  `json:"clientName"`
	Phone         string                  `json:"phone"`
	ServiceName   string                  `json:"serviceName"`
	ServicePrice  *float64                `json:"servicePrice,omitempty"`
	Status        model.AppointmentStatus `json:"status"`
	Tone          scheduling.Tone         `json:"tone"`
}

// Column — колонка мастера.
type Column struct {
	Provider model.Provider `json:"provider"`
	Blocks   []Block        `json:"blocks"`
	Empty    bool           `json:"empty"`
}

type Board struct {
	Date    string   `json:"date"`
	Columns []Column `json:"columns"`
}

// DraftBooking — форма записи из агенды с датой доски.
func (b *Board) DraftBooking() StaffBookingForm {
	return StaffBookingForm{Date: b.Date}
}

type BoardService struct {
	appointments *AppointmentService
	log          *zap.Logger
}

func NewBoardService(appointments *AppointmentService, log *zap.Logger) *BoardService {
	return &BoardService{
		appointments: appointments,
		log:          log.With(zap.String("component", "board")),
	}
}

// RenderBoard строит доску на календарный день date (в локальном поясе).
// Записи удалённых мастеров попадают в последнюю колонку с UnknownProvider.
func (s *BoardService) RenderBoard(ctx context.Context, date time.Time) (board *Board, err error) {
	ctx, span := startSpan(ctx, "BoardService.RenderBoard")
	defer func() { endSpan(span, err) }()

	loc := s.appointments.Location()
	window := scheduling.DayWindow(date, loc)

	providers, err := s.appointments.ListProvidersSorted(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.appointments.ListAppointmentsInWindow(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	byProvider := make(map[uuid.UUID][]Block, len(providers))
	known := make(map[uuid.UUID]bool, len(providers))
	for _, p := range providers {
		known[p.ID] = true
	}

	var orphaned []Block
	for _, row := range rows {
		blk := toBlock(row, loc)
		if known[row.ProviderID] {
			byProvider[row.ProviderID] = append(byProvider[row.ProviderID], blk)
		} else {
			orphaned = append(orphaned, blk)
		}
	}

	board = &Board{
		Date:    window.Start.Format(scheduling.DateLayout),
		Columns: make([]Column, 0, len(providers)+1),
	}
	for _, p := range providers {
		blocks := byProvider[p.ID]
		board.Columns = append(board.Columns, Column{
			Provider: p,
			Blocks:   blocks,
			Empty:    len(blocks) == 0,
		})
	}
	if len(orphaned) > 0 {
		s.log.Debug("appointments with unknown provider", zap.Int("count", len(orphaned)))
		board.Columns = append(board.Columns, Column{
			Provider: model.UnknownProvider,
			Blocks:   orphaned,
		})
	}

	return board, nil
}

func toBlock(row model.AppointmentDetail, loc *time.Location) Block {
	start := row.StartsAt.In(loc)
	end := scheduling.DerivedEnd(start, row.ServiceDurationMin)

	var serviceName string
	if row.ServiceName != nil {
		serviceName = *row.ServiceName
	}

	return Block{
		AppointmentID: row.ID.String(),
		Start:         start,
		End:           end,
		Label:         scheduling.FormatBlockLabel(scheduling.TimeRange{Start: start, End: end}, loc),
		ClientName:    row.Client.Name,
		Phone:         scheduling.FormatPhone(row.Client.Phone),
		ServiceName:   serviceName,
		ServicePrice:  row.ServicePrice,
		Status:        row.Status,
		Tone:          scheduling.ToneFor(row.Status),
	}
}
