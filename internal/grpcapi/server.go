package grpcapi

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/repository"
	"github.com/hugo050303/barber-saas/internal/scheduling"
	"github.com/hugo050303/barber-saas/internal/service"
)

// Server реализует StaffSchedulingServer поверх сервисов ядра.
type Server struct {
	appointments *service.AppointmentService
	booking      *service.BookingService
	board        *service.BoardService
}

func NewServer(
	appointments *service.AppointmentService,
	booking *service.BookingService,
	board *service.BoardService,
) *Server {
	return &Server{
		appointments: appointments,
		booking:      booking,
		board:        board,
	}
}

// NewGRPCServer собирает grpc.Server: сервис персонала, health и reflection.
func NewGRPCServer(srv *Server, log *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(loggingInterceptor(log)),
	)
	s := grpc.NewServer(opts...)

	RegisterStaffSchedulingServer(s, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)
	return s
}

func (s *Server) ListProviders(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	providers, err := s.appointments.ListProvidersSorted(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	list := make([]any, 0, len(providers))
	for _, p := range providers {
		list = append(list, providerMap(p))
	}
	return respond(map[string]any{"providers": list})
}

func (s *Server) RenderBoard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	date, err := scheduling.ParseDate(field(in, "date"), s.appointments.Location())
	if err != nil {
		return nil, toStatus(err)
	}
	board, err := s.board.RenderBoard(ctx, date)
	if err != nil {
		return nil, toStatus(err)
	}
	return respond(boardMap(board))
}

func (s *Server) SubmitStaffBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.booking.SubmitStaffBooking(ctx, service.StaffBookingForm{
		ClientName:  field(in, "clientName"),
		ClientPhone: field(in, "clientPhone"),
		Date:        field(in, "date"),
		Time:        field(in, "time"),
		ProviderID:  field(in, "providerId"),
		ServiceID:   field(in, "serviceId"),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	out := map[string]any{
		"appointment": appointmentMap(res.Appointment, s.appointments.Location()),
		"warnings":    stringList(res.Warnings),
	}
	if res.Client != nil {
		out["client"] = map[string]any{
			"id":      res.Client.ID.String(),
			"name":    res.Client.Name,
			"phone":   res.Client.Phone,
			"created": res.Client.Created,
		}
	}
	return respond(out)
}

func (s *Server) GetAppointment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	appt, err := s.appointments.GetAppointment(ctx, field(in, "id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.detailResponse(ctx, appt, nil)
}

func (s *Server) SetStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	appt, warnings, err := s.appointments.SetStatus(ctx, field(in, "id"), model.AppointmentStatus(field(in, "status")))
	if err != nil {
		return nil, toStatus(err)
	}
	return s.detailResponse(ctx, appt, warnings)
}

func (s *Server) DeleteAppointment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := field(in, "id")
	warnings, err := s.appointments.DeleteAppointment(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return respond(map[string]any{"id": id, "deleted": true, "warnings": stringList(warnings)})
}

func (s *Server) ListRevenueFacts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	from, err := parseInstant(field(in, "from"), "from")
	if err != nil {
		return nil, toStatus(err)
	}
	to, err := parseInstant(field(in, "to"), "to")
	if err != nil {
		return nil, toStatus(err)
	}

	page, pageSize := intField(in, "page"), intField(in, "pageSize")
	facts, total, err := s.appointments.ListRevenueFacts(ctx, repository.RevenueFilter{
		From:       from,
		To:         to,
		ProviderID: field(in, "providerId"),
		Status:     model.AppointmentStatus(field(in, "status")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	list := make([]any, 0, len(facts))
	for _, f := range facts {
		list = append(list, map[string]any{
			"appointmentId": f.AppointmentID.String(),
			"startsAt":      f.StartsAt.UTC().Format(time.RFC3339),
			"providerId":    f.ProviderID.String(),
			"servicePrice":  f.ServicePrice,
			"status":        string(f.Status),
		})
	}
	return respond(map[string]any{"facts": list, "totalCount": float64(total)})
}

// detailResponse — запись для окна деталей: с услугой, мастером и вычисленным концом.
func (s *Server) detailResponse(ctx context.Context, appt *model.AppointmentDetail, warnings []string) (*structpb.Struct, error) {
	provider, err := s.appointments.ProviderFor(ctx, appt.ProviderID)
	if err != nil {
		return nil, toStatus(err)
	}

	loc := s.appointments.Location()
	out := appointmentMap(&appt.Appointment, loc)
	out["endsAt"] = scheduling.DerivedEnd(appt.StartsAt, appt.ServiceDurationMin).In(loc).Format(time.RFC3339)
	out["providerName"] = provider.DisplayName
	if appt.ServiceName != nil {
		out["serviceName"] = *appt.ServiceName
	}
	if appt.ServicePrice != nil {
		out["servicePrice"] = *appt.ServicePrice
	}
	return respond(map[string]any{"appointment": out, "warnings": stringList(warnings)})
}

// parseInstant: пустое значение — нулевое время, то есть граница не задана.
func parseInstant(v, name string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, &scheduling.ValidationError{Field: name, Reason: "must be RFC3339", Err: err}
	}
	return t, nil
}
