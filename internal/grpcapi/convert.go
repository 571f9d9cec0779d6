package grpcapi

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
	"github.com/hugo050303/barber-saas/internal/service"
)

func field(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func intField(in *structpb.Struct, key string) int {
	return int(in.GetFields()[key].GetNumberValue())
}

func respond(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// toStatus переводит ошибки ядра в коды gRPC.
func toStatus(err error) error {
	switch {
	case scheduling.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case scheduling.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case scheduling.IsStore(err):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal: %v", err)
	}
}

func stringList(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

func providerMap(p model.Provider) map[string]any {
	id := ""
	if !p.IsUnknown() {
		id = p.ID.String()
	}
	return map[string]any{
		"id":                id,
		"displayName":       p.DisplayName,
		"specialty":         p.Specialty,
		"commissionPercent": p.CommissionPercent,
		"unknown":           p.IsUnknown(),
	}
}

func appointmentMap(a *model.Appointment, loc *time.Location) map[string]any {
	return map[string]any{
		"id":          a.ID.String(),
		"clientName":  a.Client.Name,
		"clientPhone": a.Client.Phone,
		"startsAt":    a.StartsAt.In(loc).Format(time.RFC3339),
		"providerId":  a.ProviderID.String(),
		"serviceId":   a.ServiceID.String(),
		"status":      string(a.Status),
	}
}

func boardMap(b *service.Board) map[string]any {
	columns := make([]any, 0, len(b.Columns))
	for _, c := range b.Columns {
		blocks := make([]any, 0, len(c.Blocks))
		for _, blk := range c.Blocks {
			m := map[string]any{
				"appointmentId": blk.AppointmentID,
				"start":         blk.Start.Format(time.RFC3339),
				"end":           blk.End.Format(time.RFC3339),
				"label":         blk.Label,
				"clientName":    blk.ClientName,
				"phone":         blk.Phone,
				"serviceName":   blk.ServiceName,
				"status":        string(blk.Status),
				"tone": map[string]any{
					"accent": blk.Tone.Accent,
					"muted":  blk.Tone.Muted,
				},
			}
			if blk.ServicePrice != nil {
				m["servicePrice"] = *blk.ServicePrice
			}
			blocks = append(blocks, m)
		}
		columns = append(columns, map[string]any{
			"provider": providerMap(c.Provider),
			"blocks":   blocks,
			"empty":    c.Empty,
		})
	}

	draft := b.DraftBooking()
	return map[string]any{
		"date":    b.Date,
		"columns": columns,
		"draft":   map[string]any{"date": draft.Date},
	}
}
