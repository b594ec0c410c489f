package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fraperfra/TELEMARKETING/internal/calendar"
	"github.com/fraperfra/TELEMARKETING/internal/logger"
	"github.com/fraperfra/TELEMARKETING/internal/model"
	"github.com/fraperfra/TELEMARKETING/internal/scheduling"
)

const (
	defaultSlotCount = 3
	maxSlotCount     = 50
)

// Scheduler is the part of *scheduling.Scheduler the transport needs.
type Scheduler interface {
	FindNextSlot(ctx context.Context, q scheduling.SlotQuery) (*scheduling.TimeSlot, error)
	FindSlots(ctx context.Context, q scheduling.SlotQuery, count int) ([]scheduling.TimeSlot, error)
	SuggestSlots(ctx context.Context, agentID uuid.UUID, temperature scheduling.LeadTemperature, durationMinutes, limit int) ([]scheduling.TimeSlot, error)
	BookAppointment(ctx context.Context, req scheduling.BookingRequest) (*model.Appointment, error)
}

type SchedulingService struct {
	scheduler Scheduler
	log       *slog.Logger
}

func NewSchedulingService(scheduler Scheduler, log *slog.Logger) *SchedulingService {
	if log == nil {
		log = slog.Default()
	}
	return &SchedulingService{scheduler: scheduler, log: log}
}

// FindNextSlot returns {"found": bool, "slot": {...}}.
func (s *SchedulingService) FindNextSlot(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	q, err := slotQueryFrom(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	slot, err := s.scheduler.FindNextSlot(ctx, q)
	if err != nil {
		return nil, s.toStatus(ctx, "find next slot", err)
	}

	out := map[string]any{"found": slot != nil}
	if slot != nil {
		out["slot"] = slotValue(*slot)
	}
	return structpb.NewStruct(out)
}

// FindSlots returns {"slots": [...]} with up to "count" spaced slots.
func (s *SchedulingService) FindSlots(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	q, err := slotQueryFrom(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	count, err := intField(in, "count")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if count == 0 {
		count = defaultSlotCount
	}
	if count < 0 || count > maxSlotCount {
		return nil, status.Errorf(codes.InvalidArgument, "count must be between 1 and %d", maxSlotCount)
	}

	slots, err := s.scheduler.FindSlots(ctx, q, count)
	if err != nil {
		return nil, s.toStatus(ctx, "find slots", err)
	}
	return structpb.NewStruct(map[string]any{"slots": slotList(slots)})
}

// SuggestSlots returns one page of the suggestions for a lead.
func (s *SchedulingService) SuggestSlots(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	agentID, err := uuidField(in, "agent_id", true)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	temperature, err := scheduling.ParseLeadTemperature(stringField(in, "temperature"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	var duration, limit, page, pageSize int
	for key, dst := range map[string]*int{
		"duration_minutes": &duration,
		"limit":            &limit,
		"page":             &page,
		"page_size":        &pageSize,
	} {
		if *dst, err = intField(in, key); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	slots, err := s.scheduler.SuggestSlots(ctx, agentID, temperature, duration, limit)
	if err != nil {
		return nil, s.toStatus(ctx, "suggest slots", err)
	}

	p := calendar.Paginate(slots, page, pageSize)
	return structpb.NewStruct(map[string]any{
		"slots":       slotList(p.Items),
		"page":        p.Page,
		"page_size":   p.PageSize,
		"total_count": p.Total,
		"has_next":    p.HasNext,
	})
}

// BookAppointment returns {"outcome": "booked", "appointment": {...}}.
func (s *SchedulingService) BookAppointment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := bookingRequestFrom(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	appt, err := s.scheduler.BookAppointment(ctx, req)
	if err != nil {
		return nil, s.toStatus(ctx, "book appointment", err)
	}
	return structpb.NewStruct(map[string]any{
		"outcome":     scheduling.OutcomeBooked.String(),
		"appointment": appointmentValue(appt),
	})
}

// toStatus maps scheduler errors onto gRPC codes. Unclassified errors are
// store failures and reported as Unavailable so clients may retry later.
func (s *SchedulingService) toStatus(ctx context.Context, op string, err error) error {
	code := codes.Unavailable
	switch {
	case errors.Is(err, scheduling.ErrNoAvailabilityConfigured):
		code = codes.FailedPrecondition
	case errors.Is(err, scheduling.ErrInvalidRequest), errors.Is(err, scheduling.ErrContactNotFound):
		code = codes.InvalidArgument
	case errors.Is(err, scheduling.ErrNoAvailability):
		code = codes.NotFound
	case errors.Is(err, scheduling.ErrPersistenceConflict):
		code = codes.Aborted
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	}

	if code == codes.Unavailable {
		logger.FromContext(ctx, s.log).Error("Scheduling call failed", "op", op, "error", err)
	}
	return status.Errorf(code, "%s: %v", op, err)
}
