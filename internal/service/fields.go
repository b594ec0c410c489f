package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/fraperfra/TELEMARKETING/internal/model"
	"github.com/fraperfra/TELEMARKETING/internal/scheduling"
)

// Requests and responses travel as google.protobuf.Struct; these helpers read
// typed fields out of them and build the response payloads.

func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}

func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return 0, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return int(n.NumberValue), nil
}

func uuidField(s *structpb.Struct, key string, required bool) (uuid.UUID, error) {
	raw := stringField(s, key)
	if raw == "" {
		if required {
			return uuid.Nil, fmt.Errorf("%s is required", key)
		}
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", key, err)
	}
	return id, nil
}

// timeField reads an instant in the google.protobuf.Timestamp JSON form
// (RFC 3339). Missing means "now" to the scheduler.
func timeField(s *structpb.Struct, key string) (time.Time, error) {
	raw := stringField(s, key)
	if raw == "" {
		return time.Time{}, nil
	}
	var ts timestamppb.Timestamp
	if err := protojson.Unmarshal([]byte(strconv.Quote(raw)), &ts); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return ts.AsTime(), nil
}

func slotQueryFrom(in *structpb.Struct) (scheduling.SlotQuery, error) {
	agentID, err := uuidField(in, "agent_id", true)
	if err != nil {
		return scheduling.SlotQuery{}, err
	}
	duration, err := intField(in, "duration_minutes")
	if err != nil {
		return scheduling.SlotQuery{}, err
	}
	timeframe, err := scheduling.ParseTimeframe(stringField(in, "timeframe"))
	if err != nil {
		return scheduling.SlotQuery{}, err
	}
	from, err := timeField(in, "from")
	if err != nil {
		return scheduling.SlotQuery{}, err
	}
	return scheduling.SlotQuery{
		AgentID:         agentID,
		DurationMinutes: duration,
		Timeframe:       timeframe,
		From:            from,
	}, nil
}

func bookingRequestFrom(in *structpb.Struct) (scheduling.BookingRequest, error) {
	contactID, err := uuidField(in, "contact_id", true)
	if err != nil {
		return scheduling.BookingRequest{}, err
	}
	q, err := slotQueryFrom(in)
	if err != nil {
		return scheduling.BookingRequest{}, err
	}
	req := scheduling.BookingRequest{
		ContactID:       contactID,
		AgentID:         q.AgentID,
		Timeframe:       q.Timeframe,
		DurationMinutes: q.DurationMinutes,
		Method:          model.BookingMethod(stringField(in, "method")),
		From:            q.From,
	}
	bookedBy, err := uuidField(in, "booked_by", false)
	if err != nil {
		return scheduling.BookingRequest{}, err
	}
	if bookedBy != uuid.Nil {
		req.BookedBy = &bookedBy
	}
	return req, nil
}

func slotValue(slot scheduling.TimeSlot) map[string]any {
	return map[string]any{
		"start":            slot.Start.Format(time.RFC3339),
		"end":              slot.End().Format(time.RFC3339),
		"duration_minutes": slot.DurationMinutes,
		"is_free":          slot.IsFree,
		"formatted":        slot.Formatted,
	}
}

func slotList(slots []scheduling.TimeSlot) []any {
	out := make([]any, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotValue(slot))
	}
	return out
}

func appointmentValue(a *model.Appointment) map[string]any {
	v := map[string]any{
		"id":               a.ID.String(),
		"agent_id":         a.AgentID.String(),
		"contact_id":       a.ContactID.String(),
		"title":            a.Title,
		"description":      a.Description,
		"location":         a.Location,
		"scheduled_for":    a.ScheduledFor.Format(time.RFC3339),
		"ends_at":          a.End().Format(time.RFC3339),
		"duration_minutes": a.DurationMinutes,
		"status":           string(a.Status),
		"booking_method":   string(a.BookingMethod),
	}
	if a.BookedBy != nil {
		v["booked_by"] = a.BookedBy.String()
	}
	return v
}
