package service

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/fraperfra/TELEMARKETING/internal/config"
	"github.com/fraperfra/TELEMARKETING/internal/db"
	"github.com/fraperfra/TELEMARKETING/internal/logger"
	"github.com/fraperfra/TELEMARKETING/internal/model"
	"github.com/fraperfra/TELEMARKETING/internal/repository"
	"github.com/fraperfra/TELEMARKETING/internal/scheduling"
)

type grpcFixture struct {
	conn     *grpc.ClientConn
	client   *SchedulingClient
	agentID  uuid.UUID
	contacts *repository.GormContactRepository
}

func startServer(t *testing.T) *grpcFixture {
	t.Helper()
	log := logger.New(io.Discard, "error")

	gdb, err := db.NewGormDB(config.DBConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(gdb))

	availability := repository.NewGormAvailabilityRepository(gdb)
	appointments := repository.NewGormAppointmentRepository(gdb)
	contacts := repository.NewGormContactRepository(gdb)

	agent := uuid.New()
	require.NoError(t, availability.ReplaceRules(context.Background(), agent, []model.AvailabilityRule{
		{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "11:00", IsActive: true},
	}))

	monday8 := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)
	sched := scheduling.New(availability, appointments, contacts, scheduling.Options{
		Location:    time.UTC,
		HorizonDays: 1,
		Now:         func() time.Time { return monday8 },
		Logger:      log,
	})

	srv, _ := NewGRPCServer(NewSchedulingService(sched, log), log)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.GracefulStop()
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &grpcFixture{conn: conn, client: NewSchedulingClient(conn), agentID: agent, contacts: contacts}
}

func TestGRPC_BookUntilFull(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()

	contact := &model.Contact{Name: "Paolo Neri", Address: "Via Dante 5, Bologna"}
	require.NoError(t, f.contacts.Create(ctx, contact))
	req := mustStruct(t, map[string]any{
		"agent_id":   f.agentID.String(),
		"contact_id": contact.ID.String(),
	})

	for _, want := range []string{"2025-01-06T09:00:00Z", "2025-01-06T10:00:00Z"} {
		out, err := f.client.BookAppointment(ctx, req)
		require.NoError(t, err)
		appt := out.GetFields()["appointment"].GetStructValue().GetFields()
		assert.Equal(t, want, appt["scheduled_for"].GetStringValue())
		assert.Equal(t, "auto_ai", appt["booking_method"].GetStringValue())
	}

	_, err := f.client.BookAppointment(ctx, req)
	assert.Equal(t, codes.NotFound, status.Code(err))

	next, err := f.client.FindNextSlot(ctx, mustStruct(t, map[string]any{"agent_id": f.agentID.String()}))
	require.NoError(t, err)
	assert.False(t, next.GetFields()["found"].GetBoolValue())
}

func TestGRPC_ErrorCodes(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()

	_, err := f.client.FindSlots(ctx, mustStruct(t, map[string]any{"agent_id": uuid.NewString()}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = f.client.BookAppointment(ctx, mustStruct(t, map[string]any{
		"agent_id":   f.agentID.String(),
		"contact_id": uuid.NewString(),
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_TraceHeaderAndHealth(t *testing.T) {
	f := startServer(t)

	ctx := metadata.AppendToOutgoingContext(context.Background(), TraceIDHeader, "trace-123")
	var header metadata.MD
	out, err := f.client.SuggestSlots(ctx, mustStruct(t, map[string]any{
		"agent_id":         f.agentID.String(),
		"temperature":      "HOT",
		"duration_minutes": 30,
	}), grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"trace-123"}, header.Get(TraceIDHeader))
	// 09:00 to 10:30 on the only available morning.
	assert.Len(t, out.GetFields()["slots"].GetListValue().GetValues(), 4)

	header = nil
	_, err = f.client.FindNextSlot(context.Background(), mustStruct(t, map[string]any{"agent_id": f.agentID.String()}), grpc.Header(&header))
	require.NoError(t, err)
	require.Len(t, header.Get(TraceIDHeader), 1)
	assert.Len(t, header.Get(TraceIDHeader)[0], 26)

	resp, err := healthpb.NewHealthClient(f.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
