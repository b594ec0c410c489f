package service

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fraperfra/TELEMARKETING/internal/logger"
)

const (
	ServiceName    = "scheduling.v1.Scheduling"
	TraceIDHeader  = "x-trace-id"
	methodPrefix   = "/" + ServiceName + "/"
	serviceProtoMD = "scheduling/v1/scheduling.proto"
)

// SchedulingServer is implemented by *SchedulingService.
type SchedulingServer interface {
	FindNextSlot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SuggestSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BookAppointment(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(SchedulingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SchedulingServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodPrefix + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SchedulingServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// SchedulingServiceDesc is written by hand: the messages are plain Structs,
// so there is nothing to generate.
var SchedulingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulingServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("FindNextSlot", SchedulingServer.FindNextSlot),
		methodDesc("FindSlots", SchedulingServer.FindSlots),
		methodDesc("SuggestSlots", SchedulingServer.SuggestSlots),
		methodDesc("BookAppointment", SchedulingServer.BookAppointment),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceProtoMD,
}

func RegisterSchedulingServer(s grpc.ServiceRegistrar, srv SchedulingServer) {
	s.RegisterService(&SchedulingServiceDesc, srv)
}

// SchedulingClient calls the service over any client connection.
type SchedulingClient struct {
	cc grpc.ClientConnInterface
}

func NewSchedulingClient(cc grpc.ClientConnInterface) *SchedulingClient {
	return &SchedulingClient{cc: cc}
}

func (c *SchedulingClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodPrefix+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulingClient) FindNextSlot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "FindNextSlot", in, opts...)
}

func (c *SchedulingClient) FindSlots(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "FindSlots", in, opts...)
}

func (c *SchedulingClient) SuggestSlots(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SuggestSlots", in, opts...)
}

func (c *SchedulingClient) BookAppointment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "BookAppointment", in, opts...)
}

// TraceInterceptor reuses an incoming x-trace-id or assigns a ULID, echoes it
// back as a header and logs every call.
func TraceInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(TraceIDHeader); len(ids) > 0 && ids[0] != "" {
				ctx = logger.WithTraceID(ctx, ids[0])
			}
		}
		ctx, traceID := logger.EnsureTraceID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(TraceIDHeader, traceID))

		start := time.Now()
		resp, err := handler(ctx, req)

		logger.FromContext(ctx, log).Info("gRPC call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// NewGRPCServer wires the scheduling service, health and reflection.
func NewGRPCServer(svc SchedulingServer, log *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(TraceInterceptor(log)))
	srv := grpc.NewServer(opts...)

	RegisterSchedulingServer(srv, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(srv)
	return srv, hs
}
