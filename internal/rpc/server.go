// Package rpc exposes the arcade service over gRPC. Messages are
// google.protobuf.Struct documents shaped like the HTTP JSON bodies.
package rpc

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/arcade-backend/internal/runner"
	"github.com/xtding233/arcade-backend/internal/service"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "arcade.v1.Arcade"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server adapts service.Service to gRPC handlers.
type Server struct {
	svc    *service.Service
	log    *zap.Logger
	health *health.Server
}

func NewServer(svc *service.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log.With(zap.String("component", "grpc")), health: health.NewServer()}
}

// Register attaches the arcade and health services to gs and marks them serving.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
	healthpb.RegisterHealthServer(gs, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown flips health to NOT_SERVING ahead of GracefulStop.
func (s *Server) Shutdown() { s.health.Shutdown() }

// NewGRPCServer builds a grpc.Server with logging and panic recovery.
func NewGRPCServer(s *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.recoverUnary, s.logUnary))
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		s.log.Debug("rpc failed", zap.String("method", info.FullMethod), zap.Error(err))
	}
	return resp, err
}

func (s *Server) recoverUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("rpc panic", zap.String("method", info.FullMethod), zap.Any("panic", r))
			err = status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

// toStatus maps service errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownGame), errors.Is(err, service.ErrUnknownPack):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrBusy), errors.Is(err, service.ErrGameOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// toStruct round-trips v through JSON so the wire shape matches HTTP.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func str(in *structpb.Struct, key string) string {
	if v, ok := in.GetFields()[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func num(in *structpb.Struct, key string) float64 {
	if v, ok := in.GetFields()[key]; ok {
		return v.GetNumberValue()
	}
	return 0
}

func required(in *structpb.Struct, key string) (string, error) {
	v := str(in, key)
	if v == "" {
		return "", status.Error(codes.InvalidArgument, fmt.Sprintf("%s is required", key))
	}
	return v, nil
}

func (s *Server) ListGames(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	games, err := s.svc.Games(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"games": games})
}

func (s *Server) CreateWheel(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	game, err := required(in, "game")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.CreateWheel(ctx, game, str(in, "client_seed"))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) WheelStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.WheelStatus(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) Spin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.Spin(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) TopUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	pack, err := required(in, "pack")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.TopUp(ctx, id, pack)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) PlanTopUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.PlanTopUp(ctx, id, int(num(in, "spins")))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) CloseWheel(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.CloseWheel(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) CreateRun(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	game, err := required(in, "game")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.CreateRun(ctx, game, str(in, "player"))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) RunStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.RunStatus(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) Tick(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	req := service.TickRequest{
		NowMs:  int64(num(in, "now_ms")),
		Frames: int(num(in, "frames")),
		Input:  runner.Input(str(in, "input")),
	}
	v, err := s.svc.Tick(ctx, id, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) Restart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := required(in, "id")
	if err != nil {
		return nil, err
	}
	v, err := s.svc.Restart(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(v)
}

func (s *Server) TopRuns(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	game, err := required(in, "game")
	if err != nil {
		return nil, err
	}
	runs, err := s.svc.TopRuns(ctx, game, int(num(in, "limit")))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"runs": runs})
}
