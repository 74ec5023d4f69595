// Package grpcapi exposes the session service over gRPC.
package grpcapi

import (
	"context"
	"errors"
	"math"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"labstats/internal/domain"
	"labstats/internal/infrastructure/logging"
)

const (
	fieldSessionID     = "sessionId"
	fieldDrainedWeight = "drainedWeight"
	fieldDryWeight     = "dryWeight"
)

// NewServer constructs a gRPC server exposing labstats.v1.SessionService.
// extra interceptors run after request logging.
func NewServer(service domain.SessionService, labels domain.Labels, logger *logging.Logger, extra ...grpc.UnaryServerInterceptor) *grpc.Server {
	interceptors := append([]grpc.UnaryServerInterceptor{loggingInterceptor(logger)}, extra...)

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterSessionServiceServer(server, &sessionServer{service: service, labels: labels})
	return server
}

type sessionServer struct {
	service domain.SessionService
	labels  domain.Labels
}

var _ SessionServiceServer = (*sessionServer)(nil)

func (s *sessionServer) CreateSession(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	id, err := s.service.CreateSession(ctx)
	if err != nil {
		return nil, translateServiceError(err)
	}
	return newStruct(map[string]any{"id": id})
}

func (s *sessionServer) AddMeasurement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}

	drained, err := numberField(req, fieldDrainedWeight)
	if err != nil {
		return nil, err
	}
	dry, err := numberField(req, fieldDryWeight)
	if err != nil {
		return nil, err
	}
	measurement, err := domain.NewMeasurement(drained, dry)
	if err != nil {
		return nil, translateServiceError(err)
	}

	report, err := s.service.AddMeasurement(ctx, id, measurement)
	if err != nil {
		return nil, translateServiceError(err)
	}
	return newStruct(reportFields(report, s.labels))
}

func (s *sessionServer) ListMeasurements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}

	report, err := s.service.Report(ctx, id)
	if err != nil {
		return nil, translateServiceError(err)
	}
	return newStruct(map[string]any{
		"count":        report.Count,
		"measurements": measurementList(report.Measurements),
	})
}

func (s *sessionServer) GetReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}

	report, err := s.service.Report(ctx, id)
	if err != nil {
		return nil, translateServiceError(err)
	}
	return newStruct(reportFields(report, s.labels))
}

func sessionID(req *structpb.Struct) (string, error) {
	value, ok := req.GetFields()[fieldSessionID]
	if !ok || value.GetStringValue() == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", fieldSessionID)
	}
	return value.GetStringValue(), nil
}

func numberField(req *structpb.Struct, name string) (float64, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	return number.NumberValue, nil
}

func measurementList(snapshot []domain.Measurement) []any {
	out := make([]any, len(snapshot))
	for i, m := range snapshot {
		out[i] = map[string]any{
			fieldDrainedWeight: m.DrainedWeight,
			fieldDryWeight:     m.DryWeight,
		}
	}
	return out
}

func reportFields(report domain.Report, labels domain.Labels) map[string]any {
	statistics := make([]any, 0, len(report.Statistics))
	for _, result := range report.Statistics {
		channel := map[string]any{
			"channel": string(result.Channel),
			"label":   labels.Channel(result.Channel),
			"count":   result.Stats.Count,
		}
		for _, measure := range result.Stats.Measures() {
			channel[lowerFirst(measure.Name)] = nullable(measure.Value)
		}
		statistics = append(statistics, channel)
	}

	return map[string]any{
		"count":        report.Count,
		"ready":        report.Ready,
		"remaining":    report.Remaining,
		"minimum":      domain.MinimumForAnalysis,
		"measurements": measurementList(report.Measurements),
		"statistics":   statistics,
	}
}

// nullable maps degenerate measures to a protobuf NullValue.
func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}
	return string(name[0]|0x20) + name[1:]
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func translateServiceError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		return status.Error(codes.NotFound, "session not found")
	case errors.Is(err, domain.ErrInsufficientData):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

func loggingInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)
		if err != nil {
			logger.Warn("grpc request failed", logging.AttachError(err, "method", info.FullMethod, "code", status.Code(err).String(), "duration", duration.String())...)
		} else {
			logger.Debug("grpc request completed", "method", info.FullMethod, "duration", duration.String())
		}
		return resp, err
	}
}
