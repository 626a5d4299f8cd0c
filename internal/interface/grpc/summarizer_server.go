// Package grpc exposes the summarizer over gRPC alongside the standard
// health and reflection services.
package grpc

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"text-summarizer/internal/handler/http/respond"
	"text-summarizer/internal/observability/logging"
	sumUC "text-summarizer/internal/usecase/summarize"
)

// TextSummarizer is the use case the server delegates to.
type TextSummarizer interface {
	Summarize(ctx context.Context, in sumUC.Input) (*sumUC.Output, error)
}

// SummarizerServer implements SummarizerService.
type SummarizerServer struct {
	svc TextSummarizer
}

// NewSummarizerServer creates a SummarizerServer backed by svc.
func NewSummarizerServer(svc TextSummarizer) *SummarizerServer {
	return &SummarizerServer{svc: svc}
}

var invalidArgument = []error{
	sumUC.ErrNoText,
	sumUC.ErrEmptyText,
	sumUC.ErrSentenceCountTooSmall,
	sumUC.ErrSentenceCountTooLarge,
	sumUC.ErrInvalidMode,
	sumUC.ErrInvalidFormat,
	sumUC.ErrUnsupportedFormat,
	sumUC.ErrTextTooLong,
}

// Summarize reads text, sentence_count, mode, language and format from req
// and returns summary, sentence_count, total_sentences, mode and language.
func (s *SummarizerServer) Summarize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := toInput(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out, err := s.svc.Summarize(ctx, in)
	if err != nil {
		for _, target := range invalidArgument {
			if errors.Is(err, target) {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
		}
		logging.FromContext(ctx).ErrorContext(ctx, "grpc summarize failed",
			slog.String("error", respond.SanitizeError(err)))
		return nil, status.Error(codes.Internal, respond.GenericErrorMessage)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"summary":         out.Summary,
		"sentence_count":  out.SentenceCount,
		"total_sentences": out.TotalSentences,
		"mode":            string(out.Mode),
		"language":        out.Language,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, respond.GenericErrorMessage)
	}
	return resp, nil
}

var errSentenceCountType = errors.New("sentence_count must be an integer")

func toInput(req *structpb.Struct) (sumUC.Input, error) {
	var in sumUC.Input
	fields := req.GetFields()

	if v, ok := fields["text"]; ok {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); !isNull {
			sv, isString := v.GetKind().(*structpb.Value_StringValue)
			if !isString {
				return in, errors.New("text must be a string")
			}
			text := sv.StringValue
			in.Text = &text
		}
	}

	for _, key := range []string{"sentence_count", "length"} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		nv, isNumber := v.GetKind().(*structpb.Value_NumberValue)
		if !isNumber || nv.NumberValue != math.Trunc(nv.NumberValue) || math.Abs(nv.NumberValue) > math.MaxInt32 {
			return in, errSentenceCountType
		}
		n := int(nv.NumberValue)
		in.SentenceCount = &n
		break
	}

	in.Mode = fields["mode"].GetStringValue()
	in.Language = fields["language"].GetStringValue()
	in.Format = fields["format"].GetStringValue()
	return in, nil
}

// LoggingInterceptor logs each unary call with its code and duration and
// puts logger into the call context.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx = logging.WithLogger(ctx, logger.With(slog.String("grpc_method", info.FullMethod)))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := slog.LevelInfo
		if code == codes.Internal || code == codes.Unknown {
			level = slog.LevelError
		}
		logger.LogAttrs(ctx, level, "grpc call completed",
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}

// NewServer returns a gRPC server with the summarizer, health and reflection
// services registered. The health status of ServiceName is SERVING.
func NewServer(svc TextSummarizer, logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(LoggingInterceptor(logger)))
	srv := grpc.NewServer(opts...)

	srv.RegisterService(&SummarizerServiceDesc, NewSummarizerServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	reflection.Register(srv)
	return srv, hs
}
