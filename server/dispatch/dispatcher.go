package dispatch

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/touka-aoi/boss-director/application/command"
	"github.com/touka-aoi/boss-director/server/domain"
	"github.com/touka-aoi/boss-director/server/frame"
)

const tracerName = "github.com/touka-aoi/boss-director/server/dispatch"

// FrameDispatcher はフレームをデコードして Executor に渡し、応答フレームを作ります。
type FrameDispatcher struct {
	decoder *frame.Decoder
	exec    Executor
	tracer  trace.Tracer
}

var _ domain.Dispatcher = (*FrameDispatcher)(nil)

func NewFrameDispatcher(decoder *frame.Decoder, exec Executor) *FrameDispatcher {
	return &FrameDispatcher{
		decoder: decoder,
		exec:    exec,
		tracer:  otel.Tracer(tracerName),
	}
}

func (d *FrameDispatcher) Dispatch(ctx context.Context, data []byte) ([]byte, error) {
	in, req, err := d.decoder.Decode(data)
	if err != nil {
		reply, encErr := frame.EncodeError(frame.TypeError, in.RequestID, err)
		if encErr != nil {
			return nil, encErr
		}
		return reply, err
	}

	ctx, span := d.tracer.Start(ctx, "frame "+string(in.Type), trace.WithAttributes(
		attribute.String("frame.type", string(in.Type)),
		attribute.String("frame.request_id", in.RequestID),
	))
	defer span.End()

	payload, err := d.exec.Execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		reply, encErr := frame.EncodeError(in.Type, in.RequestID, err)
		if encErr != nil {
			return nil, encErr
		}
		return reply, err
	}
	if r, ok := payload.(command.IncomingHitResult); ok && r.Recomputed {
		span.SetAttributes(attribute.Float64("pace.offense", r.Offense), attribute.Float64("pace.defense", r.Defense))
	}

	reply, err := frame.EncodeReply(in.Type, in.RequestID, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode reply", "type", in.Type, "err", err)
		return nil, err
	}
	return reply, nil
}

type statsReply struct {
	command.Stats
	Message string `json:"message"`
}
