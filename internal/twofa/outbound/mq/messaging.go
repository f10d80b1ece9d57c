package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/pkg/messaging"
	"github.com/shandysiswandi/seedotp/internal/shared/event"
	"github.com/shandysiswandi/seedotp/internal/twofa/usecase"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishSeedRotated(ctx context.Context, msg usecase.SeedRotatedEvent) error {
	ctx, span := m.ins.Tracer("twofa.outbound.mq").Start(ctx, "PublishSeedRotated")
	defer span.End()

	body, err := json.Marshal(event.SeedRotatedMessage{
		Fingerprint: msg.Fingerprint,
		RotatedAt:   msg.RotatedAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	msgOut := messaging.Message{Key: msg.Fingerprint, Body: body}
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		msgOut.Headers = map[string]string{keyOfCorrelationID: cID}
	}

	if err := m.client.Publish(ctx, event.SeedRotatedDestination, msgOut); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
