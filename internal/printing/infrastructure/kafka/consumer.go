package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"restaurant-pos/internal/order/domain"
	"restaurant-pos/internal/printing/application"
	"restaurant-pos/pkg/idempotency"
	"restaurant-pos/pkg/tracing"
)

// Consumer pulls print jobs off the print topic. Jobs are deduplicated
// by job id so a redelivered message never prints a second ticket.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("print-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		var req domain.PrintRequest
		if err := json.Unmarshal(msg.Value, &req); err != nil {
			c.log.Error("print job unmarshal failed", "err", err)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		seen, err := c.idem.Seen(ctx, idempotency.PrintKey(req.JobID))
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate print job skipped", "job_id", req.JobID)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ProcessPrintJob")

		if err := c.svc.Process(msgCtx, req); err != nil {
			c.log.Error("print job failed", "job_id", req.JobID, "order_id", req.Order.ID, "err", err)
		} else {
			c.log.Info("print job done", "job_id", req.JobID, "order_id", req.Order.ID)
		}
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}
