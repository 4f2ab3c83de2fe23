package services

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jasondarel/FastEats-sub001/repository"
)

// Routing keys the outbox knows about.
const (
	RouteOrderPreparing = "order.preparing"
	RouteOrderCompleted = "order.completed"
)

func routingKeys() []string {
	return []string{RouteOrderPreparing, RouteOrderCompleted}
}

// OutboxDispatcher is the publish half of the transactional outbox: a
// worker independent from the request path that drains pending job rows
// into the broker. Delivery is at-least-once; consumers must tolerate
// duplicates.
type OutboxDispatcher struct {
	Jobs        *repository.JobRepository
	Writer      BrokerWriter
	TopicPrefix string
	Interval    time.Duration
	Log         *zap.Logger
}

func NewOutboxDispatcher(jobs *repository.JobRepository, writer BrokerWriter, topicPrefix string, interval time.Duration, log *zap.Logger) *OutboxDispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &OutboxDispatcher{
		Jobs: jobs, Writer: writer, TopicPrefix: topicPrefix,
		Interval: interval, Log: log,
	}
}

// Run drains pending jobs on a ticker until the context is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Flush(ctx)
		}
	}
}

// Flush publishes every pending row once. A failed row is marked
// `failed` and skipped; it never blocks the rest of the batch.
func (d *OutboxDispatcher) Flush(ctx context.Context) {
	for _, key := range routingKeys() {
		jobs, err := d.Jobs.PendingByRoutingKey(key)
		if err != nil {
			d.Log.Error("outbox select failed", zap.String("routingKey", key), zap.Error(err))
			continue
		}
		for _, job := range jobs {
			msg := kafka.Message{
				Topic: d.topic(key),
				Key:   []byte(strconv.FormatUint(uint64(job.ID), 10)),
				Value: []byte(job.Payload),
			}
			if err := d.Writer.WriteMessages(ctx, msg); err != nil {
				d.Log.Error("outbox publish failed",
					zap.Uint("jobId", job.ID),
					zap.String("routingKey", key),
					zap.Error(err))
				if err := d.Jobs.MarkFailed(job.ID); err != nil {
					d.Log.Error("outbox mark failed errored", zap.Uint("jobId", job.ID), zap.Error(err))
				}
				continue
			}
			if err := d.Jobs.MarkPublished(job.ID); err != nil {
				// Crash window between broker ack and this update is the
				// documented duplicate-publish case.
				d.Log.Error("outbox mark published errored", zap.Uint("jobId", job.ID), zap.Error(err))
			}
		}
	}
}

func (d *OutboxDispatcher) topic(routingKey string) string {
	if d.TopicPrefix == "" {
		return routingKey
	}
	return d.TopicPrefix + "." + routingKey
}
