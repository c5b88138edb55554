package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/logx"
)

// HandleFunc processes a single ShipCommand from Kafka.
type HandleFunc func(context.Context, ShipCommand) error

// Consumer wraps a Sarama consumer group and dispatches ship commands to a
// handler.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	logger  logx.Logger
}

// newConsumerGroup is swapped in tests.
var newConsumerGroup = sarama.NewConsumerGroup

// NewConsumer creates a new Kafka consumer. With no brokers, topic or group
// configured it returns nil: the deployment runs without async intake.
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		topic:   topic,
		handler: h,
		logger:  logger,
	}, nil
}

// Run starts the consumer and blocks until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("kafka consume error", logx.Err(err))
			time.Sleep(time.Second)
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim drains one partition claim. Malformed commands and fatal
// handler failures are marked and skipped; retryable failures leave the
// message unmarked so the group redelivers it.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var dto ShipCommandDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			h.c.logger.Warn("kafka bad json", logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		cmd := ToDomain(dto)
		if cmd.OrderID == "" {
			h.c.logger.Warn("kafka empty order_id")
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), cmd); err != nil {
			// A canceled session means shutdown or rebalance, not a bad
			// message. Leave it unmarked for the next session.
			if sess.Context().Err() != nil {
				return nil
			}
			if apperr.Retryable(err) {
				h.c.logger.Warn("kafka handle failed, will retry",
					logx.String("order_id", cmd.OrderID),
					logx.Err(err))
				return err
			}
			h.c.logger.Error("kafka handle failed, skipping message",
				logx.String("order_id", cmd.OrderID),
				logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}
