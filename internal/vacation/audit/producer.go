// Package audit publishes audit records for every business mutation to a
// Kafka topic. Recording is fire-and-forget: a slow or failing broker must
// never abort the triggering business transaction.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// Action names a business mutation in the audit trail.
type Action string

const (
	ActionCreateVacation  Action = "CREATE_VACATION"
	ActionUpdateVacation  Action = "UPDATE_VACATION"
	ActionCancelVacation  Action = "CANCEL_VACATION"
	ActionApproveVacation Action = "APPROVE_VACATION"
	ActionRejectVacation  Action = "REJECT_VACATION"
	ActionCreateEmployee  Action = "CREATE_EMPLOYEE"
	ActionUpdateEmployee  Action = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee  Action = "DELETE_EMPLOYEE"
)

// Record is one entry in the audit trail.
type Record struct {
	ActorID    uuid.UUID         `json:"actor_id"`
	ActorRole  models.Role       `json:"actor_role"`
	Action     Action            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   uuid.UUID         `json:"entity_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers audit records and writes them to Kafka from a background
// loop, dropping records when the buffer is full rather than blocking the
// caller.
type Producer struct {
	writer    KafkaWriter
	records   chan Record
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		records:   make(chan Record, 1000),
		logger:    logger.Named("audit_producer"),
		closeChan: make(chan struct{}),
	}

	go p.recordLoop()
	return p, nil
}

// Record enqueues an audit entry for the given actor and entity. It never
// blocks and never fails from the caller's point of view.
func (p *Producer) Record(actor models.Identity, action Action, entityType string, entityID uuid.UUID, metadata map[string]string) {
	record := Record{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
		RecordedAt: time.Now().UTC(),
	}
	select {
	case p.records <- record:
	default:
		p.logger.Warn("audit queue full, dropping record",
			zap.String("action", string(action)),
			zap.String("entity_id", entityID.String()),
		)
	}
}

func (p *Producer) recordLoop() {
	for {
		select {
		case record := <-p.records:
			p.sendRecord(context.Background(), record)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendRecord(ctx context.Context, record Record) {
	value, err := jsonMarshal(record)
	if err != nil {
		p.logger.Error("failed to serialize audit record",
			zap.Error(err),
			zap.String("entity_id", record.EntityID.String()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.EntityID.String()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish audit record",
			zap.Error(err),
			zap.String("action", string(record.Action)),
			zap.String("entity_id", record.EntityID.String()),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("failed to close Kafka writer", zap.Error(err))
	}
}
