package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.AlertNotifier = (*KafkaNotifier)(nil)

// EventAlertCreated tipo de evento publicado.
const EventAlertCreated = "inventory.alert.created"

const kafkaWriteTimeout = 5 * time.Second

// AlertEvent payload JSON publicado por cada alerta.
type AlertEvent struct {
	EventType    string          `json:"event_type"`
	AlertID      string          `json:"alert_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	MovementID   string          `json:"movement_id,omitempty"`
	AlertType    string          `json:"alert_type"`
	Balance      decimal.Decimal `json:"balance"`
	ThresholdMin int             `json:"threshold_min"`
	ThresholdMax int             `json:"threshold_max"`
	TriggeredAt  time.Time       `json:"triggered_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publica alertas en un topic; la key es el producto para conservar el orden por producto.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier construye el writer sobre brokers/topic.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (n *KafkaNotifier) NotifyAlert(ctx context.Context, a *entity.Alert) error {
	ctx, cancel := context.WithTimeout(ctx, kafkaWriteTimeout)
	defer cancel()
	value, err := json.Marshal(NewAlertEvent(a))
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(a.ProductID), Value: value}); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	return nil
}

// Close libera el writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NewAlertEvent arma el evento a partir de la alerta.
func NewAlertEvent(a *entity.Alert) AlertEvent {
	return AlertEvent{
		EventType:    EventAlertCreated,
		AlertID:      a.ID,
		ProductID:    a.ProductID,
		ProductName:  a.ProductName,
		MovementID:   a.MovementID,
		AlertType:    string(a.Type),
		Balance:      a.Balance,
		ThresholdMin: a.ThresholdMin,
		ThresholdMax: a.ThresholdMax,
		TriggeredAt:  a.TriggeredAt,
	}
}
