package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func sampleAlert() *entity.Alert {
	return &entity.Alert{
		ID: "a1", ProductID: "p1", ProductName: "Arroz 500g", MovementID: "m1",
		Type: entity.AlertTypeUnderstock, Balance: decimal.NewFromInt(5),
		ThresholdMin: 10, ThresholdMax: 100,
		TriggeredAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestEmailNotifier_ArmaElMensaje(t *testing.T) {
	var gotTo []string
	var raw bytes.Buffer
	sender := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		gotTo = to
		_, err := msg.WriteTo(&raw)
		return err
	})
	n := NewEmailNotifierWithSender(sender, "alertas@x.co", []string{"bodega@x.co"})

	require.NoError(t, n.NotifyAlert(context.Background(), sampleAlert()))
	assert.Equal(t, []string{"bodega@x.co"}, gotTo)
	assert.Contains(t, raw.String(), "Stock bajo: Arroz 500g")
	assert.Contains(t, raw.String(), "Rango permitido: [10, 100]")
}

func TestEmailNotifier_SinDestinatariosNoEnvia(t *testing.T) {
	sender := gomail.SendFunc(func(string, []string, io.WriterTo) error {
		t.Fatal("no debe enviar")
		return nil
	})
	assert.NoError(t, NewEmailNotifierWithSender(sender, "a@x.co", nil).NotifyAlert(context.Background(), sampleAlert()))
}

func TestSubject(t *testing.T) {
	a := sampleAlert()
	a.Type = entity.AlertTypeOverstock
	a.ProductName = ""
	assert.Equal(t, "[Inventario] Sobrestock: p1", Subject(a))
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}
func (w *fakeWriter) Close() error { return nil }

func TestKafkaNotifier_PublicaEvento(t *testing.T) {
	w := &fakeWriter{}
	n := &KafkaNotifier{writer: w}

	require.NoError(t, n.NotifyAlert(context.Background(), sampleAlert()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "p1", string(w.msgs[0].Key))

	var ev AlertEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, EventAlertCreated, ev.EventType)
	assert.Equal(t, "UNDERSTOCK", ev.AlertType)
	assert.True(t, ev.Balance.Equal(decimal.NewFromInt(5)))
}

func TestKafkaNotifier_PropagaError(t *testing.T) {
	n := &KafkaNotifier{writer: &fakeWriter{err: errors.New("broker caído")}}
	assert.Error(t, n.NotifyAlert(context.Background(), sampleAlert()))
}
