package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.AlertNotifier = (*FanOut)(nil)

// Sink canal de entrega con nombre (para logs y errores).
type Sink struct {
	Name     string
	Notifier inventory.AlertNotifier
}

// FanOut entrega cada alerta a todos los canales configurados; un canal caído no
// impide la entrega a los demás.
type FanOut struct {
	sinks []Sink
}

// NewFanOut construye el notificador. Sinks con Notifier nil se ignoran.
func NewFanOut(sinks ...Sink) *FanOut {
	f := &FanOut{}
	for _, s := range sinks {
		if s.Notifier != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Len cantidad de canales activos.
func (f *FanOut) Len() int { return len(f.sinks) }

// NotifyAlert devuelve la unión de los errores de cada canal.
func (f *FanOut) NotifyAlert(ctx context.Context, alert *entity.Alert) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Notifier.NotifyAlert(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
