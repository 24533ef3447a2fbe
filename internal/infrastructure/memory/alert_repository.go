package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas en memoria.
type AlertRepo struct {
	a access
}

// NewAlertRepository construye el repositorio sobre el store.
func NewAlertRepository(s *Store) *AlertRepo {
	return &AlertRepo{a: s}
}

func (r *AlertRepo) Create(_ context.Context, alert *entity.Alert) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.alerts[alert.ID]; ok {
			return fmt.Errorf("alerta %s ya existe", alert.ID)
		}
		c := *alert
		d.alerts[alert.ID] = &c
		return nil
	})
}

func (r *AlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	var out *entity.Alert
	err := r.a.read(func(d *dataset) error {
		if a, ok := d.alerts[id]; ok {
			out = alertView(d, a)
		}
		return nil
	})
	return out, err
}

func (r *AlertRepo) ListUnread(_ context.Context) ([]*entity.Alert, error) {
	return r.collect(func(a *entity.Alert) bool { return !a.IsRead })
}

func (r *AlertRepo) ListAll(_ context.Context) ([]*entity.Alert, error) {
	return r.collect(func(*entity.Alert) bool { return true })
}

func (r *AlertRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Alert, error) {
	return r.collect(func(a *entity.Alert) bool { return a.ProductID == productID })
}

func (r *AlertRepo) MarkRead(_ context.Context, ids ...string) (int, error) {
	n := 0
	err := r.a.write(func(d *dataset) error {
		for _, id := range ids {
			if a, ok := d.alerts[id]; ok && !a.IsRead {
				a.IsRead = true
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AlertRepo) MarkAllRead(_ context.Context) (int, error) {
	n := 0
	err := r.a.write(func(d *dataset) error {
		for _, a := range d.alerts {
			if !a.IsRead {
				a.IsRead = true
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AlertRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(d *dataset) error {
		delete(d.alerts, id)
		return nil
	})
}

func (r *AlertRepo) DetachMovement(_ context.Context, movementID string) error {
	return r.a.write(func(d *dataset) error {
		for _, a := range d.alerts {
			if a.MovementID == movementID {
				a.MovementID = ""
			}
		}
		return nil
	})
}

func (r *AlertRepo) CountUnread(_ context.Context) (int, error) {
	n := 0
	err := r.a.read(func(d *dataset) error {
		for _, a := range d.alerts {
			if !a.IsRead {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AlertRepo) collect(keep func(a *entity.Alert) bool) ([]*entity.Alert, error) {
	var out []*entity.Alert
	err := r.a.read(func(d *dataset) error {
		for _, a := range d.alerts {
			if keep(a) {
				out = append(out, alertView(d, a))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortAlertsNewestFirst(out)
	return out, nil
}

func alertView(d *dataset, a *entity.Alert) *entity.Alert {
	c := *a
	if p, ok := d.products[a.ProductID]; ok {
		c.ProductName = p.Name
	}
	return &c
}
