package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo movimientos en memoria.
type MovementRepo struct {
	a access
}

// NewMovementRepository construye el repositorio sobre el store.
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{a: s}
}

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.movements[m.ID]; ok {
			return fmt.Errorf("movimiento %s ya existe", m.ID)
		}
		c := *m
		d.movements[m.ID] = &c
		return nil
	})
}

func (r *MovementRepo) Update(_ context.Context, m *entity.InventoryMovement) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.movements[m.ID]; !ok {
			return fmt.Errorf("movimiento %s no existe", m.ID)
		}
		c := *m
		d.movements[m.ID] = &c
		return nil
	})
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(d *dataset) error {
		delete(d.movements, id)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	var out *entity.InventoryMovement
	err := r.a.read(func(d *dataset) error {
		if m, ok := d.movements[id]; ok {
			out = withProductName(d, m)
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, until *time.Time) ([]*entity.InventoryMovement, error) {
	return r.collect(func(d *dataset, m *entity.InventoryMovement) bool {
		return m.ProductID == productID && (until == nil || !m.MovementDate.After(*until))
	})
}

func (r *MovementRepo) ListByFilter(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.collect(func(d *dataset, m *entity.InventoryMovement) bool {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			return false
		}
		if f.Type != "" && m.Type != f.Type {
			return false
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			return false
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			return false
		}
		if f.CategoryID != "" || f.UnitID != "" {
			p, ok := d.products[m.ProductID]
			if !ok {
				return false
			}
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				return false
			}
			if f.UnitID != "" && p.UnitID != f.UnitID {
				return false
			}
		}
		return true
	})
}

func (r *MovementRepo) ListRecent(_ context.Context, limit int) ([]*entity.InventoryMovement, error) {
	all, err := r.collect(func(*dataset, *entity.InventoryMovement) bool { return true })
	if err != nil {
		return nil, err
	}
	// cronológico inverso
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *MovementRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	err := r.a.read(func(d *dataset) error {
		for _, m := range d.movements {
			if !m.MovementDate.Before(since) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// collect copia los movimientos que cumplen keep en orden cronológico.
func (r *MovementRepo) collect(keep func(d *dataset, m *entity.InventoryMovement) bool) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.a.read(func(d *dataset) error {
		for _, m := range d.movements {
			if keep(d, m) {
				out = append(out, withProductName(d, m))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	inventory.SortChronologically(out)
	return out, nil
}

func withProductName(d *dataset, m *entity.InventoryMovement) *entity.InventoryMovement {
	c := *m
	if p, ok := d.products[m.ProductID]; ok {
		c.ProductName = p.Name
	}
	return &c
}

// sortAlertsNewestFirst orden de listados de alertas: TriggeredAt desc, luego ID.
func sortAlertsNewestFirst(list []*entity.Alert) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].TriggeredAt.Equal(list[j].TriggeredAt) {
			return list[i].TriggeredAt.After(list[j].TriggeredAt)
		}
		return list[i].ID > list[j].ID
	})
}
