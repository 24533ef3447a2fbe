package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	a access
}

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{a: s}
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.products[p.ID]; ok {
			return fmt.Errorf("producto %s ya existe", p.ID)
		}
		c := *p
		d.products[p.ID] = &c
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: las transacciones ya son exclusivas.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.products[p.ID]; !ok {
			return fmt.Errorf("producto %s no existe", p.ID)
		}
		c := *p
		d.products[p.ID] = &c
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.read(func(d *dataset) error {
		for _, p := range d.products {
			c := *p
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.a.read(func(d *dataset) error {
		n = len(d.products)
		return nil
	})
	return n, err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(d *dataset) error {
		delete(d.products, id)
		return nil
	})
}
