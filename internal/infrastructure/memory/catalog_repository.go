package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ a access }

// NewCategoryRepository construye el repositorio sobre el store.
func NewCategoryRepository(s *Store) *CategoryRepo { return &CategoryRepo{a: s} }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.categories[c.ID]; ok {
			return fmt.Errorf("categoría %s ya existe", c.ID)
		}
		cp := *c
		d.categories[c.ID] = &cp
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.a.read(func(d *dataset) error {
		if c, ok := d.categories[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.a.read(func(d *dataset) error {
		for _, c := range d.categories {
			cp := *c
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// UnitRepo unidades de medida en memoria.
type UnitRepo struct{ a access }

// NewUnitRepository construye el repositorio sobre el store.
func NewUnitRepository(s *Store) *UnitRepo { return &UnitRepo{a: s} }

func (r *UnitRepo) Create(_ context.Context, u *entity.Unit) error {
	return r.a.write(func(d *dataset) error {
		if _, ok := d.units[u.ID]; ok {
			return fmt.Errorf("unidad %s ya existe", u.ID)
		}
		cp := *u
		d.units[u.ID] = &cp
		return nil
	})
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	var out *entity.Unit
	err := r.a.read(func(d *dataset) error {
		if u, ok := d.units[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *UnitRepo) List(_ context.Context) ([]*entity.Unit, error) {
	var out []*entity.Unit
	err := r.a.read(func(d *dataset) error {
		for _, u := range d.units {
			cp := *u
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// UserRepo usuarios en memoria.
type UserRepo struct{ a access }

// NewUserRepository construye el repositorio sobre el store.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{a: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.write(func(d *dataset) error {
		for _, existing := range d.users {
			if existing.Email == u.Email {
				return fmt.Errorf("email %s: %w", u.Email, domain.ErrEmailAlreadyExists)
			}
		}
		cp := *u
		d.users[u.ID] = &cp
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(d *dataset) error {
		if u, ok := d.users[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(d *dataset) error {
		for _, u := range d.users {
			if u.Email == email {
				cp := *u
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}
