// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORE_DRIVER=memory (desarrollo) y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// dataset contenido completo del store.
type dataset struct {
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	units      map[string]*entity.Unit
	movements  map[string]*entity.InventoryMovement
	alerts     map[string]*entity.Alert
	users      map[string]*entity.User
}

func newDataset() *dataset {
	return &dataset{
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		units:      make(map[string]*entity.Unit),
		movements:  make(map[string]*entity.InventoryMovement),
		alerts:     make(map[string]*entity.Alert),
		users:      make(map[string]*entity.User),
	}
}

func cloneMap[T any](src map[string]*T) map[string]*T {
	dst := make(map[string]*T, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func (d *dataset) clone() *dataset {
	return &dataset{
		products:   cloneMap(d.products),
		categories: cloneMap(d.categories),
		units:      cloneMap(d.units),
		movements:  cloneMap(d.movements),
		alerts:     cloneMap(d.alerts),
		users:      cloneMap(d.users),
	}
}

// access abstrae cómo un repositorio llega a los datos: con bloqueo (Store) o
// directo sobre la copia de trabajo de una transacción.
type access interface {
	read(fn func(d *dataset) error) error
	write(fn func(d *dataset) error) error
}

// Store almacén thread-safe en memoria.
type Store struct {
	mu sync.RWMutex
	d  *dataset
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newDataset()}
}

func (s *Store) read(fn func(d *dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.d)
}

func (s *Store) write(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

// txAccess opera sobre la copia de trabajo; el Store ya está bloqueado por el TxRunner.
type txAccess struct{ d *dataset }

func (t txAccess) read(fn func(d *dataset) error) error  { return fn(t.d) }
func (t txAccess) write(fn func(d *dataset) error) error { return fn(t.d) }

// TxRunner transacciones en memoria: fn trabaja sobre una copia que se publica solo si no hay error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run serializa las transacciones (bloqueo exclusivo) y descarta la copia si fn falla.
// Cada Run copia el dataset completo: una escritura cuesta O(filas totales) y bloquea
// a los lectores mientras dura. Es un store de desarrollo y tests; en producción se usa
// el driver postgres.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := txAccess{d: r.store.d.clone()}
	if err := fn(
		&MovementRepo{a: work},
		&AlertRepo{a: work},
		&ProductRepo{a: work},
	); err != nil {
		return err
	}
	r.store.d = work.d
	return nil
}
