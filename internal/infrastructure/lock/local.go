// Package lock implementa las políticas de serialización de escrituras por producto.
package lock

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.ProductLocker = (*LocalLocker)(nil)

// LocalLocker mutex por producto dentro del proceso (LOCK_POLICY=local).
// Solo sirve con una instancia del servicio.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*slot
}

type slot struct {
	ch   chan struct{} // capacidad 1: lleno = tomado
	refs int
}

// NewLocalLocker construye el locker vacío.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]*slot)}
}

// Lock espera el candado de productID o hasta que ctx termine.
func (l *LocalLocker) Lock(ctx context.Context, productID string) (func(), error) {
	s := l.acquire(productID)
	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(productID)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(productID)
		})
	}, nil
}

func (l *LocalLocker) acquire(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.keys[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.keys[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.keys[key]
	s.refs--
	if s.refs == 0 {
		delete(l.keys, key)
	}
}

// Held cantidad de productos con candado tomado o en espera.
func (l *LocalLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}
