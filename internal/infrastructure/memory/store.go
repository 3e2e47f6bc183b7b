// Package memory implementa los puertos de persistencia en memoria, para desarrollo y pruebas.
//
// Orden de bloqueo: celda del producto -> Store.mu -> Store.ledgerMu. Ninguna operación toma
// los candados en otro orden.
package memory

import (
	"sync"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// cell serializa las unidades atómicas de un producto.
type cell struct {
	mu      sync.Mutex
	deleted bool
}

// Store mantiene todo el estado en memoria. Los repositorios son vistas sobre el mismo Store.
type Store struct {
	mu         sync.RWMutex
	products   map[string]*entity.Product
	cells      map[string]*cell
	categories map[string]*entity.Category
	suppliers  map[string]*entity.Supplier
	users      map[string]*entity.User

	ledgerMu  sync.RWMutex
	movements []*entity.StockMovement
	nextID    int64
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		cells:      make(map[string]*cell),
		categories: make(map[string]*entity.Category),
		suppliers:  make(map[string]*entity.Supplier),
		users:      make(map[string]*entity.User),
	}
}

func (s *Store) cellFor(productID string) *cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cells[productID]
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func copyMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	return &cp
}
