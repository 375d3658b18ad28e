// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con el mismo contrato transaccional que el adaptador postgres
// (decremento condicional, guard optimista de estado, todo-o-nada vía
// snapshot/restore). Respalda los tests de casos de uso y sirve para correr
// la API sin base de datos.
package memory

import (
	"sort"
	"sync"

	"github.com/construtech/obras-api/internal/domain/entity"
)

// Store guarda todas las entidades protegidas por un único RWMutex.
type Store struct {
	mu        sync.RWMutex
	obras     map[string]*entity.Obra
	materials map[string]*entity.Material
	suppliers map[string]*entity.Supplier
	orders    map[string]*entity.Order
	users     map[string]*entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		obras:     make(map[string]*entity.Obra),
		materials: make(map[string]*entity.Material),
		suppliers: make(map[string]*entity.Supplier),
		orders:    make(map[string]*entity.Order),
		users:     make(map[string]*entity.User),
	}
}

// snapshot copia el estado mutable por transacciones (materiales y pedidos).
// Se invoca con el lock tomado.
type snapshot struct {
	materials map[string]*entity.Material
	orders    map[string]*entity.Order
}

func (s *Store) takeSnapshotLocked() snapshot {
	snap := snapshot{
		materials: make(map[string]*entity.Material, len(s.materials)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
	}
	for id, m := range s.materials {
		snap.materials[id] = cloneMaterial(m)
	}
	for id, o := range s.orders {
		snap.orders[id] = cloneOrder(o)
	}
	return snap
}

func (s *Store) restoreSnapshotLocked(snap snapshot) {
	s.materials = snap.materials
	s.orders = snap.orders
}

func cloneMaterial(m *entity.Material) *entity.Material {
	cp := *m
	return &cp
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Lines = make([]entity.OrderLine, len(o.Lines))
	copy(cp.Lines, o.Lines)
	return &cp
}

func cloneSupplier(s *entity.Supplier) *entity.Supplier {
	cp := *s
	cp.Categories = append([]string(nil), s.Categories...)
	return &cp
}

func cloneObra(o *entity.Obra) *entity.Obra {
	cp := *o
	return &cp
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}

// page aplica offset/limit sobre un slice ya ordenado.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// sortedOrdersLocked devuelve los pedidos más recientes primero.
func (s *Store) sortedOrdersLocked() []*entity.Order {
	out := make([]*entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
