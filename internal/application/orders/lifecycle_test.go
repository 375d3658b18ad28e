package orders_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/application/orders"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
	"github.com/construtech/obras-api/internal/infrastructure/memory"
)

// env arma un ciclo de vida completo sobre el store en memoria.
type env struct {
	store        *memory.Store
	materialRepo *memory.MaterialRepo
	orderRepo    *memory.OrderRepo
	lifecycle    *orders.Lifecycle
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	obraRepo := memory.NewObraRepository(store)
	materialRepo := memory.NewMaterialRepository(store)
	orderRepo := memory.NewOrderRepository(store)
	txRunner := memory.NewTxRunner(store)

	now := time.Now()
	require.NoError(t, obraRepo.Create(&entity.Obra{
		ID:        "obra-1",
		Name:      "Residencial Teste",
		Budget:    dec("1000000"),
		CreatedAt: now,
		UpdatedAt: now,
	}))

	return &env{
		store:        store,
		materialRepo: materialRepo,
		orderRepo:    orderRepo,
		lifecycle:    orders.NewLifecycle(txRunner, orderRepo, obraRepo, materialRepo),
	}
}

func admin() entity.Actor {
	return entity.Actor{ID: "adm-1", Name: "Admin", Role: entity.RoleAdmin}
}

func (e *env) submit(t *testing.T, actor entity.Actor, items ...dto.OrderItemRequest) *entity.Order {
	t.Helper()
	order, err := e.lifecycle.Submit(context.Background(), actor, dto.CreateOrderRequest{
		ObraID: "obra-1",
		Items:  items,
	})
	require.NoError(t, err)
	return order
}

func (e *env) stock(t *testing.T, materialID string) string {
	t.Helper()
	m, err := e.materialRepo.GetByID(materialID)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Quantity.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestLifecycle_Submit_SellaPendingConCodigo(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "32.90", entity.StatusActive)

	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("5")})

	assert.Equal(t, entity.OrderPending, order.Status)
	assert.NotEmpty(t, order.ID)
	assert.Regexp(t, `^\d{4}_\d{8}$`, order.Code, "código visible DDMM_HHMMSSRR")
	assert.Equal(t, "Residencial Teste", order.ObraName)

	// Enviar no toca el stock: el descuento ocurre recién al aprobar.
	assert.Equal(t, "100", e.stock(t, "m1"))

	stored, err := e.orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "el pedido debe quedar persistido")
	assert.Equal(t, entity.OrderPending, stored.Status)
}

func TestLifecycle_Submit_PedidoVacio(t *testing.T) {
	e := newEnv(t)
	_, err := e.lifecycle.Submit(context.Background(), solicitante(), dto.CreateOrderRequest{ObraID: "obra-1"})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestLifecycle_Submit_ObraInexistente(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)

	_, err := e.lifecycle.Submit(context.Background(), admin(), dto.CreateOrderRequest{
		ObraID: "obra-fantasma",
		Items:  []dto.OrderItemRequest{{MaterialID: "m1", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSite)
}

func TestLifecycle_Submit_SolicitanteSoloParaSuObra(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)

	otro := entity.Actor{ID: "u-2", Name: "Maria", Role: entity.RoleUser, ObraID: "obra-otra"}
	_, err := e.lifecycle.Submit(context.Background(), otro, dto.CreateOrderRequest{
		ObraID: "obra-1",
		Items:  []dto.OrderItemRequest{{MaterialID: "m1", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLifecycle_Submit_LineaConMaterialDesconocidoNoDejaRastro(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)

	_, err := e.lifecycle.Submit(context.Background(), solicitante(), dto.CreateOrderRequest{
		ObraID: "obra-1",
		Items: []dto.OrderItemRequest{
			{MaterialID: "m1", Quantity: dec("1")},
			{MaterialID: "no-existe", Quantity: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownMaterial)

	views, err := e.lifecycle.List(admin(), "", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, views, "un envío fallido no debe persistir ningún pedido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de stock en la aprobación.
// ──────────────────────────────────────────────────────────────────────────────

// Material con 10 en stock, línea por 5: al aprobar quedan 5. (Escenario M1)
func TestLifecycle_Approve_DescontoExacto(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "10", "10", entity.StatusActive)

	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("5")})
	require.NoError(t, e.lifecycle.Approve(context.Background(), admin(), order.ID))

	assert.Equal(t, "5", e.stock(t, "m1"))
	stored, _ := e.orderRepo.GetByID(order.ID)
	assert.Equal(t, entity.OrderApproved, stored.Status)
}

// Línea por 15 contra 10 en stock: la aprobación falla y nada cambia.
func TestLifecycle_Approve_StockInsuficienteNoCambiaNada(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "10", "10", entity.StatusActive)

	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("15")})
	err := e.lifecycle.Approve(context.Background(), admin(), order.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, "10", e.stock(t, "m1"), "el stock debe quedar intacto")
	stored, _ := e.orderRepo.GetByID(order.ID)
	assert.Equal(t, entity.OrderPending, stored.Status, "el pedido sigue PENDING y puede reintentar")
}

// Multilinea: si la segunda línea no alcanza, el descuento de la primera
// se revierte por completo.
func TestLifecycle_Approve_FallaParcialRevierteTodo(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)
	seedMaterial(t, e.materialRepo, "m2", "Areia", "3", "20", entity.StatusActive)

	order := e.submit(t, solicitante(),
		dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("50")},
		dto.OrderItemRequest{MaterialID: "m2", Quantity: dec("5")},
	)
	err := e.lifecycle.Approve(context.Background(), admin(), order.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, "100", e.stock(t, "m1"), "ninguna cantidad queda parcialmente aplicada")
	assert.Equal(t, "3", e.stock(t, "m2"))
}

// Reintento después de reponer: el pedido quedó PENDING y ahora pasa.
func TestLifecycle_Approve_ReintentoTrasReposicion(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "10", "10", entity.StatusActive)

	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("15")})
	require.ErrorIs(t, e.lifecycle.Approve(context.Background(), admin(), order.ID), domain.ErrInsufficientStock)

	require.NoError(t, e.materialRepo.AddQuantity("m1", dec("10")))
	require.NoError(t, e.lifecycle.Approve(context.Background(), admin(), order.ID))
	assert.Equal(t, "5", e.stock(t, "m1"))
}

func TestLifecycle_Approve_SoloAdmin(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "10", "10", entity.StatusActive)

	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("1")})
	err := e.lifecycle.Approve(context.Background(), solicitante(), order.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "10", e.stock(t, "m1"))
}

func TestLifecycle_Approve_PedidoInexistente(t *testing.T) {
	e := newEnv(t)
	err := e.lifecycle.Approve(context.Background(), admin(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestLifecycle_TransicionesInvalidas(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)
	ctx := context.Background()

	// PENDING -> COMPLETED directo no existe
	p := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("1")})
	assert.ErrorIs(t, e.lifecycle.Complete(ctx, admin(), p.ID), domain.ErrInvalidTransition)

	// Doble aprobación
	a := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("1")})
	require.NoError(t, e.lifecycle.Approve(ctx, admin(), a.ID))
	assert.ErrorIs(t, e.lifecycle.Approve(ctx, admin(), a.ID), domain.ErrInvalidTransition,
		"aprobar dos veces no debe descontar dos veces")
	assert.Equal(t, "99", e.stock(t, "m1"), "solo la única aprobación descontó")

	// APPROVED -> REJECTED no existe
	assert.ErrorIs(t, e.lifecycle.Reject(ctx, admin(), a.ID, "tarde"), domain.ErrInvalidTransition)

	// REJECTED es terminal
	r := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("1")})
	require.NoError(t, e.lifecycle.Reject(ctx, admin(), r.ID, "sin presupuesto"))
	assert.ErrorIs(t, e.lifecycle.Approve(ctx, admin(), r.ID), domain.ErrInvalidTransition)
	assert.ErrorIs(t, e.lifecycle.Complete(ctx, admin(), r.ID), domain.ErrInvalidTransition)

	// COMPLETED es terminal
	require.NoError(t, e.lifecycle.Complete(ctx, admin(), a.ID))
	assert.ErrorIs(t, e.lifecycle.Approve(ctx, admin(), a.ID), domain.ErrInvalidTransition)
}

func TestLifecycle_Reject_GuardaMotivoSinTocarStock(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "10", "10", entity.StatusActive)

	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("5")})
	require.NoError(t, e.lifecycle.Reject(context.Background(), admin(), order.ID, "fuera de presupuesto"))

	stored, _ := e.orderRepo.GetByID(order.ID)
	assert.Equal(t, entity.OrderRejected, stored.Status)
	assert.Equal(t, "fuera de presupuesto", stored.RejectionReason)
	assert.Equal(t, "10", e.stock(t, "m1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos aprobaciones compitiendo por el mismo stock
// ──────────────────────────────────────────────────────────────────────────────

func TestLifecycle_Approve_ConcurrenteNuncaSobregira(t *testing.T) {
	e := newEnv(t)
	// Stock alcanza exactamente para uno de los dos pedidos de 7
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "7", "10", entity.StatusActive)

	o1 := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("7")})
	o2 := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("7")})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{o1.ID, o2.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = e.lifecycle.Approve(context.Background(), admin(), id)
		}(i, id)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una aprobación debe ganar")
	assert.Equal(t, "0", e.stock(t, "m1"), "el stock nunca baja de cero")
}

func TestLifecycle_Approve_MuchosConcurrentesContraStockLimitado(t *testing.T) {
	e := newEnv(t)
	// 10 pedidos de 3 contra 12 en stock: como máximo 4 pueden aprobarse
	seedMaterial(t, e.materialRepo, "m1", "Vergalhão", "12", "45.50", entity.StatusActive)

	const n = 10
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		o := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("3")})
		ids[i] = o.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.lifecycle.Approve(context.Background(), admin(), ids[i])
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 4, ok, "12 de stock / 3 por pedido = 4 aprobaciones")
	assert.Equal(t, "0", e.stock(t, "m1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / List proyectados por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestLifecycle_Get_ProyectadoPorRol(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "32.90", entity.StatusActive)

	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("2")})

	adm, err := e.lifecycle.Get(admin(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, adm.Subtotal, "admin ve el subtotal")
	assert.True(t, adm.Subtotal.Equal(dec("65.80")))

	own, err := e.lifecycle.Get(solicitante(), order.ID)
	require.NoError(t, err)
	assert.Nil(t, own.Subtotal, "el solicitante no ve datos financieros")
	assert.Nil(t, own.Lines[0].UnitCost)

	otro := entity.Actor{ID: "u-99", Role: entity.RoleUser}
	_, err = e.lifecycle.Get(otro, order.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un solicitante ajeno no ve el pedido")
}

func TestLifecycle_List_FiltradoPorRol(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)

	mine := solicitante()
	for i := 0; i < 3; i++ {
		e.submit(t, mine, dto.OrderItemRequest{MaterialID: "m1", Quantity: dec(fmt.Sprintf("%d", i+1))})
	}
	adminActor := admin()
	adminOrder, err := e.lifecycle.Submit(context.Background(), adminActor, dto.CreateOrderRequest{
		ObraID: "obra-1",
		Items:  []dto.OrderItemRequest{{MaterialID: "m1", Quantity: dec("1")}},
	})
	require.NoError(t, err)

	all, err := e.lifecycle.List(adminActor, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4, "admin ve todos los pedidos")

	own, err := e.lifecycle.List(mine, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, own, 3, "el solicitante solo ve los suyos")
	for _, v := range own {
		assert.Equal(t, mine.ID, v.RequesterID)
		assert.NotEqual(t, adminOrder.ID, v.ID)
	}
}

func TestLifecycle_List_FiltroPorObra(t *testing.T) {
	e := newEnv(t)
	now := time.Now()
	require.NoError(t, memory.NewObraRepository(e.store).Create(&entity.Obra{
		ID:        "obra-2",
		Name:      "Galpão Norte",
		Budget:    dec("500000"),
		CreatedAt: now,
		UpdatedAt: now,
	}))
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)

	e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("1")})
	e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("2")})

	otra := entity.Actor{ID: "u-2", Name: "Maria", Role: entity.RoleUser, ObraID: "obra-2"}
	_, err := e.lifecycle.Submit(context.Background(), otra, dto.CreateOrderRequest{
		ObraID: "obra-2",
		Items:  []dto.OrderItemRequest{{MaterialID: "m1", Quantity: dec("3")}},
	})
	require.NoError(t, err)

	filtrados, err := e.lifecycle.List(admin(), "obra-2", 20, 0)
	require.NoError(t, err)
	require.Len(t, filtrados, 1, "el filtro por obra restringe el listado del admin")
	assert.Equal(t, "obra-2", filtrados[0].ObraID)

	// Para un solicitante el filtro se ignora: sigue viendo solo lo propio.
	own, err := e.lifecycle.List(otra, "obra-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, otra.ID, own[0].RequesterID)
}

// staleOrderRepo devuelve una lectura desactualizada del pedido indicado:
// simula a un actor que decide sobre un estado que otro ya cambió entre su
// lectura y su escritura.
type staleOrderRepo struct {
	repository.OrderRepository
	staleID string
	staleAs string
}

func (r *staleOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, err := r.OrderRepository.GetByID(id)
	if err != nil || o == nil || o.ID != r.staleID {
		return o, err
	}
	o.Status = r.staleAs
	return o, nil
}

// Una transición decidida sobre una lectura desactualizada pierde el guard
// optimista de estado y se reporta como modificación concurrente, no como
// transición inválida: el caller puede releer y reintentar o abortar.
func TestLifecycle_Transicion_LecturaDesactualizadaReportaConcurrencia(t *testing.T) {
	e := newEnv(t)
	seedMaterial(t, e.materialRepo, "m1", "Cimento", "100", "10", entity.StatusActive)
	order := e.submit(t, solicitante(), dto.OrderItemRequest{MaterialID: "m1", Quantity: dec("2")})

	adminActor := admin()
	require.NoError(t, e.lifecycle.Approve(context.Background(), adminActor, order.ID))

	// Otro proceso sigue viendo el pedido PENDING aunque ya fue aprobado.
	stale := &staleOrderRepo{OrderRepository: e.orderRepo, staleID: order.ID, staleAs: entity.OrderPending}
	rezagado := orders.NewLifecycle(memory.NewTxRunner(e.store), stale, memory.NewObraRepository(e.store), e.materialRepo)

	err := rezagado.Reject(context.Background(), adminActor, order.ID, "sin presupuesto")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	actual, err := e.orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderApproved, actual.Status, "la transición perdida no muta el pedido")

	// Mismo race sobre APPROVED: otro actor lo completa primero.
	require.NoError(t, e.lifecycle.Complete(context.Background(), adminActor, order.ID))
	stale.staleAs = entity.OrderApproved

	err = rezagado.Complete(context.Background(), adminActor, order.ID)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}
