package policy_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construtech/obras-api/internal/application/policy"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:            "o-1",
		Code:          "0503_14302241",
		ObraID:        "obra-1",
		RequesterID:   "u-1",
		RequesterName: "João",
		Priority:      entity.PriorityMedium,
		Status:        entity.OrderPending,
		Lines: []entity.OrderLine{
			{
				MaterialID: "m1",
				Name:       "Cimento",
				Unit:       "saco",
				Quantity:   dec("10"),
				UnitCost:   dec("32.90"),
				Total:      dec("329.00"),
				StockAtAdd: dec("8"),
			},
		},
	}
}

func adminActor() entity.Actor {
	return entity.Actor{ID: "adm-1", Role: entity.RoleAdmin}
}

func ownerActor() entity.Actor {
	return entity.Actor{ID: "u-1", Role: entity.RoleUser, ObraID: "obra-1"}
}

func TestForRole_Capacidades(t *testing.T) {
	adm := policy.ForRole(entity.RoleAdmin)
	assert.True(t, adm.ApproveOrders)
	assert.True(t, adm.EditMaterials)
	assert.True(t, adm.ViewFinancials)
	assert.True(t, adm.ViewAllOrders)

	usr := policy.ForRole(entity.RoleUser)
	assert.False(t, usr.ApproveOrders)
	assert.False(t, usr.EditMaterials)
	assert.False(t, usr.ViewFinancials)
	assert.False(t, usr.ViewAllOrders)

	desconocido := policy.ForRole("gerente")
	assert.Equal(t, policy.Capabilities{}, desconocido,
		"rol desconocido no recibe ninguna capacidad")
}

func TestProjectOrder_AdminVeTodo(t *testing.T) {
	view, err := policy.ProjectOrder(adminActor(), sampleOrder())
	require.NoError(t, err)

	require.NotNil(t, view.Subtotal)
	assert.True(t, view.Subtotal.Equal(dec("329.00")))
	require.Len(t, view.Lines, 1)
	require.NotNil(t, view.Lines[0].UnitCost)
	assert.True(t, view.Lines[0].UnitCost.Equal(dec("32.90")))
	require.NotNil(t, view.Lines[0].StockShort)
	assert.True(t, *view.Lines[0].StockShort, "10 pedidos contra 8 en stock al armar")
}

func TestProjectOrder_UserNoVeDatosFinancieros(t *testing.T) {
	view, err := policy.ProjectOrder(ownerActor(), sampleOrder())
	require.NoError(t, err)

	assert.Nil(t, view.Subtotal)
	require.Len(t, view.Lines, 1)
	assert.Nil(t, view.Lines[0].UnitCost)
	assert.Nil(t, view.Lines[0].Total)
	assert.Nil(t, view.Lines[0].StockShort)

	// La cantidad y el snapshot descriptivo sí son visibles
	assert.True(t, view.Lines[0].Quantity.Equal(dec("10")))
	assert.Equal(t, "Cimento", view.Lines[0].Name)
}

// El JSON serializado para el rol user no debe contener los campos
// financieros ni siquiera como claves.
func TestProjectOrder_UserJSONSinCamposFinancieros(t *testing.T) {
	view, err := policy.ProjectOrder(ownerActor(), sampleOrder())
	require.NoError(t, err)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	s := string(raw)
	assert.NotContains(t, s, "unit_cost")
	assert.NotContains(t, s, "subtotal")
	assert.NotContains(t, s, `"total"`)
	assert.NotContains(t, s, "stock_short")
}

func TestProjectOrder_SolicitanteAjenoNoVe(t *testing.T) {
	otro := entity.Actor{ID: "u-2", Role: entity.RoleUser}
	_, err := policy.ProjectOrder(otro, sampleOrder())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProjectOrder_NoMutaLaEntidad(t *testing.T) {
	order := sampleOrder()
	_, err := policy.ProjectOrder(ownerActor(), order)
	require.NoError(t, err)

	// La proyección es pura: la entidad conserva sus valores financieros
	assert.True(t, order.Lines[0].UnitCost.Equal(dec("32.90")))
	assert.True(t, order.Subtotal().Equal(dec("329.00")))
}

func TestFilterOrders_DescartaLosAjenos(t *testing.T) {
	propio := sampleOrder()
	ajeno := sampleOrder()
	ajeno.ID = "o-2"
	ajeno.RequesterID = "u-otro"

	views := policy.FilterOrders(ownerActor(), []*entity.Order{propio, ajeno})
	require.Len(t, views, 1)
	assert.Equal(t, "o-1", views[0].ID)

	all := policy.FilterOrders(adminActor(), []*entity.Order{propio, ajeno})
	assert.Len(t, all, 2, "admin ve los pedidos de todos")
}

func TestProjectMaterial_PorRol(t *testing.T) {
	m := &entity.Material{
		ID:       "m1",
		Name:     "Cimento",
		Quantity: dec("5"),
		MinStock: dec("10"),
		UnitCost: dec("32.90"),
		Status:   entity.StatusActive,
	}

	adm := policy.ProjectMaterial(adminActor(), m)
	require.NotNil(t, adm.UnitCost)
	require.NotNil(t, adm.LowStock)
	assert.True(t, *adm.LowStock, "5 en stock contra mínimo de 10")

	usr := policy.ProjectMaterial(ownerActor(), m)
	assert.Nil(t, usr.UnitCost)
	assert.Nil(t, usr.LowStock)
	assert.True(t, usr.Quantity.Equal(dec("5")), "la cantidad es visible para ambos roles")
}

func TestProjectObra_PresupuestoSoloFinanciero(t *testing.T) {
	o := &entity.Obra{ID: "obra-1", Name: "Residencial", Budget: dec("2500000")}

	adm := policy.ProjectObra(adminActor(), o)
	require.NotNil(t, adm.Budget)
	assert.True(t, adm.Budget.Equal(dec("2500000")))

	usr := policy.ProjectObra(ownerActor(), o)
	assert.Nil(t, usr.Budget)
}
