package entity

import "time"

// Supplier representa un proveedor de materiales. Independiente de los
// pedidos: no hay vinculación automática proveedor-pedido.
type Supplier struct {
	ID                string
	CompanyName       string // razón social
	TradeName         string // nombre fantasía
	CNPJ              string
	StateRegistration string
	Phone             string
	Email             string
	Website           string
	ZipCode           string
	Address           string
	Number            string
	Complement        string
	District          string
	City              string
	State             string
	Categories        []string // categorías de suministro
	AvgDeliveryDays   int      // plazo promedio de entrega
	PaymentTerms      string
	Status            string // ativo, inativo
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
