package dto

import "time"

// CreateSupplierRequest datos para registrar un proveedor (solo admin).
type CreateSupplierRequest struct {
	CompanyName       string   `json:"company_name"`
	TradeName         string   `json:"trade_name"`
	CNPJ              string   `json:"cnpj"`
	StateRegistration string   `json:"state_registration"`
	Phone             string   `json:"phone"`
	Email             string   `json:"email"`
	Website           string   `json:"website"`
	ZipCode           string   `json:"zip_code"`
	Address           string   `json:"address"`
	Number            string   `json:"number"`
	Complement        string   `json:"complement"`
	District          string   `json:"district"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Categories        []string `json:"categories"`
	AvgDeliveryDays   int      `json:"avg_delivery_days"`
	PaymentTerms      string   `json:"payment_terms"`
}

// UpdateSupplierRequest campos actualizables de un proveedor.
type UpdateSupplierRequest struct {
	TradeName       *string   `json:"trade_name"`
	Phone           *string   `json:"phone"`
	Email           *string   `json:"email"`
	Website         *string   `json:"website"`
	Categories      *[]string `json:"categories"`
	AvgDeliveryDays *int      `json:"avg_delivery_days"`
	PaymentTerms    *string   `json:"payment_terms"`
	Status          *string   `json:"status"`
}

// SupplierResponse representación de un proveedor.
type SupplierResponse struct {
	ID                string    `json:"id"`
	CompanyName       string    `json:"company_name"`
	TradeName         string    `json:"trade_name"`
	CNPJ              string    `json:"cnpj"`
	StateRegistration string    `json:"state_registration,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Email             string    `json:"email,omitempty"`
	Website           string    `json:"website,omitempty"`
	ZipCode           string    `json:"zip_code,omitempty"`
	Address           string    `json:"address,omitempty"`
	Number            string    `json:"number,omitempty"`
	Complement        string    `json:"complement,omitempty"`
	District          string    `json:"district,omitempty"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	Categories        []string  `json:"categories"`
	AvgDeliveryDays   int       `json:"avg_delivery_days"`
	PaymentTerms      string    `json:"payment_terms,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SupplierListResponse listado paginado de proveedores.
type SupplierListResponse struct {
	Items []*SupplierResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
