// Package ordercode genera el código visible de un pedido.
//
// Formato: DDMM_HHMMSSRR, donde DD/MM son día y mes, HHMMSS la hora al
// segundo (todo sobre el timestamp de creación del pedido) y RR un sufijo
// aleatorio de dos dígitos en [10,99]. Es un identificador legible para
// humanos, no una clave única garantizada: dos pedidos creados en el mismo
// segundo colisionan con probabilidad 1/90, lo cual es aceptable porque las
// búsquedas siempre usan el ID interno.
package ordercode

import (
	"fmt"
	"math/rand"
	"time"
)

// Generate devuelve el código para un pedido creado en el instante t.
func Generate(t time.Time) string {
	return fmt.Sprintf("%02d%02d_%02d%02d%02d%02d",
		t.Day(), int(t.Month()),
		t.Hour(), t.Minute(), t.Second(),
		rand.Intn(90)+10,
	)
}
