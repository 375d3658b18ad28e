// Package strutil provee comparación de texto insensible a acentos y
// mayúsculas, para que las búsquedas de catálogo encuentren "aço" con
// "aco" o "Concreto Usinado" con "concreto".
package strutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas y sin marcas diacríticas.
func Fold(s string) string {
	// El transformer es stateful: se construye por llamada para poder usarse
	// desde varias goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// ContainsFold indica si s contiene substr, ignorando acentos y mayúsculas.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
