package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NonFiniteDisplay é o texto exibido no lugar de valores não finitos
const NonFiniteDisplay = "-"

// FormatSignificant formata um valor com 4 algarismos significativos.
// Valores não finitos (NaN, ±Inf) são exibidos como "-".
func FormatSignificant(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NonFiniteDisplay
	}
	return strconv.FormatFloat(value, 'g', 4, 64)
}

// FormatFloat formata um float com precisão específica, removendo zeros à direita
func FormatFloat(value float64, precision int) string {
	format := "%." + strconv.Itoa(precision) + "f"
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf(format, value), "0"), ".")
}
