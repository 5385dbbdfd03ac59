package stock

import (
	"github.com/shopspring/decimal"
)

// SaleLine es una línea de venta vista por el motor de stock: producto y
// cantidad consumida (positiva).
type SaleLine struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// StockDelta es un cambio neto de cantidad para un producto. Positivo devuelve
// stock, negativo lo consume.
type StockDelta struct {
	ProductID      string          `json:"product_id"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
}

// CalculateStockDelta calcula el delta neto por producto al editar las líneas
// de una venta. Función pura, sin I/O.
//
// Cada línea vieja se devuelve (ya había sido descontada) y cada línea nueva
// se consume; el neto por producto es la suma firmada de ambos efectos. Los
// productos cuyo neto es cero se omiten del resultado: no hay nada que aplicar.
// El orden de salida sigue la primera aparición del producto (líneas viejas
// primero) para que el resultado sea determinista.
func CalculateStockDelta(oldItems, newItems []SaleLine) []StockDelta {
	acc := make(map[string]decimal.Decimal, len(oldItems)+len(newItems))
	order := make([]string, 0, len(oldItems)+len(newItems))

	touch := func(productID string) {
		if _, seen := acc[productID]; !seen {
			order = append(order, productID)
			acc[productID] = decimal.Zero
		}
	}

	// Lo viejo se devuelve al stock...
	for _, it := range oldItems {
		touch(it.ProductID)
		acc[it.ProductID] = acc[it.ProductID].Add(it.Quantity)
	}
	// ...y lo nuevo se consume.
	for _, it := range newItems {
		touch(it.ProductID)
		acc[it.ProductID] = acc[it.ProductID].Sub(it.Quantity)
	}

	deltas := make([]StockDelta, 0, len(order))
	for _, productID := range order {
		net := acc[productID]
		if net.IsZero() {
			continue
		}
		deltas = append(deltas, StockDelta{ProductID: productID, QuantityChange: net})
	}
	return deltas
}
