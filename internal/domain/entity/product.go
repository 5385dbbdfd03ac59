package entity

import "time"

// Product representa un producto del catálogo. El libro de inventario solo
// necesita identificación y nombre; precios e impuestos viven en otros módulos.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	UnitMeasure string // unidad de medida (unidad, kg, lt)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
