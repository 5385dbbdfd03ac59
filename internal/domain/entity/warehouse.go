package entity

import "time"

// Warehouse representa una bodega contra la que se lleva la cantidad de cada producto.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}
