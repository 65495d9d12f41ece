package entity

// Warehouse representa una bodega o cocina donde se almacena inventario.
// El catálogo es externo al motor de inventario; aquí solo interesa si está activa.
type Warehouse struct {
	ID     int64
	Name   string
	Active bool
}

// Product representa un insumo comprado (carne, verdura, bebida...).
type Product struct {
	ID     int64
	Name   string
	Active bool
}

// UnitOfMeasure representa la unidad en que se lleva el stock (KG, L, UND).
type UnitOfMeasure struct {
	ID     int64
	Name   string
	Active bool
}

// Provider representa un proveedor que emite facturas de compra.
type Provider struct {
	ID     int64
	Name   string
	Active bool
}
