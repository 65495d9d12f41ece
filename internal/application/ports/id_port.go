package ports

// IDGenerator entrega IDs enteros únicos para facturas, ítems y movimientos.
// Lo implementa pkg/idgen (snowflake).
type IDGenerator interface {
	NextID() int64
}
