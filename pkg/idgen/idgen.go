// Package idgen genera IDs enteros de 64 bits ordenables en el tiempo (snowflake).
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator envuelve un nodo snowflake. Es seguro para uso concurrente.
type Generator struct {
	node *snowflake.Node
}

// New crea un generador para el nodo indicado (0-1023).
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("crear nodo snowflake: %w", err)
	}
	return &Generator{node: node}, nil
}

// NextID devuelve un ID nuevo, siempre positivo y creciente dentro del nodo.
func (g *Generator) NextID() int64 {
	return g.node.Generate().Int64()
}
