// Package idgen issues short, time-ordered reference numbers shown to desk
// operators (order numbers, transfer and remittance references).
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator prefixes snowflake ids with a document kind.
type Generator struct {
	node *snowflake.Node
}

// New creates a generator for the given node id (0-1023).
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// Must is New for wiring code and tests where the node id is a constant.
func Must(nodeID int64) *Generator {
	g, err := New(nodeID)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Generator) next(prefix string) string {
	return prefix + "-" + g.node.Generate().Base36()
}

func (g *Generator) OrderNumber() string       { return g.next("ORD") }
func (g *Generator) TransferReference() string { return g.next("TRF") }
func (g *Generator) RemittanceReference() string {
	return g.next("REM")
}
