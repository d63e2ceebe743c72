// Package graph builds adjacency indices over a flat component/connection
// list. All query algorithms consume these indices instead of re-scanning
// the flat lists, which keeps repeated queries over one loaded graph cheap.
package graph

import "archmap/internal/model"

// Graph holds the indexed form of one scan result. It is read-only after
// construction and safe for concurrent queries; it never takes ownership of
// the caller's slices.
type Graph struct {
	byID     map[string]*model.Component
	connByID map[string]*model.Connection
	outgoing map[string][]*model.Connection // keyed by From.ComponentID
	incoming map[string][]*model.Connection // keyed by To.ComponentID

	components  []*model.Component
	connections []*model.Connection
}

// Build indexes a flat component and connection list. Connection order is
// preserved in the adjacency lists so traversal output is deterministic for
// identical input.
func Build(components []*model.Component, connections []*model.Connection) *Graph {
	g := &Graph{
		byID:        make(map[string]*model.Component, len(components)),
		connByID:    make(map[string]*model.Connection, len(connections)),
		outgoing:    make(map[string][]*model.Connection),
		incoming:    make(map[string][]*model.Connection),
		components:  components,
		connections: connections,
	}
	for _, c := range components {
		g.byID[c.ID] = c
	}
	for _, conn := range connections {
		g.connByID[conn.ID] = conn
		g.outgoing[conn.From.ComponentID] = append(g.outgoing[conn.From.ComponentID], conn)
		g.incoming[conn.To.ComponentID] = append(g.incoming[conn.To.ComponentID], conn)
	}
	return g
}

// ConnectionByID returns the connection with the given id, or nil
func (g *Graph) ConnectionByID(id string) *model.Connection {
	return g.connByID[id]
}

// Component returns the component with the given id, or nil
func (g *Graph) Component(id string) *model.Component {
	return g.byID[id]
}

// Outgoing returns the connections originating at the given component id
func (g *Graph) Outgoing(id string) []*model.Connection {
	return g.outgoing[id]
}

// Incoming returns the connections targeting the given component id
func (g *Graph) Incoming(id string) []*model.Connection {
	return g.incoming[id]
}

// Components returns the underlying component list in input order
func (g *Graph) Components() []*model.Component {
	return g.components
}

// Connections returns the underlying connection list in input order
func (g *Graph) Connections() []*model.Connection {
	return g.connections
}

// NameOf resolves a component id to its name, falling back to the id itself
// for placeholder endpoints (file: / external: forms carry their own label).
func (g *Graph) NameOf(id string) string {
	if c := g.byID[id]; c != nil {
		return c.Name
	}
	return id
}
