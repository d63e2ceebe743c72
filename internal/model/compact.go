package model

// Compact projections are lossy, token-efficient views for transport to LLM
// agents and other downstream consumers. They are derived on demand from the
// full model and must be regenerated whenever the underlying relationship
// lists change; treating a cached projection as a source of truth is a bug.

// CompactComponent is the short-key projection of a Component
type CompactComponent struct {
	Name    string        `json:"n"`
	Type    ComponentType `json:"t"`
	Version string        `json:"v,omitempty"`
	Layer   Layer         `json:"l"`
	Status  Status        `json:"s"`
	In      int           `json:"in"`  // incoming connection count
	Out     int           `json:"out"` // outgoing connection count
}

// CompactConnection is the short-key projection of a Connection
type CompactConnection struct {
	From string         `json:"f"`
	To   string         `json:"to"`
	Type ConnectionType `json:"t"`
	File string         `json:"file,omitempty"`
}

// CompactView projects a component using its current relationship lists.
// In/Out degrees are computed from the weak reference lists at call time.
func CompactView(c *Component) CompactComponent {
	return CompactComponent{
		Name:    c.Name,
		Type:    c.Type,
		Version: c.Version,
		Layer:   c.Role.Layer,
		Status:  c.Status,
		In:      len(c.ConnectedFrom),
		Out:     len(c.ConnectsTo),
	}
}

// CompactConnectionView projects a connection, naming endpoints by component
// name when the caller supplies a resolver (id → name); falls back to the id.
func CompactConnectionView(conn *Connection, nameOf func(string) string) CompactConnection {
	from := conn.From.ComponentID
	to := conn.To.ComponentID
	if nameOf != nil {
		if n := nameOf(from); n != "" {
			from = n
		}
		if n := nameOf(to); n != "" {
			to = n
		}
	}
	file := ""
	if conn.CodeReference != nil {
		file = conn.CodeReference.File
	}
	return CompactConnection{
		From: from,
		To:   to,
		Type: conn.Type,
		File: file,
	}
}
