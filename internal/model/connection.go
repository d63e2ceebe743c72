package model

import "time"

// Endpoint identifies one side of a connection. From always carries a code
// location; To may be locationless (external services, providers).
type Endpoint struct {
	ComponentID string `json:"componentId"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line,omitempty"`
	Function    string `json:"function,omitempty"`
}

// CodeReference pins a connection to source code. Symbol is the PRIMARY
// stable identifier (a name survives edits); line numbers are secondary,
// display-only hints that drift as the file changes.
type CodeReference struct {
	File        string `json:"file"`
	Symbol      string `json:"symbol"`
	SymbolType  string `json:"symbolType,omitempty"` // function, method, class, file
	LineStart   int    `json:"lineStart,omitempty"`
	LineEnd     int    `json:"lineEnd,omitempty"`
	CodeSnippet string `json:"codeSnippet,omitempty"` // truncated
}

// Semantic classifies which kind of code path a connection lives on
type Semantic struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
}

// Connection is a directed, evidenced relationship between two components
type Connection struct {
	ID            string         `json:"id"`
	From          Endpoint       `json:"from"`
	To            Endpoint       `json:"to"`
	Type          ConnectionType `json:"connectionType"`
	CodeReference *CodeReference `json:"codeReference,omitempty"`
	Semantic      *Semantic      `json:"semantic,omitempty"`
	Description   string         `json:"description,omitempty"`
	DetectedFrom  string         `json:"detectedFrom,omitempty"`
	Confidence    float64        `json:"confidence"`
	Timestamp     time.Time      `json:"timestamp"`
	LastVerified  time.Time      `json:"lastVerified"`
}

// SemanticConnectionKey builds the cross-scan identity of a connection from
// the names of its endpoints plus its type. Connection ids regenerate every
// scan and must never be compared between snapshots.
func SemanticConnectionKey(fromName, toName string, connType ConnectionType) string {
	return fromName + "|" + toName + "|" + string(connType)
}
