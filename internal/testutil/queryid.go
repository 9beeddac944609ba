package testutil

// FixedQueryID generates the same query id every time.
//
// A scenario run with a FixedQueryID produces byte-identical traces and
// run logs, which golden comparison relies on.
//
// Unlike session.FixedGenerator which returns ids in sequence, this
// generator never runs out.
//
// Thread-safety: FixedQueryID is stateless and safe for concurrent use.
type FixedQueryID struct {
	id string
}

// DefaultQueryID is used when a scenario does not name one.
const DefaultQueryID = "test-query-default"

// NewFixedQueryID creates a fixed query id generator.
//
// The id is typically set in the scenario YAML:
//
//	query_id: "test-query-00000000-0000-0000-0000-000000000001"
//
// If id is empty, Generate returns DefaultQueryID.
func NewFixedQueryID(id string) *FixedQueryID {
	if id == "" {
		id = DefaultQueryID
	}
	return &FixedQueryID{id: id}
}

// Generate returns the fixed query id.
//
// Implements session.IDGenerator.
func (g *FixedQueryID) Generate() string {
	return g.id
}
