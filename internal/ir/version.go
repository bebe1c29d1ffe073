package ir

// Version constants for the catalog schema and the simulator.
const (
	// SchemaVersion is the catalog IR schema version.
	SchemaVersion = "1"

	// EngineVersion is the simulator version.
	EngineVersion = "0.1.0"
)
