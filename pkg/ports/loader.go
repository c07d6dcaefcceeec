package ports

// FlowLoader defines how hosts retrieve flow definitions.
// This allows the storage layer (files, embedded presets, memory) to be decoupled.
type FlowLoader interface {
	// GetFlow retrieves the raw document of a flow by name.
	// It returns the raw bytes (which the compiler will parse) or an error
	// wrapping domain.ErrFlowNotFound.
	GetFlow(name string) ([]byte, error)

	// ListFlows returns the names of all available flows, sorted.
	ListFlows() ([]string, error)
}
