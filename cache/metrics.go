package cache

// MetricsCollector receives cache lookup outcomes and store command results.
type MetricsCollector interface {
	Lookup(hit bool)
	StoreCommand(command string, err error)
}

// NoOpCollector discards everything.
type NoOpCollector struct{}

func (NoOpCollector) Lookup(bool)                {}
func (NoOpCollector) StoreCommand(string, error) {}
