package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMetricCatalog fixes the metric catalog instead of deriving it from the
// union of the records' metric keys. Records missing a catalog metric read 0.
func WithMetricCatalog(metrics []string) Option {
	return func(s *MemoryStore) {
		if len(metrics) > 0 {
			s.catalog = append([]string(nil), metrics...)
		}
	}
}
