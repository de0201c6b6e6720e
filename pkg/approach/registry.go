package approach

// Registry is an insertion-ordered collection of approach configurations.
//
// Iteration order is the order names were first added; re-adding an existing
// name replaces its config but keeps its position. Evaluation and
// Recommendation.MatchingApproaches follow that order.
//
// Thread safety: none. The registry assumes a single writer; hosts that
// mutate it concurrently with selection must serialize externally.
type Registry struct {
	names   []string
	configs map[string]Config
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]Config)}
}

// Add upserts a config by name. Adding a new name appends it to the
// iteration order; adding an existing name replaces the config in place
// (last write wins).
func (r *Registry) Add(cfg Config) error {
	if cfg.Name == "" {
		return ErrEmptyName
	}
	if _, exists := r.configs[cfg.Name]; !exists {
		r.names = append(r.names, cfg.Name)
	}
	r.configs[cfg.Name] = cfg
	return nil
}

// Remove deletes a config by name and reports whether it existed.
func (r *Registry) Remove(name string) bool {
	if _, exists := r.configs[name]; !exists {
		return false
	}
	delete(r.configs, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the config registered under name, and whether it exists.
func (r *Registry) Get(name string) (Config, bool) {
	cfg, ok := r.configs[name]
	return cfg, ok
}

// Names returns the registered names in iteration order. The returned slice
// is a copy.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Configs returns the registered configs in iteration order.
func (r *Registry) Configs() []Config {
	configs := make([]Config, 0, len(r.names))
	for _, name := range r.names {
		configs = append(configs, r.configs[name])
	}
	return configs
}

// Len returns the number of registered configs.
func (r *Registry) Len() int {
	return len(r.names)
}
