package contextkey

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Registry owns the set of configured providers and the pointer to the
// active one. It is an explicit value wired in by the composition root,
// not ambient state: dispatch takes a snapshot at call start, so edits
// made while a call is in flight never affect it.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]ProviderConfig
	order   []string
	active  string
}

func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]ProviderConfig),
	}
}

// Add validates and stores a config, assigning a fresh id when none is
// set. The stored copy is returned.
func (r *Registry) Add(cfg ProviderConfig) (ProviderConfig, error) {
	if cfg.Id == "" {
		cfg.Id = uuid.NewString()
	}

	if err := cfg.Validate(); err != nil {
		return ProviderConfig{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[cfg.Id]; ok {
		return ProviderConfig{}, errors.Newf("provider '%s' is already registered", cfg.Id)
	}

	r.configs[cfg.Id] = cfg.snapshot()
	r.order = append(r.order, cfg.Id)

	return cfg, nil
}

// Update replaces an existing config after validation.
func (r *Registry) Update(cfg ProviderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[cfg.Id]; !ok {
		return errors.Newf("unknown provider '%s'", cfg.Id)
	}

	r.configs[cfg.Id] = cfg.snapshot()

	return nil
}

// Remove deletes a config. Removing the active one clears the active
// pointer.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[id]; !ok {
		return errors.Newf("unknown provider '%s'", id)
	}

	delete(r.configs, id)

	for idx, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}

	if r.active == id {
		r.active = ""
	}

	return nil
}

// Get returns an immutable snapshot of a config.
func (r *Registry) Get(id string) (ProviderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[id]
	if !ok {
		return ProviderConfig{}, errors.Newf("unknown provider '%s'", id)
	}

	return cfg.snapshot(), nil
}

// List returns snapshots of all configs in registration order.
func (r *Registry) List() []ProviderConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]ProviderConfig, 0, len(r.order))

	for _, id := range r.order {
		configs = append(configs, r.configs[id].snapshot())
	}

	return configs
}

// SetActive points the registry at the provider used when a query does
// not name one.
func (r *Registry) SetActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[id]; !ok {
		return errors.Newf("unknown provider '%s'", id)
	}

	r.active = id

	return nil
}

// Active returns a snapshot of the active provider config.
func (r *Registry) Active() (ProviderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == "" {
		return ProviderConfig{}, errors.New("no active provider is configured")
	}

	return r.configs[r.active].snapshot(), nil
}
