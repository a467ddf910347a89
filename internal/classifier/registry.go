package classifier

import (
	"sort"
	"sync"

	"github.com/galahad-project/galahad/internal/errs"
)

// Info is the wire shape of a classifier descriptor returned by
// `GET /classifier` and `GET /classifier/{id}`: name only.
type Info struct {
	Name string `json:"name"`
}

// Registry holds all registered classifiers for the process lifetime. It is
// mutated only at startup (Add) and read-only once serving begins — callers
// MUST finish registering before handing a Registry to the HTTP layer.
type Registry struct {
	mu          sync.RWMutex
	classifiers map[string]Classifier
	order       []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classifiers: make(map[string]Classifier)}
}

// Add registers name -> c. Fails with AlreadyRegistered if name is already
// taken; this is a startup programmer error, not a client error.
func (r *Registry) Add(name string, c Classifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classifiers[name]; exists {
		return errs.AlreadyRegisteredf("classifier %q already registered", name)
	}
	r.classifiers[name] = c
	r.order = append(r.order, name)
	return nil
}

// Get returns the classifier registered as name, or NotFound.
func (r *Registry) Get(name string) (Classifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classifiers[name]
	if !ok {
		return nil, errs.NotFoundf("classifier %q not found", name)
	}
	return c, nil
}

// ListInfos returns classifier descriptors sorted by name.
func (r *Registry) ListInfos() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)

	infos := make([]Info, len(names))
	for i, name := range names {
		infos[i] = Info{Name: name}
	}
	return infos
}
