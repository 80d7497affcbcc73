package space

import (
	"sync"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
)

// Registry is the table of index spaces an engine works against. It is
// explicitly constructed and passed by reference; there is no package-level
// instance. All methods are safe for concurrent use, but mutation
// (AddSpace, Reset) is expected to finish before expansion work starts —
// Freeze enforces that discipline.
type Registry struct {
	mu       sync.Mutex
	epoch    uint64
	frozen   bool
	spaces   map[string]Space
	order    []string
	counters map[string]int
}

// NewRegistry returns an empty registry at epoch 1.
func NewRegistry() *Registry {
	return &Registry{
		epoch:    1,
		spaces:   make(map[string]Space),
		counters: make(map[string]int),
	}
}

// Reset clears all spaces and counters atomically and advances the epoch.
// Indices and terms minted under the old epoch are rejected by engine entry
// points afterwards. Resetting a frozen registry is a configuration error;
// Thaw first.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return errors.Configurationf("registry is frozen; cannot reset")
	}
	r.spaces = make(map[string]Space)
	r.counters = make(map[string]int)
	r.order = nil
	r.epoch++
	logger.Debugw("registry reset", "epoch", r.epoch)
	return nil
}

// AddSpace registers a space. Labels are single lowercase ASCII letters so
// the condensed index form parses unambiguously. Optional elementary labels
// make the new space a composite over already-registered, non-composite
// members.
func (r *Registry) AddSpace(label string, st Statistics, occ Occupation, stems []string, elementary ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.Configurationf("registry is frozen; cannot add space %q", label)
	}
	if len(label) != 1 || label[0] < 'a' || label[0] > 'z' {
		return errors.Configurationf("space label %q must be a single lowercase letter", label)
	}
	if _, ok := r.spaces[label]; ok {
		return errors.Configurationf("space %q already registered", label)
	}
	if len(stems) == 0 {
		return errors.Configurationf("space %q has no index stems", label)
	}
	for _, m := range elementary {
		member, ok := r.spaces[m]
		if !ok {
			return errors.Configurationf("space %q lists unknown elementary space %q", label, m)
		}
		if member.IsComposite() {
			return errors.Configurationf("space %q lists composite space %q as elementary", label, m)
		}
	}

	r.spaces[label] = Space{
		Label:      label,
		Statistics: st,
		Occupation: occ,
		Stems:      append([]string(nil), stems...),
		Elementary: append([]string(nil), elementary...),
	}
	r.order = append(r.order, label)
	logger.Debugw("space registered",
		logger.FieldSpace, label,
		"statistics", st.String(),
		"occupation", occ.String(),
		"stems", len(stems),
	)
	return nil
}

// Space returns the named space.
func (r *Registry) Space(label string) (Space, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.spaces[label]
	if !ok {
		return Space{}, false
	}
	return s.clone(), true
}

// Spaces returns all spaces in declaration order.
func (r *Registry) Spaces() []Space {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Space, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.spaces[label].clone())
	}
	return out
}

// NumSpaces returns the number of registered spaces.
func (r *Registry) NumSpaces() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// FreshIndex mints the next unused ordinal for the space, monotonic within
// the current epoch.
func (r *Registry) FreshIndex(label string) (Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spaces[label]; !ok {
		return Index{}, errors.Configurationf("no space %q registered", label)
	}
	n := r.counters[label]
	r.counters[label] = n + 1
	return Index{Space: label, Ordinal: n, Epoch: r.epoch}, nil
}

// Index validates (label, ordinal) against the registry and tags it with
// the current epoch. The per-space counter advances past the ordinal so a
// later FreshIndex cannot collide with an index introduced by parsing.
func (r *Registry) Index(label string, ordinal int) (Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spaces[label]; !ok {
		return Index{}, errors.Configurationf("no space %q registered", label)
	}
	if ordinal < 0 {
		return Index{}, errors.Configurationf("index ordinal %d must be non-negative", ordinal)
	}
	if ordinal >= r.counters[label] {
		r.counters[label] = ordinal + 1
	}
	return Index{Space: label, Ordinal: ordinal, Epoch: r.epoch}, nil
}

// Validate rejects indices from unknown spaces or an earlier epoch.
func (r *Registry) Validate(ix Index) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spaces[ix.Space]; !ok {
		return errors.Configurationf("index %s references unregistered space %q", ix.String(), ix.Space)
	}
	if ix.Epoch != r.epoch {
		return errors.Configurationf("index %s was minted under registry epoch %d, current epoch is %d (reset invalidates indices)",
			ix.String(), ix.Epoch, r.epoch)
	}
	return nil
}

// Freeze forbids AddSpace and Reset until Thaw. Expansion phases freeze the
// registry so configuration cannot shift mid-flight.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Thaw lifts a Freeze.
func (r *Registry) Thaw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = false
}

// Frozen reports whether the registry is frozen.
func (r *Registry) Frozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen
}

// Epoch returns the current registry generation.
func (r *Registry) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// Overlaps reports whether two space labels denote intersecting orbital
// sets: the same space, a composite and one of its members, or two
// composites sharing a member.
func (r *Registry) Overlaps(a, b string) bool {
	if a == b {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sa, okA := r.spaces[a]
	sb, okB := r.spaces[b]
	if !okA || !okB {
		return false
	}
	if sa.Contains(b) || sb.Contains(a) {
		return true
	}
	for _, m := range sa.Elementary {
		if sb.Contains(m) {
			return true
		}
	}
	return false
}
