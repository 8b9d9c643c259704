package ordering

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryRegistry is an in-memory Registry implementation. Registration order
// is preserved, which makes the "first producer wins" selection in attribute
// resolution deterministic.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]RegistrationMetadata
	names   []string
	byType  map[reflect.Type][]string
}

// NewMemoryRegistry constructs an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[string]RegistrationMetadata),
		byType:  make(map[reflect.Type][]string),
	}
}

// RegisterOption configures one registration record.
type RegisterOption func(*RegistrationMetadata)

// WithProducer records the factory method that created the candidate.
func WithProducer(method string) RegisterOption {
	return func(md *RegistrationMetadata) {
		md.Producer = NewProducerMethod(method)
	}
}

// WithProducerAnnotation declares an annotation on the producer method,
// creating the producer descriptor on demand.
func WithProducerAnnotation(kind string, attrs AttributeMap) RegisterOption {
	return func(md *RegistrationMetadata) {
		if md.Producer == nil {
			md.Producer = NewProducerMethod("")
		}
		md.Producer.Annotate(kind, attrs)
	}
}

// Register records candidate under name and returns the effective
// registration name. An empty name is replaced with a generated
// "<type>-<uuid>" identity.
func (r *MemoryRegistry) Register(name string, candidate any, opts ...RegisterOption) (string, error) {
	if candidate == nil {
		return "", fmt.Errorf("ordering: candidate must not be nil")
	}
	t := reflect.TypeOf(candidate)
	if name == "" {
		name = anonymousName(t)
	}

	md := RegistrationMetadata{Name: name, Type: t}
	for _, opt := range opts {
		if opt != nil {
			opt(&md)
		}
	}
	md.Name = name
	md.Type = t

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return "", &DuplicateRegistrationError{Name: name}
	}
	r.entries[name] = md
	r.names = append(r.names, name)
	r.byType[t] = append(r.byType[t], name)
	return name, nil
}

// MustRegister panics on registration error; intended for bootstrap paths.
func (r *MemoryRegistry) MustRegister(name string, candidate any, opts ...RegisterOption) string {
	effective, err := r.Register(name, candidate, opts...)
	if err != nil {
		panic(err)
	}
	return effective
}

// NamesForType implements Registry.
func (r *MemoryRegistry) NamesForType(t reflect.Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byType[t])
}

// IsRegistered implements Registry.
func (r *MemoryRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Metadata implements Registry.
func (r *MemoryRegistry) Metadata(name string) (RegistrationMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.entries[name]
	return md, ok
}

// Names returns all registration names in registration order.
func (r *MemoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// NamesAnnotatedWith returns the names whose producer method declares an
// annotation of kind, in registration order.
func (r *MemoryRegistry) NamesAnnotatedWith(kind string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, name := range r.names {
		if r.entries[name].Producer.IsAnnotated(kind) {
			out = append(out, name)
		}
	}
	return out
}

func anonymousName(t reflect.Type) string {
	return t.String() + "-" + uuid.NewString()
}
