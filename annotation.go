package ordering

import (
	"fmt"
	"reflect"
	"sync"
)

type annotationKey struct {
	t    reflect.Type
	kind string
}

// AnnotationIndex is a type-keyed AnnotationSource. It stands in for
// annotations declared directly on a type in languages that have them.
type AnnotationIndex struct {
	mu      sync.RWMutex
	entries map[annotationKey]AttributeMap
}

// NewAnnotationIndex constructs an empty index.
func NewAnnotationIndex() *AnnotationIndex {
	return &AnnotationIndex{
		entries: make(map[annotationKey]AttributeMap),
	}
}

// Annotate declares an annotation of kind on the runtime type of target,
// guarding against duplicate declarations.
func (ix *AnnotationIndex) Annotate(target any, kind string, attrs AttributeMap) error {
	if target == nil {
		return fmt.Errorf("ordering: annotation target must not be nil")
	}
	if kind == "" {
		return fmt.Errorf("ordering: annotation kind must not be empty")
	}
	t := reflect.TypeOf(target)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.entries == nil {
		ix.entries = make(map[annotationKey]AttributeMap)
	}
	key := annotationKey{t: t, kind: kind}
	if _, exists := ix.entries[key]; exists {
		return &AnnotationConflictError{Type: t.String(), Kind: kind}
	}
	ix.entries[key] = attrs.clone()
	return nil
}

// MustAnnotate panics on conflict; intended for bootstrap paths.
func (ix *AnnotationIndex) MustAnnotate(target any, kind string, attrs AttributeMap) {
	if err := ix.Annotate(target, kind, attrs); err != nil {
		panic(err)
	}
}

// FindAnnotation implements AnnotationSource.
func (ix *AnnotationIndex) FindAnnotation(t reflect.Type, kind string) (AttributeMap, bool) {
	if ix == nil {
		return nil, false
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	attrs, ok := ix.entries[annotationKey{t: t, kind: kind}]
	if !ok {
		return nil, false
	}
	return attrs.clone(), true
}
