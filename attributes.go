package ordering

import "reflect"

// ResolveAttributes computes the attributes of the annotation kind for
// candidate, merging two sources: the annotation declared on the candidate's
// runtime type, and the annotation declared on the producer method that
// registered it. Producer-method attributes replace type-level attributes
// key-by-key.
//
// The result is always a fresh map; when no annotation is found anywhere the
// map is empty, never nil and never an error. When several registrations
// claim the candidate's type, which producer method contributes is
// unspecified; the first name in registry iteration order is used.
func (c *Comparator) ResolveAttributes(kind string, candidate any) AttributeMap {
	if candidate == nil {
		return AttributeMap{}
	}
	t := reflect.TypeOf(candidate)
	base := c.typeAttributes(t, candidate, kind)
	if c.registry == nil {
		return base
	}

	for _, name := range c.registry.NamesForType(t) {
		if !c.registry.IsRegistered(name) {
			continue
		}
		md, ok := c.registry.Metadata(name)
		if !ok || !md.Producer.IsAnnotated(kind) {
			continue
		}
		overlay, _ := md.Producer.Attributes(kind)
		return mergeAttributes(base, overlay)
	}
	return base
}

func (c *Comparator) typeAttributes(t reflect.Type, candidate any, kind string) AttributeMap {
	if c.cfg.annotations != nil {
		if attrs, ok := c.cfg.annotations.FindAnnotation(t, kind); ok {
			return attrs.clone()
		}
	}
	if annotated, ok := candidate.(Annotated); ok {
		if attrs, ok := annotated.Annotations()[kind]; ok {
			return attrs.clone()
		}
	}
	return AttributeMap{}
}

// mergeAttributes overlays overlay onto base key-by-key without mutating
// either input.
func mergeAttributes(base, overlay AttributeMap) AttributeMap {
	merged := make(AttributeMap, len(base)+len(overlay))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range overlay {
		merged[key] = value
	}
	return merged
}
