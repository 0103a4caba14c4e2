package ecs

// ComponentID is a unique identifier for component types
type ComponentID uint

// Component is the base interface for all components
type Component interface{}

// ComponentMap stores component buckets by their type ID.
// A bucket holds every record of that type for one entity, in insertion order.
type ComponentMap map[ComponentID][]Component

// First returns the first record of a bucket asserted to T
func First[T Component](records []Component) (T, bool) {
	var zero T
	for _, r := range records {
		if v, ok := r.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// All returns every record of a bucket that asserts to T
func All[T Component](records []Component) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
