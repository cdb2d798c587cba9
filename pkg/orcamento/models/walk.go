package models

// WalkFunc is called for each visited item. parent is nil for top-level
// items and depth starts at 0. Returning false stops the walk.
type WalkFunc func(item, parent Item, depth int) bool

// Walk visits items depth-first in document order, descending into stage
// children and composition children.
func Walk(items []Item, fn WalkFunc) {
	walk(items, nil, 0, fn)
}

func walk(items []Item, parent Item, depth int, fn WalkFunc) bool {
	for _, item := range items {
		if !fn(item, parent, depth) {
			return false
		}

		switch it := item.(type) {
		case *Stage:
			if !walk(it.Items, it, depth+1, fn) {
				return false
			}
		case *Composition:
			for _, child := range it.Children {
				if !fn(child, it, depth+1) {
					return false
				}
			}
		case *Resource:
		}
	}
	return true
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}
