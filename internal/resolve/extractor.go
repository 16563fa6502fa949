package resolve

import "fmt"

// Kind tags the shape an Extractor expects.
type Kind int

const (
	// ListBody: the body itself is the target.
	ListBody Kind = iota
	// KeyedBody: the target sits under one top-level key.
	KeyedBody
	// NestedBody: the target sits under Key inside the object at Outer.
	NestedBody
	// FirstElement: the target is Key of the first element of the list at
	// Outer, or of the body itself when Outer is empty.
	FirstElement
)

func (k Kind) String() string {
	switch k {
	case ListBody:
		return "list"
	case KeyedBody:
		return "keyed"
	case NestedBody:
		return "nested"
	case FirstElement:
		return "first"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Extractor is one guess at where the wanted data lives in a parsed body.
type Extractor struct {
	Kind  Kind
	Outer string
	Key   string
}

func List() Extractor {
	return Extractor{Kind: ListBody}
}

func Keyed(key string) Extractor {
	return Extractor{Kind: KeyedBody, Key: key}
}

func Nested(outer, key string) Extractor {
	return Extractor{Kind: NestedBody, Outer: outer, Key: key}
}

func First(listKey, key string) Extractor {
	return Extractor{Kind: FirstElement, Outer: listKey, Key: key}
}

func (e Extractor) String() string {
	switch e.Kind {
	case ListBody:
		return "[]"
	case KeyedBody:
		return e.Key
	case NestedBody:
		return e.Outer + "." + e.Key
	case FirstElement:
		if e.Outer == "" {
			return "[0]." + e.Key
		}
		return e.Outer + "[0]." + e.Key
	default:
		return e.Kind.String()
	}
}

// Locate returns the value the extractor points at, if the body has that
// shape. It does not judge whether the value is usable.
func (e Extractor) Locate(body any) (any, bool) {
	switch e.Kind {
	case ListBody:
		list, ok := body.([]any)
		return list, ok

	case KeyedBody:
		return lookup(body, e.Key)

	case NestedBody:
		outer, ok := lookup(body, e.Outer)
		if !ok {
			return nil, false
		}
		if _, isObject := outer.(map[string]any); !isObject {
			return nil, false
		}
		return lookup(outer, e.Key)

	case FirstElement:
		container := body
		if e.Outer != "" {
			v, ok := lookup(body, e.Outer)
			if !ok {
				return nil, false
			}
			container = v
		}
		list, ok := container.([]any)
		if !ok || len(list) == 0 {
			return nil, false
		}
		return lookup(list[0], e.Key)
	}
	return nil, false
}

func lookup(v any, key string) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	val, ok := obj[key]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}
