// Package jsonvalue models untyped JSON documents as a closed set of value
// types. Objects keep the member order they were decoded with, so documents
// can be rendered and re-encoded without reordering keys.
package jsonvalue

// Kind identifies the variant held by a Value
type Kind int

const (
	// KindString is a JSON string
	KindString Kind = iota + 1
	// KindNumber is a JSON number kept as its literal text
	KindNumber
	// KindBool is a JSON boolean
	KindBool
	// KindNull is the JSON null literal
	KindNull
	// KindArray is an ordered JSON array
	KindArray
	// KindObject is an ordered JSON object
	KindObject
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is implemented by String, Number, Bool, Null, Array and *Object only
type Value interface {
	Kind() Kind
}

// String is a JSON string value
type String string

// Number is a JSON number value holding the literal text received on the wire
type Number string

// Bool is a JSON boolean value
type Bool bool

// Null is the JSON null value
type Null struct{}

// Array is an ordered sequence of values
type Array []Value

// Kind implements Value
func (String) Kind() Kind { return KindString }

// Kind implements Value
func (Number) Kind() Kind { return KindNumber }

// Kind implements Value
func (Bool) Kind() Kind { return KindBool }

// Kind implements Value
func (Null) Kind() Kind { return KindNull }

// Kind implements Value
func (Array) Kind() Kind { return KindArray }

// Member is a single key/value pair of an Object
type Member struct {
	// Key is the member name
	Key string
	// Value is the member value
	Value Value
}

// Object is a JSON object that preserves member insertion order
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an object holding the given members in order
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}

	return o
}

// Kind implements Value
func (*Object) Kind() Kind { return KindObject }

// Len returns the number of members
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.members)
}

// Members returns a copy of the members in order
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}

	out := make([]Member, len(o.members))
	copy(out, o.members)

	return out
}

// Keys returns the member names in order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}

	return keys
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.index == nil {
		return nil, false
	}

	i, ok := o.index[key]
	if !ok {
		return nil, false
	}

	return o.members[i].Value, true
}

// Set stores value under key. An existing key keeps its position and takes the new value
func (o *Object) Set(key string, value Value) {
	if value == nil {
		value = Null{}
	}

	if o.index == nil {
		o.index = make(map[string]int)
	}

	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}

	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}
