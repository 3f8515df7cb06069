package legacy

import (
	"strconv"

	"howett.net/plist"
)

// Kind tags a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindString
	KindBytes
	KindRef
	KindDict
	KindArray
	KindOther
)

// nullSentinel occupies index 0 of every keyed archive object table.
const nullSentinel = "$null"

// Value is one node of a keyed archive object graph.
type Value struct {
	Kind  Kind
	Int   int64
	Str   string
	Bytes []byte
	Ref   uint64
	Dict  map[string]Value
	Array []Value
}

// Null is the absent value.
var Null = Value{Kind: KindNull}

// FromPlist converts a decoded property list value into a Value. Back-references
// arrive either as plist.UID or, from XML plists, as a {"CF$UID": n} dictionary.
func FromPlist(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null
	case plist.UID:
		return Value{Kind: KindRef, Ref: uint64(v)}
	case int64:
		return Value{Kind: KindInt, Int: v}
	case uint64:
		return Value{Kind: KindInt, Int: int64(v)}
	case int:
		return Value{Kind: KindInt, Int: int64(v)}
	case string:
		return Value{Kind: KindString, Str: v}
	case []byte:
		return Value{Kind: KindBytes, Bytes: v}
	case map[string]any:
		if len(v) == 1 {
			if uid, ok := v["CF$UID"]; ok {
				if n, ok := FromPlist(uid).AsInt(); ok && n >= 0 {
					return Value{Kind: KindRef, Ref: uint64(n)}
				}
			}
		}
		dict := make(map[string]Value, len(v))
		for key, item := range v {
			dict[key] = FromPlist(item)
		}
		return Value{Kind: KindDict, Dict: dict}
	case []any:
		array := make([]Value, len(v))
		for i, item := range v {
			array[i] = FromPlist(item)
		}
		return Value{Kind: KindArray, Array: array}
	default:
		return Value{Kind: KindOther}
	}
}

// Resolve follows a back-reference into objects. Out-of-range references and
// references to the "$null" sentinel resolve to Null. Non-references are
// returned unchanged.
func Resolve(v Value, objects []Value) Value {
	if v.Kind != KindRef {
		return v
	}
	if v.Ref >= uint64(len(objects)) {
		return Null
	}
	target := objects[v.Ref]
	if target.Kind == KindString && target.Str == nullSentinel {
		return Null
	}
	return target
}

// IsNull reports whether v is absent.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Field returns a dictionary entry, or Null.
func (v Value) Field(key string) Value {
	if v.Kind != KindDict {
		return Null
	}
	if field, ok := v.Dict[key]; ok {
		return field
	}
	return Null
}

// AsString returns string content, unwrapping NSString dictionaries.
func (v Value) AsString() (string, bool) {
	switch v.Kind {
	case KindString:
		return v.Str, true
	case KindDict:
		if s := v.Field("NS.string"); s.Kind == KindString {
			return s.Str, true
		}
	}
	return "", false
}

// AsInt returns integer content. Numeric strings are accepted.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// AsBytes returns byte content, unwrapping NSData dictionaries.
func (v Value) AsBytes() ([]byte, bool) {
	switch v.Kind {
	case KindBytes:
		return v.Bytes, true
	case KindDict:
		if b := v.Field("NS.data"); b.Kind == KindBytes {
			return b.Bytes, true
		}
	}
	return nil, false
}
