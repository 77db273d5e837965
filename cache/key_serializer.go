package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// maxComponentLength bounds a single free text component. Longer values are
// replaced by their xxhash digest so keys stay short for network stores.
const maxComponentLength = 128

// KeyBuilder derives a deterministic cache key from a request.
type KeyBuilder[R any] interface {
	BuildKey(request R) string
}

// KeyBuilderFunc adapts a function to KeyBuilder.
type KeyBuilderFunc[R any] func(request R) string

func (f KeyBuilderFunc[R]) BuildKey(request R) string {
	return f(request)
}

// StaticKey returns a KeyBuilder that always yields key, for requests with no parameters.
func StaticKey[R any](key string) KeyBuilder[R] {
	return KeyBuilderFunc[R](func(R) string { return key })
}

// Key assembles a cache key from a namespace and name=value components.
// Components are written in call order, so callers fix the order once and every
// logically identical request produces a byte identical key. Optional
// components that are absent are left out entirely.
type Key struct {
	parts []string
}

// NewKey starts a key in the given namespace.
func NewKey(namespace string) *Key {
	return &Key{parts: []string{escapeComponent(namespace)}}
}

// Int appends an integer component.
func (k *Key) Int(name string, v int) *Key {
	return k.add(name, strconv.Itoa(v))
}

// String appends a string component. An empty string is still present.
func (k *Key) String(name, v string) *Key {
	return k.add(name, v)
}

// OptionalString appends v when it is not nil.
func (k *Key) OptionalString(name string, v *string) *Key {
	if v == nil {
		return k
	}
	return k.add(name, *v)
}

// Strings appends a list component when vs is not nil. Elements keep their
// order; callers wanting order independence sort before calling.
func (k *Key) Strings(name string, vs []string) *Key {
	if vs == nil {
		return k
	}
	escaped := make([]string, len(vs))
	for i, v := range vs {
		escaped[i] = escapeListElement(v)
	}
	return k.add(name, strings.Join(escaped, ","))
}

// Value appends any value using the reflective serializer. Nil values and nil
// pointers are treated as absent.
func (k *Key) Value(name string, v any) *Key {
	if isNil(v) {
		return k
	}
	return k.add(name, serializeValue(v))
}

// Build joins the components with KeySeparator.
func (k *Key) Build() string {
	return strings.Join(k.parts, KeySeparator)
}

func (k *Key) add(name, value string) *Key {
	value = escapeComponent(value)
	if len(value) > maxComponentLength {
		value = "#" + strconv.FormatUint(xxhash.Sum64String(value), 16)
	}
	k.parts = append(k.parts, name+"="+value)
	return k
}

var componentEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`)

func escapeComponent(v string) string {
	return componentEscaper.Replace(v)
}

func escapeListElement(v string) string {
	return strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), ",", `\,`)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// serializeValue handles individual value serialization based on type.
func serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	switch tv := v.(type) {
	case time.Time:
		return tv.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "nil"
		}
		return tv.String()
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch rt.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return serializeSequence(rv)
	case reflect.Array:
		return serializeSequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return serializeMap(rv)
	case reflect.Struct:
		return serializeStruct(rv, rt)
	}

	if isBasicType(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return jsonFallback(v)
}

func serializeSequence(rv reflect.Value) string {
	length := rv.Len()
	parts := make([]string, length)
	for i := 0; i < length; i++ {
		parts[i] = escapeListElement(serializeValue(rv.Index(i).Interface()))
	}
	return strings.Join(parts, ",")
}

// serializeMap writes pairs sorted by their serialized key for determinism.
func serializeMap(rv reflect.Value) string {
	type pair struct{ key, value string }

	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{
			key:   serializeValue(iter.Key().Interface()),
			value: serializeValue(iter.Value().Interface()),
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + p.value
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// serializeStruct writes exported fields in declaration order.
func serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+serializeValue(rv.Field(i).Interface()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func isBasicType(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// jsonFallback covers the remaining kinds. Functions and channels have no
// stable representation across processes, so they only contribute their type.
func jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "type:" + reflect.TypeOf(v).String()
	}
	return "json:" + string(data)
}
