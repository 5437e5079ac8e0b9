// Package listquery keeps a list view's page/limit/search/filter state in
// query-string form: every list endpoint and every SDK list call parses,
// serializes and cache-keys its parameters through one Schema.
package listquery

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPage is the first page of any list view.
const DefaultPage = 1

// AllowedLimits are the page sizes a list endpoint accepts. A limit outside
// this set falls back to the schema default.
var AllowedLimits = []int{10, 20, 50, 100}

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
	kindEnum
)

// Field declares one filter parameter: its name, parse type and default.
type Field struct {
	Name    string
	kind    kind
	Default string
	allowed map[string]struct{}
}

// String declares a free-text filter field, default empty (unset).
func String(name string) Field {
	return Field{Name: name, kind: kindString}
}

// Int declares an integer filter field. def is the canonical default; 0 means
// unset.
func Int(name string, def int) Field {
	d := ""
	if def != 0 {
		d = strconv.Itoa(def)
	}
	return Field{Name: name, kind: kindInt, Default: d}
}

// Bool declares a true/false filter field, default unset.
func Bool(name string) Field {
	return Field{Name: name, kind: kindBool}
}

// Enum declares a filter field restricted to the given values. Anything
// outside the set parses to the default (unset).
func Enum(name string, allowed ...string) Field {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return Field{Name: name, kind: kindEnum, allowed: set}
}

// Schema is the ordered set of filter fields for one list view, plus the
// implicit page and limit fields.
type Schema struct {
	defaultLimit int
	fields       []Field
	index        map[string]int
}

// NewSchema builds a schema with the given default page size and filter
// fields. A defaultLimit outside AllowedLimits is coerced to 10.
func NewSchema(defaultLimit int, fields ...Field) *Schema {
	if !limitAllowed(defaultLimit) {
		defaultLimit = 10
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &Schema{defaultLimit: defaultLimit, fields: fields, index: idx}
}

// State is one list view's current query state. Values are held in canonical
// string form; a value equal to its field default is "unset" and omitted from
// serialized output.
type State struct {
	schema *Schema
	page   int
	limit  int
	values map[string]string
}

// NewState returns a state with every field at its default.
func (s *Schema) NewState() *State {
	st := &State{
		schema: s,
		page:   DefaultPage,
		limit:  s.defaultLimit,
		values: make(map[string]string, len(s.fields)),
	}
	for _, f := range s.fields {
		st.values[f.Name] = f.Default
	}
	return st
}

// Parse reads query values into a fresh state. A value that fails to parse
// against its declared type is discarded and the default used instead; Parse
// never fails.
func (s *Schema) Parse(q url.Values) *State {
	st := s.NewState()
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p >= 1 {
		st.page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && limitAllowed(l) {
		st.limit = l
	}
	for _, f := range s.fields {
		raw := q.Get(f.Name)
		if raw == "" {
			continue
		}
		if v, ok := f.parse(raw); ok {
			st.values[f.Name] = v
		}
	}
	return st
}

func (f Field) parse(raw string) (string, bool) {
	switch f.kind {
	case kindInt:
		if _, err := strconv.Atoi(raw); err != nil {
			return "", false
		}
		return raw, true
	case kindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return "", false
		}
		return strconv.FormatBool(v), true
	case kindEnum:
		if _, ok := f.allowed[raw]; !ok {
			return "", false
		}
		return raw, true
	default:
		return raw, true
	}
}

// Page returns the current 1-based page.
func (st *State) Page() int { return st.page }

// Limit returns the current page size.
func (st *State) Limit() int { return st.limit }

// Offset returns the SQL offset for the current page.
func (st *State) Offset() int { return (st.page - 1) * st.limit }

// Get returns the current value of a filter field ("" when unset).
func (st *State) Get(name string) string { return st.values[name] }

// GetBool reports whether a bool filter is set true.
func (st *State) GetBool(name string) bool { return st.values[name] == "true" }

// IsSet reports whether a filter field holds a non-default value.
func (st *State) IsSet(name string) bool {
	i, ok := st.schema.index[name]
	if !ok {
		return false
	}
	return st.values[name] != st.schema.fields[i].Default
}

// Set assigns a filter value, parsing it against the field's declared type
// (falling back to the default on a bad value), and resets the page to 1 so
// the narrowed result set is viewed from its start. Unknown names are ignored.
func (st *State) Set(name, value string) {
	i, ok := st.schema.index[name]
	if !ok {
		return
	}
	f := st.schema.fields[i]
	if value == "" {
		st.values[name] = f.Default
	} else if v, ok := f.parse(value); ok {
		st.values[name] = v
	} else {
		st.values[name] = f.Default
	}
	st.page = DefaultPage
}

// SetPage moves to a page without touching any filter. Values below 1 are
// coerced to 1.
func (st *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	st.page = page
}

// SetLimit changes the page size without touching filters. The page resets to
// 1 since existing offsets no longer line up. Disallowed limits fall back to
// the schema default.
func (st *State) SetLimit(limit int) {
	if !limitAllowed(limit) {
		limit = st.schema.defaultLimit
	}
	st.limit = limit
	st.page = DefaultPage
}

// Clear resets every filter to its default and the page to 1 in a single
// update. Clearing an already-clear state is a no-op.
func (st *State) Clear() {
	for _, f := range st.schema.fields {
		st.values[f.Name] = f.Default
	}
	st.page = DefaultPage
	st.limit = st.schema.defaultLimit
}

// Values serializes the state for a URL or request query string. Fields at
// their default are omitted rather than sent as empty strings; page and limit
// appear only when off their defaults.
func (st *State) Values() url.Values {
	q := url.Values{}
	if st.page != DefaultPage {
		q.Set("page", strconv.Itoa(st.page))
	}
	if st.limit != st.schema.defaultLimit {
		q.Set("limit", strconv.Itoa(st.limit))
	}
	for _, f := range st.schema.fields {
		if v := st.values[f.Name]; v != f.Default {
			q.Set(f.Name, v)
		}
	}
	return q
}

// Key returns the canonical cache key for this state: every field in schema
// order at its effective value. Two deep-equal states produce identical keys
// regardless of how they were built.
func (st *State) Key() string {
	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(st.page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(st.limit))
	for _, f := range st.schema.fields {
		b.WriteByte('&')
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(st.values[f.Name])
	}
	return b.String()
}

// Equal reports whether two states are structurally equal.
func (st *State) Equal(other *State) bool {
	return other != nil && st.Key() == other.Key()
}

// Clone returns an independent copy of the state.
func (st *State) Clone() *State {
	cp := &State{
		schema: st.schema,
		page:   st.page,
		limit:  st.limit,
		values: make(map[string]string, len(st.values)),
	}
	for k, v := range st.values {
		cp.values[k] = v
	}
	return cp
}

func limitAllowed(limit int) bool {
	for _, l := range AllowedLimits {
		if limit == l {
			return true
		}
	}
	return false
}
