package listquery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hospitalSchema() *Schema {
	return NewSchema(10,
		String("search"),
		String("state"),
		Enum("status", "active", "inactive", "suspended", "pending"),
		Enum("type", "hospital", "clinic", "diagnostic_center"),
		Bool("verified"),
		Bool("emergencyService"),
	)
}

func TestParseDefaults(t *testing.T) {
	st := hospitalSchema().Parse(url.Values{})
	assert.Equal(t, 1, st.Page())
	assert.Equal(t, 10, st.Limit())
	assert.Equal(t, "", st.Get("search"))
	assert.Equal(t, "", st.Get("status"))
}

func TestParseBadValuesFallBack(t *testing.T) {
	q := url.Values{
		"page":     {"banana"},
		"limit":    {"37"},
		"status":   {"exploded"},
		"verified": {"yep"},
	}
	st := hospitalSchema().Parse(q)
	assert.Equal(t, 1, st.Page(), "unparseable page falls back")
	assert.Equal(t, 10, st.Limit(), "disallowed limit falls back")
	assert.Equal(t, "", st.Get("status"), "out-of-enum value falls back")
	assert.False(t, st.GetBool("verified"))
}

func TestURLRoundTrip(t *testing.T) {
	s := hospitalSchema()
	st := s.NewState()
	st.Set("search", "mercy")
	st.Set("status", "active")
	st.Set("verified", "true")
	st.SetLimit(50)
	st.SetPage(3)

	again := s.Parse(st.Values())
	assert.True(t, st.Equal(again), "parse(values()) must reproduce the state")
	assert.Equal(t, 3, again.Page())
	assert.Equal(t, 50, again.Limit())
	assert.Equal(t, "mercy", again.Get("search"))
}

func TestValuesOmitsUnsetFields(t *testing.T) {
	st := hospitalSchema().NewState()
	st.Set("search", "apollo")
	q := st.Values()
	assert.Equal(t, "apollo", q.Get("search"))
	_, hasStatus := q["status"]
	assert.False(t, hasStatus, "unset filters are omitted, not sent empty")
	_, hasPage := q["page"]
	assert.False(t, hasPage, "default page is omitted")
}

func TestFilterChangeResetsPage(t *testing.T) {
	st := hospitalSchema().NewState()
	st.SetPage(4)
	require.Equal(t, 4, st.Page())

	st.Set("state", "Kerala")
	assert.Equal(t, 1, st.Page(), "changing a filter resets to page 1")
	assert.Equal(t, "Kerala", st.Get("state"))

	st.SetPage(2)
	st.SetPage(5)
	assert.Equal(t, "Kerala", st.Get("state"), "paging does not touch filters")

	st.SetLimit(20)
	assert.Equal(t, 1, st.Page(), "limit change restarts paging")
	assert.Equal(t, "Kerala", st.Get("state"))
}

func TestClearIsIdempotent(t *testing.T) {
	st := hospitalSchema().NewState()
	st.Set("search", "fortis")
	st.Set("status", "suspended")
	st.SetLimit(100)
	st.SetPage(7)

	st.Clear()
	once := st.Key()
	assert.Equal(t, 1, st.Page())
	assert.Equal(t, 10, st.Limit())
	assert.Equal(t, "", st.Get("search"))

	st.Clear()
	assert.Equal(t, once, st.Key(), "clearing twice equals clearing once")
	assert.True(t, st.Equal(hospitalSchema().NewState()))
}

func TestKeyStructuralEquality(t *testing.T) {
	s := hospitalSchema()

	a := s.NewState()
	a.Set("status", "active")
	a.Set("search", "city care")

	// Same values, different mutation order.
	b := s.NewState()
	b.Set("search", "city care")
	b.Set("status", "active")

	assert.Equal(t, a.Key(), b.Key())

	b.Set("status", "inactive")
	assert.NotEqual(t, a.Key(), b.Key(), "any single field change must change the key")

	c := a.Clone()
	assert.Equal(t, a.Key(), c.Key())
	c.SetPage(2)
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestSetUnknownFieldIgnored(t *testing.T) {
	st := hospitalSchema().NewState()
	st.SetPage(3)
	st.Set("nope", "value")
	// Unknown fields are ignored entirely, including the page reset.
	assert.Equal(t, "", st.Get("nope"))
	assert.Equal(t, 3, st.Page())
}

func TestOffset(t *testing.T) {
	st := hospitalSchema().NewState()
	st.SetLimit(20)
	st.SetPage(3)
	assert.Equal(t, 40, st.Offset())
}
