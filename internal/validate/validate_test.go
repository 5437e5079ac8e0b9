package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	c := New()
	c.Require("name", "Apollo")
	c.Require("hospitalAssignment.hospitalId", "   ")
	errs := c.Errors()
	assert.Len(t, errs, 1)
	assert.Equal(t, "hospitalAssignment.hospitalId", errs[0].Path)
	assert.True(t, Has(errs, "hospitalAssignment.hospitalId"))
	assert.False(t, Has(errs, "name"))
}

func TestEmailAndPhone(t *testing.T) {
	c := New()
	c.Email("email", "admin@upcharify.com")
	c.Email("contactEmail", "not-an-email")
	c.Phone("phone", "+91 98765 43210")
	c.Phone("altPhone", "call me")
	errs := c.Errors()
	assert.Len(t, errs, 2)
	assert.True(t, Has(errs, "contactEmail"))
	assert.True(t, Has(errs, "altPhone"))
}

func TestEmptyOptionalValuesPass(t *testing.T) {
	c := New()
	c.Email("email", "")
	c.Phone("phone", "")
	c.OneOf("status", "")
	c.Length("bio", "", 10, 500)
	assert.True(t, c.OK())
}

func TestOneOfAndRange(t *testing.T) {
	c := New()
	c.OneOf("type", "clinic", "hospital", "clinic", "diagnostic_center")
	c.OneOf("status", "archived", "active", "inactive")
	c.Range("commissionRate", 150, 0, 100)
	c.Min("totalBeds", -2, 0)
	errs := c.Errors()
	assert.Len(t, errs, 3)
	assert.True(t, Has(errs, "status"))
	assert.True(t, Has(errs, "commissionRate"))
	assert.True(t, Has(errs, "totalBeds"))
}
