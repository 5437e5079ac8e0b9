package hospitals

import (
	"fmt"
	"time"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/validate"
	"github.com/upcharify/admin-api/pkg/listquery"
)

// Resource is the cache/metrics name for this entity.
const Resource = "hospitals"

// Hospital lifecycle statuses. Transitions are owned by the server; the
// console only offers buttons gated on the current value.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

var Statuses = []string{StatusActive, StatusInactive, StatusSuspended, StatusPending}

// Facility types.
const (
	TypeHospital         = "hospital"
	TypeClinic           = "clinic"
	TypeDiagnosticCenter = "diagnostic_center"
)

var Types = []string{TypeHospital, TypeClinic, TypeDiagnosticCenter}

// Hospital is a network facility record.
type Hospital struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website,omitempty"`

	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Pincode   string   `json:"pincode"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	TotalBeds     int `json:"totalBeds"`
	AvailableBeds int `json:"availableBeds"`

	EmergencyService bool     `json:"emergencyService"`
	AmbulanceService bool     `json:"ambulanceService"`
	Facilities       []string `json:"facilities"`

	Status         string  `json:"status"`
	Verified       bool    `json:"verified"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"reviewCount"`
	CommissionRate float64 `json:"commissionRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BedAvailabilityPercent renders bed occupancy for the facility card, rounded
// to one decimal, e.g. "30.0% Available".
func (h Hospital) BedAvailabilityPercent() string {
	if h.TotalBeds <= 0 {
		return "0.0% Available"
	}
	pct := float64(h.AvailableBeds) / float64(h.TotalBeds) * 100
	return fmt.Sprintf("%.1f%% Available", pct)
}

// ListSchema declares the hospital list view's query fields.
func ListSchema(defaultLimit int) *listquery.Schema {
	return listquery.NewSchema(defaultLimit,
		listquery.String("search"),
		listquery.String("city"),
		listquery.String("state"),
		listquery.Enum("status", Statuses...),
		listquery.Enum("type", Types...),
		listquery.Bool("verified"),
		listquery.Bool("emergencyService"),
	)
}

// UpsertHospitalRequest is the create/update payload from the admin form.
type UpsertHospitalRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`

	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Pincode   string   `json:"pincode"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	TotalBeds     int `json:"totalBeds"`
	AvailableBeds int `json:"availableBeds"`

	EmergencyService bool     `json:"emergencyService"`
	AmbulanceService bool     `json:"ambulanceService"`
	Facilities       []string `json:"facilities"`

	CommissionRate float64 `json:"commissionRate"`
}

// Validate checks field shapes before the record touches the database.
func (req UpsertHospitalRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("name", req.Name)
	c.Length("name", req.Name, 2, 200)
	c.Require("type", req.Type)
	c.OneOf("type", req.Type, Types...)
	c.Require("email", req.Email)
	c.Email("email", req.Email)
	c.Require("phone", req.Phone)
	c.Phone("phone", req.Phone)
	c.Require("address", req.Address)
	c.Require("city", req.City)
	c.Require("state", req.State)
	c.Require("country", req.Country)
	c.Require("pincode", req.Pincode)
	c.Min("totalBeds", float64(req.TotalBeds), 0)
	c.Min("availableBeds", float64(req.AvailableBeds), 0)
	if req.AvailableBeds > req.TotalBeds {
		c.Add("availableBeds", "availableBeds cannot exceed totalBeds")
	}
	c.Range("commissionRate", req.CommissionRate, 0, 100)
	return c.Errors()
}

// StatusRequest is the body of POST /{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Validate checks the target status is one of the known lifecycle values.
func (req StatusRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("status", req.Status)
	c.OneOf("status", req.Status, Statuses...)
	return c.Errors()
}

// ListResponse is the list envelope payload.
type ListResponse struct {
	Hospitals  []Hospital         `json:"hospitals"`
	Pagination respond.Pagination `json:"pagination"`
}
