package doctors

import (
	"time"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/validate"
	"github.com/upcharify/admin-api/pkg/listquery"
)

// Resource is the cache/metrics name for this entity.
const Resource = "doctors"

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

var Statuses = []string{StatusActive, StatusInactive, StatusSuspended, StatusPending}

// Specializations is the admissible specialization vocabulary.
var Specializations = []string{
	"general_medicine", "cardiology", "dermatology", "neurology", "orthopedics",
	"pediatrics", "psychiatry", "radiology", "oncology", "gynecology",
	"ophthalmology", "ent", "urology", "nephrology", "gastroenterology",
	"pulmonology", "endocrinology", "anesthesiology", "dentistry", "physiotherapy",
}

// Doctor is the admin-facing practitioner profile. Hospitals is populated on
// single-record reads only.
type Doctor struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender,omitempty"`

	Specialization  string  `json:"specialization"`
	Qualification   string  `json:"qualification,omitempty"`
	ExperienceYears int     `json:"experienceYears"`
	LicenseNumber   string  `json:"licenseNumber"`
	ConsultationFee float64 `json:"consultationFee"`
	Bio             string  `json:"bio,omitempty"`
	AvatarURL       string  `json:"avatarUrl,omitempty"`

	Status   string `json:"status"`
	Verified bool   `json:"verified"`

	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`

	Hospitals []HospitalAssignment `json:"hospitals,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Assignment lifecycle. Unassigning marks the link left rather than deleting
// the row, so commission history survives.
const (
	AssignmentActive   = "active"
	AssignmentInactive = "inactive"
)

var AssignmentStatuses = []string{AssignmentActive, AssignmentInactive}

// HospitalAssignment links a doctor to one hospital it practices at. A doctor
// can hold several at once; at most one is the primary.
type HospitalAssignment struct {
	ID           string `json:"id"`
	DoctorID     string `json:"doctorId"`
	HospitalID   string `json:"hospitalId"`
	HospitalName string `json:"hospitalName,omitempty"`

	CommissionRate float64 `json:"commissionRate"`
	Primary        bool    `json:"primary"`
	Status         string  `json:"status"`

	Department      string   `json:"department,omitempty"`
	ConsultationFee float64  `json:"consultationFee,omitempty"`
	AvailableDays   []string `json:"availableDays,omitempty"`
	StartTime       string   `json:"startTime,omitempty"`
	EndTime         string   `json:"endTime,omitempty"`

	JoinedAt *time.Time `json:"joinedAt,omitempty"`
	LeftAt   *time.Time `json:"leftAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ListSchema declares the doctor list view's query fields.
func ListSchema(defaultLimit int) *listquery.Schema {
	return listquery.NewSchema(defaultLimit,
		listquery.String("search"),
		listquery.Enum("specialization", Specializations...),
		listquery.String("hospitalId"),
		listquery.Enum("status", Statuses...),
		listquery.Bool("verified"),
	)
}

// UpsertDoctorRequest is the create/update payload. UserID links the profile
// to a login account when one exists.
type UpsertDoctorRequest struct {
	UserID    string `json:"userId,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender,omitempty"`

	Specialization  string  `json:"specialization"`
	Qualification   string  `json:"qualification,omitempty"`
	ExperienceYears int     `json:"experienceYears"`
	LicenseNumber   string  `json:"licenseNumber"`
	ConsultationFee float64 `json:"consultationFee"`
	Bio             string  `json:"bio,omitempty"`
	AvatarURL       string  `json:"avatarUrl,omitempty"`
}

func (req UpsertDoctorRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("firstName", req.FirstName)
	c.Require("lastName", req.LastName)
	c.Require("email", req.Email)
	c.Email("email", req.Email)
	c.Require("phone", req.Phone)
	c.Phone("phone", req.Phone)
	c.Require("specialization", req.Specialization)
	c.OneOf("specialization", req.Specialization, Specializations...)
	c.Require("licenseNumber", req.LicenseNumber)
	c.OneOf("gender", req.Gender, "male", "female", "other")
	c.Range("experienceYears", float64(req.ExperienceYears), 0, 70)
	c.Min("consultationFee", req.ConsultationFee, 0)
	return c.Errors()
}

// AssignRequest is the body of POST /assign.
type AssignRequest struct {
	DoctorID        string   `json:"doctorId"`
	HospitalID      string   `json:"hospitalId"`
	CommissionRate  float64  `json:"commissionRate,omitempty"`
	Primary         bool     `json:"primary,omitempty"`
	Status          string   `json:"status,omitempty"`
	Department      string   `json:"department,omitempty"`
	ConsultationFee float64  `json:"consultationFee,omitempty"`
	AvailableDays   []string `json:"availableDays,omitempty"`
	StartTime       string   `json:"startTime,omitempty"`
	EndTime         string   `json:"endTime,omitempty"`
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (req AssignRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("doctorId", req.DoctorID)
	c.Require("hospitalId", req.HospitalID)
	c.Range("commissionRate", req.CommissionRate, 0, 100)
	if req.Status != "" {
		c.OneOf("status", req.Status, AssignmentStatuses...)
	}
	c.Min("consultationFee", req.ConsultationFee, 0)
	for _, d := range req.AvailableDays {
		c.OneOf("availableDays", d, weekdays...)
	}
	return c.Errors()
}

// StatusRequest is the body of POST /{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (req StatusRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("status", req.Status)
	c.OneOf("status", req.Status, Statuses...)
	return c.Errors()
}

// ListResponse is the list envelope payload.
type ListResponse struct {
	Doctors    []Doctor           `json:"doctors"`
	Pagination respond.Pagination `json:"pagination"`
}
