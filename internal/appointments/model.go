package appointments

import (
	"time"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/validate"
	"github.com/upcharify/admin-api/pkg/listquery"
)

// Resource is the cache/metrics name for this entity.
const Resource = "appointments"

// Lifecycle statuses. completed, cancelled and no_show are terminal.
const (
	StatusScheduled   = "scheduled"
	StatusConfirmed   = "confirmed"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusNoShow      = "no_show"
	StatusRescheduled = "rescheduled"
)

var Statuses = []string{
	StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted,
	StatusCancelled, StatusNoShow, StatusRescheduled,
}

// transitions is the legal status graph. A rescheduled appointment re-enters
// the flow the same way a scheduled one does.
var transitions = map[string][]string{
	StatusScheduled:   {StatusConfirmed, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusConfirmed:   {StatusInProgress, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusRescheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusInProgress:  {StatusCompleted},
}

// CanTransition reports whether from -> to is a legal status move.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Visit types.
const (
	TypeInPerson = "in_person"
	TypeVideo    = "video"
	TypePhone    = "phone"
)

var Types = []string{TypeInPerson, TypeVideo, TypePhone}

// Payment states for the appointment fee.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

var PaymentStatuses = []string{PaymentPending, PaymentPaid, PaymentRefunded}

// Appointment is the admin-facing booking record. The *Name fields are
// resolved on read and never written.
type Appointment struct {
	ID string `json:"id"`

	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName,omitempty"`

	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName,omitempty"`

	HospitalID   string `json:"hospitalId"`
	HospitalName string `json:"hospitalName,omitempty"`

	Type   string `json:"type"`
	Status string `json:"status"`

	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`

	Reason       string `json:"reason,omitempty"`
	Symptoms     string `json:"symptoms,omitempty"`
	Diagnosis    string `json:"diagnosis,omitempty"`
	Prescription string `json:"prescription,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CancelReason string `json:"cancelReason,omitempty"`

	Fee           float64 `json:"fee"`
	PaymentStatus string  `json:"paymentStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListSchema declares the appointment list view's query fields.
func ListSchema(defaultLimit int) *listquery.Schema {
	return listquery.NewSchema(defaultLimit,
		listquery.String("search"),
		listquery.Enum("status", Statuses...),
		listquery.Enum("type", Types...),
		listquery.String("doctorId"),
		listquery.String("hospitalId"),
		listquery.String("patientId"),
		listquery.String("dateFrom"),
		listquery.String("dateTo"),
	)
}

// CreateAppointmentRequest is the booking payload.
type CreateAppointmentRequest struct {
	PatientID       string  `json:"patientId"`
	DoctorID        string  `json:"doctorId"`
	HospitalID      string  `json:"hospitalId"`
	Type            string  `json:"type"`
	ScheduledAt     string  `json:"scheduledAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Reason          string  `json:"reason,omitempty"`
	Symptoms        string  `json:"symptoms,omitempty"`
	Fee             float64 `json:"fee"`
	PaymentStatus   string  `json:"paymentStatus,omitempty"`
}

func (req CreateAppointmentRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("patientId", req.PatientID)
	c.Require("doctorId", req.DoctorID)
	c.Require("hospitalId", req.HospitalID)
	c.Require("type", req.Type)
	c.OneOf("type", req.Type, Types...)
	c.Require("scheduledAt", req.ScheduledAt)
	if req.ScheduledAt != "" {
		if _, err := time.Parse(time.RFC3339, req.ScheduledAt); err != nil {
			c.Add("scheduledAt", "scheduledAt must be an RFC 3339 timestamp")
		}
	}
	if req.DurationMinutes != 0 {
		c.Range("durationMinutes", float64(req.DurationMinutes), 5, 480)
	}
	c.Min("fee", req.Fee, 0)
	if req.PaymentStatus != "" {
		c.OneOf("paymentStatus", req.PaymentStatus, PaymentStatuses...)
	}
	return c.Errors()
}

// CancelRequest is the body of POST /{id}/cancel.
type CancelRequest struct {
	Reason string `json:"reason"`
}

func (req CancelRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("reason", req.Reason)
	return c.Errors()
}

// RescheduleRequest is the body of POST /{id}/reschedule.
type RescheduleRequest struct {
	ScheduledAt string `json:"scheduledAt"`
	Reason      string `json:"reason,omitempty"`
}

func (req RescheduleRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("scheduledAt", req.ScheduledAt)
	if req.ScheduledAt != "" {
		if _, err := time.Parse(time.RFC3339, req.ScheduledAt); err != nil {
			c.Add("scheduledAt", "scheduledAt must be an RFC 3339 timestamp")
		}
	}
	return c.Errors()
}

// CompleteRequest is the body of POST /{id}/complete. The clinical outcome
// fields land on the record alongside the status flip.
type CompleteRequest struct {
	Notes        string `json:"notes,omitempty"`
	Diagnosis    string `json:"diagnosis,omitempty"`
	Prescription string `json:"prescription,omitempty"`
}

// ListResponse is the list envelope payload.
type ListResponse struct {
	Appointments []Appointment      `json:"appointments"`
	Pagination   respond.Pagination `json:"pagination"`
}
