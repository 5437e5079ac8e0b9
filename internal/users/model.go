package users

import (
	"time"

	"github.com/upcharify/admin-api/internal/api/respond"
	"github.com/upcharify/admin-api/internal/validate"
	"github.com/upcharify/admin-api/pkg/listquery"
)

// Resource is the cache/metrics name for this entity.
const Resource = "users"

// Account lifecycle statuses.
const (
	StatusActive              = "active"
	StatusInactive            = "inactive"
	StatusSuspended           = "suspended"
	StatusPendingVerification = "pending_verification"
)

var Statuses = []string{StatusActive, StatusInactive, StatusSuspended, StatusPendingVerification}

// Roles. Staff roles require a hospital assignment; patient-side roles do not.
const (
	RoleSuperAdmin    = "super_admin"
	RoleAdmin         = "admin"
	RoleHospitalAdmin = "hospital_admin"

	RoleDoctor        = "doctor"
	RoleNurse         = "nurse"
	RolePharmacist    = "pharmacist"
	RoleLabTechnician = "lab_technician"
	RoleRadiologist   = "radiologist"

	RoleReceptionist = "receptionist"
	RoleFrontDesk    = "front_desk"
	RoleBillingStaff = "billing_staff"
	RoleSupportAgent = "support_agent"

	RolePatient   = "patient"
	RoleRecipient = "recipient"
	RoleCaregiver = "caregiver"
)

var Roles = []string{
	RoleSuperAdmin, RoleAdmin, RoleHospitalAdmin,
	RoleDoctor, RoleNurse, RolePharmacist, RoleLabTechnician, RoleRadiologist,
	RoleReceptionist, RoleFrontDesk, RoleBillingStaff, RoleSupportAgent,
	RolePatient, RoleRecipient, RoleCaregiver,
}

// StaffRoles are the roles that must be attached to a hospital.
var StaffRoles = []string{
	RoleDoctor, RoleNurse, RolePharmacist, RoleLabTechnician, RoleRadiologist,
	RoleReceptionist, RoleFrontDesk, RoleBillingStaff,
}

// IsStaffRole reports whether the role requires a hospital assignment.
func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HospitalAssignment carries the role-specific employment fields of a staff
// account.
type HospitalAssignment struct {
	HospitalID            string     `json:"hospitalId"`
	DepartmentID          string     `json:"departmentId,omitempty"`
	EmployeeID            string     `json:"employeeId,omitempty"`
	Specialization        string     `json:"specialization,omitempty"`
	LicenseNumber         string     `json:"licenseNumber,omitempty"`
	NursingLicenseNumber  string     `json:"nursingLicenseNumber,omitempty"`
	PharmacyLicenseNumber string     `json:"pharmacyLicenseNumber,omitempty"`
	Shift                 string     `json:"shift,omitempty"`
	ConsultationFee       float64    `json:"consultationFee,omitempty"`
	JoinedAt              *time.Time `json:"joinedAt,omitempty"`
}

// User is the canonical account record. The legacy role-keyed "master user"
// shape is folded into this at the handler boundary (see legacy.go).
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	BloodGroup  string     `json:"bloodGroup,omitempty"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`

	Role   string `json:"role"`
	Status string `json:"status"`

	EmailVerified bool `json:"emailVerified"`
	PhoneVerified bool `json:"phoneVerified"`

	HospitalAssignment *HospitalAssignment `json:"hospitalAssignment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListSchema declares the user list view's query fields.
func ListSchema(defaultLimit int) *listquery.Schema {
	return listquery.NewSchema(defaultLimit,
		listquery.String("search"),
		listquery.Enum("role", Roles...),
		listquery.Enum("status", Statuses...),
		listquery.Bool("verified"),
		listquery.String("hospitalId"),
	)
}

// UpsertUserRequest is the create/update payload. Password is only honored on
// create.
type UpsertUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password,omitempty"`

	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	BloodGroup  string `json:"bloodGroup,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`

	Role string `json:"role"`

	HospitalAssignment *HospitalAssignment `json:"hospitalAssignment,omitempty"`

	// Legacy master-user payloads carry assignments keyed by role instead of
	// a single sub-record. Normalize folds them in.
	LegacyAssignments map[string]HospitalAssignment `json:"hospitalAssignments,omitempty"`
}

// Validate runs per-field checks first, then the cross-field staff-role rules.
func (req UpsertUserRequest) Validate() []validate.FieldError {
	c := validate.New()
	c.Require("firstName", req.FirstName)
	c.Length("firstName", req.FirstName, 1, 100)
	c.Require("lastName", req.LastName)
	c.Require("email", req.Email)
	c.Email("email", req.Email)
	c.Require("phone", req.Phone)
	c.Phone("phone", req.Phone)
	c.Require("role", req.Role)
	c.OneOf("role", req.Role, Roles...)
	c.OneOf("gender", req.Gender, "male", "female", "other")
	c.OneOf("bloodGroup", req.BloodGroup, "A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-")

	if !IsStaffRole(req.Role) {
		return c.Errors()
	}

	// Staff roles need a hospital linkage before anything else.
	if req.HospitalAssignment == nil || req.HospitalAssignment.HospitalID == "" {
		c.Add("hospitalAssignment.hospitalId", "hospitalAssignment.hospitalId is required for staff roles")
		return c.Errors()
	}

	a := req.HospitalAssignment
	switch req.Role {
	case RoleDoctor:
		c.Require("hospitalAssignment.specialization", a.Specialization)
		c.Require("hospitalAssignment.licenseNumber", a.LicenseNumber)
	case RoleNurse:
		c.Require("hospitalAssignment.nursingLicenseNumber", a.NursingLicenseNumber)
	case RolePharmacist:
		c.Require("hospitalAssignment.pharmacyLicenseNumber", a.PharmacyLicenseNumber)
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
	Users      []User             `json:"users"`
	Pagination respond.Pagination `json:"pagination"`
}
