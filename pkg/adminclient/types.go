package adminclient

import "time"

// Pagination is the page descriptor attached to every list response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Lifecycle and vocabulary values accepted by the API. The server is the
// source of truth; these mirror it so filter states and request payloads can
// be built without string literals.
var (
	HospitalStatuses = []string{"active", "inactive", "suspended", "pending"}
	HospitalTypes    = []string{"hospital", "clinic", "diagnostic_center"}

	DoctorStatuses = []string{"active", "inactive", "suspended", "pending"}
	DoctorSpecializations = []string{
		"general_medicine", "cardiology", "dermatology", "neurology", "orthopedics",
		"pediatrics", "psychiatry", "radiology", "oncology", "gynecology",
		"ophthalmology", "ent", "urology", "nephrology", "gastroenterology",
		"pulmonology", "endocrinology", "anesthesiology", "dentistry", "physiotherapy",
	}

	UserStatuses = []string{"active", "inactive", "suspended", "pending_verification"}
	UserRoles = []string{
		"super_admin", "admin", "hospital_admin",
		"doctor", "nurse", "pharmacist", "lab_technician", "radiologist",
		"receptionist", "front_desk", "billing_staff", "support_agent",
		"patient", "recipient", "caregiver",
	}

	AppointmentStatuses = []string{
		"scheduled", "confirmed", "in_progress", "completed",
		"cancelled", "no_show", "rescheduled",
	}
	AppointmentTypes           = []string{"in_person", "video", "phone"}
	AppointmentPaymentStatuses = []string{"pending", "paid", "refunded"}

	DoctorAssignmentStatuses = []string{"active", "inactive"}
)

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

// HospitalList is one page of hospitals.
type HospitalList struct {
	Hospitals  []Hospital `json:"hospitals"`
	Pagination Pagination `json:"pagination"`
}

// HospitalParams is the create/update payload.
type HospitalParams struct {
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
	Facilities       []string `json:"facilities,omitempty"`

	CommissionRate float64 `json:"commissionRate"`
}

// Doctor is a practitioner profile. Hospitals is populated on single-record
// reads only.
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

	Hospitals []DoctorHospital `json:"hospitals,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DoctorHospital is one doctor-hospital practice assignment. Removing an
// assignment marks it left instead of deleting it.
type DoctorHospital struct {
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

// DoctorList is one page of doctors.
type DoctorList struct {
	Doctors    []Doctor   `json:"doctors"`
	Pagination Pagination `json:"pagination"`
}

// DoctorParams is the create/update payload. UserID links the profile to a
// login account when one exists.
type DoctorParams struct {
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

// AssignDoctorParams links a doctor to a hospital. Re-assigning the same pair
// updates the terms in place.
type AssignDoctorParams struct {
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

// UserAssignment carries the role-specific employment fields of a staff
// account.
type UserAssignment struct {
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

// User is an account record.
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

	HospitalAssignment *UserAssignment `json:"hospitalAssignment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserList is one page of users.
type UserList struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// UserParams is the create/update payload. Password is only honored on
// create.
type UserParams struct {
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

	HospitalAssignment *UserAssignment `json:"hospitalAssignment,omitempty"`
}

// Appointment is a booking record. The *Name fields are resolved server-side
// on read.
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

// AppointmentList is one page of appointments.
type AppointmentList struct {
	Appointments []Appointment `json:"appointments"`
	Pagination   Pagination    `json:"pagination"`
}

// AppointmentParams is the create/update payload. ScheduledAt is RFC 3339.
type AppointmentParams struct {
	PatientID       string  `json:"patientId"`
	DoctorID        string  `json:"doctorId"`
	HospitalID      string  `json:"hospitalId"`
	Type            string  `json:"type"`
	ScheduledAt     string  `json:"scheduledAt"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Reason          string  `json:"reason,omitempty"`
	Symptoms        string  `json:"symptoms,omitempty"`
	Fee             float64 `json:"fee"`
	PaymentStatus   string  `json:"paymentStatus,omitempty"`
}

// CompleteAppointmentParams carries the clinical outcome recorded when an
// appointment is completed.
type CompleteAppointmentParams struct {
	Notes        string `json:"notes,omitempty"`
	Diagnosis    string `json:"diagnosis,omitempty"`
	Prescription string `json:"prescription,omitempty"`
}

// DashboardStats is the aggregate snapshot behind the console landing page.
type DashboardStats struct {
	TotalHospitals  int `json:"totalHospitals"`
	ActiveHospitals int `json:"activeHospitals"`

	TotalDoctors    int `json:"totalDoctors"`
	VerifiedDoctors int `json:"verifiedDoctors"`

	TotalUsers    int `json:"totalUsers"`
	TotalPatients int `json:"totalPatients"`

	TotalAppointments    int            `json:"totalAppointments"`
	AppointmentsToday    int            `json:"appointmentsToday"`
	AppointmentsByStatus map[string]int `json:"appointmentsByStatus"`
	AppointmentsPerMonth []MonthCount   `json:"appointmentsPerMonth"`

	RecentAppointments []RecentAppointment `json:"recentAppointments"`

	RevenueThisMonth float64 `json:"revenueThisMonth"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// MonthCount is one bucket of the appointment time-series, keyed "2006-01".
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// RecentAppointment is a slim row in the dashboard's latest-bookings list.
type RecentAppointment struct {
	ID           string    `json:"id"`
	PatientName  string    `json:"patientName"`
	DoctorName   string    `json:"doctorName"`
	HospitalName string    `json:"hospitalName"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	ScheduledAt  time.Time `json:"scheduledAt"`
}

// ActivityEntry is one row of the recent-activity feed.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Resource  string    `json:"resource"`
	EntityID  string    `json:"entityId"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actorId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TokenPair is the login/refresh result. ExpiresIn is the access token
// lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}
