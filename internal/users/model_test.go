package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcharify/admin-api/internal/validate"
)

func validUserUpsert(role string) UpsertUserRequest {
	return UpsertUserRequest{
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "asha.verma@example.com",
		Phone:     "+919876543210",
		Role:      role,
	}
}

func TestStaffRolesRequireHospitalAssignment(t *testing.T) {
	for _, role := range StaffRoles {
		t.Run(role, func(t *testing.T) {
			req := validUserUpsert(role)
			errs := req.Validate()
			require.NotEmpty(t, errs)
			assert.True(t, validate.Has(errs, "hospitalAssignment.hospitalId"),
				"expected error at hospitalAssignment.hospitalId, got %v", errs)
		})
	}
}

func TestEmptyHospitalIDFailsForStaff(t *testing.T) {
	req := validUserUpsert(RoleReceptionist)
	req.HospitalAssignment = &HospitalAssignment{HospitalID: ""}
	errs := req.Validate()
	assert.True(t, validate.Has(errs, "hospitalAssignment.hospitalId"))
}

func TestPatientNeedsNoAssignment(t *testing.T) {
	for _, role := range []string{RolePatient, RoleRecipient, RoleCaregiver, RoleAdmin} {
		req := validUserUpsert(role)
		assert.Empty(t, req.Validate(), "role %s", role)
	}
}

func TestDoctorRequiresSpecializationAndLicense(t *testing.T) {
	req := validUserUpsert(RoleDoctor)
	req.HospitalAssignment = &HospitalAssignment{HospitalID: "h1"}

	errs := req.Validate()
	assert.True(t, validate.Has(errs, "hospitalAssignment.specialization"))
	assert.True(t, validate.Has(errs, "hospitalAssignment.licenseNumber"))
	assert.False(t, validate.Has(errs, "hospitalAssignment.nursingLicenseNumber"))

	req.HospitalAssignment.Specialization = "cardiology"
	req.HospitalAssignment.LicenseNumber = "MCI-4410"
	assert.Empty(t, req.Validate())
}

func TestNurseRequiresNursingLicenseOnly(t *testing.T) {
	req := validUserUpsert(RoleNurse)
	req.HospitalAssignment = &HospitalAssignment{HospitalID: "h1"}

	errs := req.Validate()
	assert.True(t, validate.Has(errs, "hospitalAssignment.nursingLicenseNumber"))
	assert.False(t, validate.Has(errs, "hospitalAssignment.specialization"))
	assert.False(t, validate.Has(errs, "hospitalAssignment.licenseNumber"))

	req.HospitalAssignment.NursingLicenseNumber = "NC-2231"
	assert.Empty(t, req.Validate())
}

func TestPharmacistRequiresPharmacyLicense(t *testing.T) {
	req := validUserUpsert(RolePharmacist)
	req.HospitalAssignment = &HospitalAssignment{HospitalID: "h1"}
	assert.True(t, validate.Has(req.Validate(), "hospitalAssignment.pharmacyLicenseNumber"))
}

func TestValidateRejectsBadBasics(t *testing.T) {
	req := UpsertUserRequest{
		Email: "not-an-email",
		Phone: "abc",
		Role:  "wizard",
	}
	errs := req.Validate()
	assert.True(t, validate.Has(errs, "firstName"))
	assert.True(t, validate.Has(errs, "lastName"))
	assert.True(t, validate.Has(errs, "email"))
	assert.True(t, validate.Has(errs, "phone"))
	assert.True(t, validate.Has(errs, "role"))
}

func TestNormalizeFoldsLegacyAssignments(t *testing.T) {
	req := validUserUpsert(RoleDoctor)
	req.LegacyAssignments = map[string]HospitalAssignment{
		RoleDoctor: {HospitalID: "h1", Specialization: "dermatology", LicenseNumber: "MCI-9"},
		RoleNurse:  {HospitalID: "h2"},
	}

	req.Normalize()

	require.NotNil(t, req.HospitalAssignment)
	assert.Equal(t, "h1", req.HospitalAssignment.HospitalID)
	assert.Equal(t, "dermatology", req.HospitalAssignment.Specialization)
	assert.Nil(t, req.LegacyAssignments)
	assert.Empty(t, req.Validate())
}

func TestNormalizeCanonicalFieldWins(t *testing.T) {
	req := validUserUpsert(RoleNurse)
	req.HospitalAssignment = &HospitalAssignment{HospitalID: "h1", NursingLicenseNumber: "NC-1"}
	req.LegacyAssignments = map[string]HospitalAssignment{
		RoleNurse: {HospitalID: "h9"},
	}

	req.Normalize()

	assert.Equal(t, "h1", req.HospitalAssignment.HospitalID)
	assert.Nil(t, req.LegacyAssignments)
}

func TestNormalizeIgnoresMismatchedRoleKey(t *testing.T) {
	req := validUserUpsert(RoleDoctor)
	req.LegacyAssignments = map[string]HospitalAssignment{
		RoleNurse: {HospitalID: "h2"},
	}

	req.Normalize()

	assert.Nil(t, req.HospitalAssignment)
	assert.True(t, validate.Has(req.Validate(), "hospitalAssignment.hospitalId"))
}

func TestListSchemaDefaults(t *testing.T) {
	st := ListSchema(10).Parse(nil)
	assert.Equal(t, 1, st.Page())
	assert.Equal(t, 10, st.Limit())
	assert.False(t, st.IsSet("verified"))
}
