package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/upcharify/admin-api/internal/validate"
)

func TestTransitionGraph(t *testing.T) {
	legal := []struct{ from, to string }{
		{StatusScheduled, StatusConfirmed},
		{StatusScheduled, StatusCancelled},
		{StatusScheduled, StatusNoShow},
		{StatusScheduled, StatusRescheduled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusRescheduled},
		{StatusRescheduled, StatusConfirmed},
		{StatusInProgress, StatusCompleted},
	}
	for _, tc := range legal {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	illegal := []struct{ from, to string }{
		{StatusScheduled, StatusCompleted},
		{StatusScheduled, StatusInProgress},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		{StatusNoShow, StatusScheduled},
		{StatusInProgress, StatusCancelled},
		{StatusRescheduled, StatusInProgress},
	}
	for _, tc := range illegal {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatusesHaveNoExit(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled, StatusNoShow} {
		for _, to := range Statuses {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestCreateValidate(t *testing.T) {
	req := CreateAppointmentRequest{
		Type:            "telepathy",
		ScheduledAt:     "next tuesday",
		DurationMinutes: 3,
		Fee:             -5,
		PaymentStatus:   "ious",
	}
	errs := req.Validate()
	assert.True(t, validate.Has(errs, "patientId"))
	assert.True(t, validate.Has(errs, "doctorId"))
	assert.True(t, validate.Has(errs, "hospitalId"))
	assert.True(t, validate.Has(errs, "type"))
	assert.True(t, validate.Has(errs, "scheduledAt"))
	assert.True(t, validate.Has(errs, "durationMinutes"))
	assert.True(t, validate.Has(errs, "fee"))
	assert.True(t, validate.Has(errs, "paymentStatus"))

	req = CreateAppointmentRequest{
		PatientID:   "u1",
		DoctorID:    "d1",
		HospitalID:  "h1",
		Type:        TypeVideo,
		ScheduledAt: "2026-09-01T10:30:00Z",
	}
	assert.Empty(t, req.Validate())
}

func TestEveryVisitTypeAccepted(t *testing.T) {
	for _, typ := range []string{TypeInPerson, TypeVideo, TypePhone} {
		req := CreateAppointmentRequest{
			PatientID:   "u1",
			DoctorID:    "d1",
			HospitalID:  "h1",
			Type:        typ,
			ScheduledAt: "2026-09-01T10:30:00Z",
		}
		assert.Empty(t, req.Validate(), "type %s", typ)
	}
}

func TestCancelRequestRequiresReason(t *testing.T) {
	assert.True(t, validate.Has(CancelRequest{}.Validate(), "reason"))
	assert.Empty(t, CancelRequest{Reason: "patient request"}.Validate())
}

func TestRescheduleValidate(t *testing.T) {
	assert.True(t, validate.Has(RescheduleRequest{}.Validate(), "scheduledAt"))
	assert.True(t, validate.Has(RescheduleRequest{ScheduledAt: "tomorrow"}.Validate(), "scheduledAt"))
	assert.Empty(t, RescheduleRequest{ScheduledAt: "2026-09-02T09:00:00Z"}.Validate())
}
