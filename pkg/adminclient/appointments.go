package adminclient

import (
	"context"
	"net/http"
	"time"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const appointmentsPath = "/api/v1/super-admin/appointments"

var appointmentSchema = listquery.NewSchema(10,
	listquery.String("search"),
	listquery.Enum("status", AppointmentStatuses...),
	listquery.Enum("type", AppointmentTypes...),
	listquery.String("doctorId"),
	listquery.String("hospitalId"),
	listquery.String("patientId"),
	listquery.String("dateFrom"),
	listquery.String("dateTo"),
)

// AppointmentsService wraps the /super-admin/appointments endpoints.
type AppointmentsService struct {
	c *Client
}

// ListState returns a fresh filter state for the appointment list view.
func (s *AppointmentsService) ListState() *listquery.State {
	return appointmentSchema.NewState()
}

// List fetches one page of appointments. Structurally equal states hit the
// in-process cache; any write through this client invalidates it.
func (s *AppointmentsService) List(ctx context.Context, st *listquery.State) (*AppointmentList, error) {
	if st == nil {
		st = s.ListState()
	}
	key := st.Key()
	if v, ok := s.c.cache.get("appointments", key); ok {
		return v.(*AppointmentList), nil
	}
	gen := s.c.cache.generation("appointments")
	var out AppointmentList
	if err := s.c.do(ctx, http.MethodGet, appointmentsPath, st.Values(), nil, &out); err != nil {
		return nil, err
	}
	s.c.cache.put("appointments", key, gen, &out)
	return &out, nil
}

func (s *AppointmentsService) Get(ctx context.Context, id string) (*Appointment, error) {
	var out Appointment
	if err := s.c.do(ctx, http.MethodGet, appointmentsPath+"/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AppointmentsService) Create(ctx context.Context, params AppointmentParams) (*Appointment, error) {
	var out Appointment
	if err := s.c.do(ctx, http.MethodPost, appointmentsPath, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("appointments")
	return &out, nil
}

func (s *AppointmentsService) Update(ctx context.Context, id string, params AppointmentParams) (*Appointment, error) {
	var out Appointment
	if err := s.c.do(ctx, http.MethodPut, appointmentsPath+"/"+id, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("appointments")
	return &out, nil
}

func (s *AppointmentsService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, appointmentsPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("appointments")
	return nil
}

// Confirm moves a scheduled or rescheduled appointment to confirmed. An
// illegal transition comes back as a 409 APIError.
func (s *AppointmentsService) Confirm(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, "confirm", nil)
}

// Cancel cancels an appointment with a reason.
func (s *AppointmentsService) Cancel(ctx context.Context, id, reason string) (*Appointment, error) {
	return s.transition(ctx, id, "cancel", map[string]string{"reason": reason})
}

// Start moves a confirmed appointment to in_progress.
func (s *AppointmentsService) Start(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, "start", nil)
}

// Complete finishes an in-progress appointment, recording the clinical
// outcome when one is given.
func (s *AppointmentsService) Complete(ctx context.Context, id string, params CompleteAppointmentParams) (*Appointment, error) {
	var body any
	if params != (CompleteAppointmentParams{}) {
		body = params
	}
	return s.transition(ctx, id, "complete", body)
}

// NoShow marks an appointment the patient did not attend.
func (s *AppointmentsService) NoShow(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, "no-show", nil)
}

// Reschedule moves the slot. The appointment re-enters the flow as
// rescheduled.
func (s *AppointmentsService) Reschedule(ctx context.Context, id string, at time.Time, reason string) (*Appointment, error) {
	body := map[string]string{"scheduledAt": at.Format(time.RFC3339)}
	if reason != "" {
		body["reason"] = reason
	}
	return s.transition(ctx, id, "reschedule", body)
}

func (s *AppointmentsService) transition(ctx context.Context, id, action string, body any) (*Appointment, error) {
	var out Appointment
	if err := s.c.do(ctx, http.MethodPost, appointmentsPath+"/"+id+"/"+action, nil, body, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("appointments")
	return &out, nil
}
