package adminclient

import (
	"context"
	"net/http"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const doctorsPath = "/api/v1/super-admin/doctors"

var doctorSchema = listquery.NewSchema(10,
	listquery.String("search"),
	listquery.Enum("specialization", DoctorSpecializations...),
	listquery.String("hospitalId"),
	listquery.Enum("status", DoctorStatuses...),
	listquery.Bool("verified"),
)

// DoctorsService wraps the /super-admin/doctors endpoints.
type DoctorsService struct {
	c *Client
}

// ListState returns a fresh filter state for the doctor list view.
func (s *DoctorsService) ListState() *listquery.State {
	return doctorSchema.NewState()
}

// List fetches one page of doctors. Structurally equal states hit the
// in-process cache; any write through this client invalidates it.
func (s *DoctorsService) List(ctx context.Context, st *listquery.State) (*DoctorList, error) {
	if st == nil {
		st = s.ListState()
	}
	key := st.Key()
	if v, ok := s.c.cache.get("doctors", key); ok {
		return v.(*DoctorList), nil
	}
	gen := s.c.cache.generation("doctors")
	var out DoctorList
	if err := s.c.do(ctx, http.MethodGet, doctorsPath, st.Values(), nil, &out); err != nil {
		return nil, err
	}
	s.c.cache.put("doctors", key, gen, &out)
	return &out, nil
}

// Get returns a doctor with its hospital assignments.
func (s *DoctorsService) Get(ctx context.Context, id string) (*Doctor, error) {
	var out Doctor
	if err := s.c.do(ctx, http.MethodGet, doctorsPath+"/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DoctorsService) Create(ctx context.Context, params DoctorParams) (*Doctor, error) {
	var out Doctor
	if err := s.c.do(ctx, http.MethodPost, doctorsPath, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("doctors")
	return &out, nil
}

func (s *DoctorsService) Update(ctx context.Context, id string, params DoctorParams) (*Doctor, error) {
	var out Doctor
	if err := s.c.do(ctx, http.MethodPut, doctorsPath+"/"+id, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("doctors")
	return &out, nil
}

func (s *DoctorsService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, doctorsPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("doctors")
	return nil
}

// SetStatus moves a doctor to a new lifecycle status.
func (s *DoctorsService) SetStatus(ctx context.Context, id, status, reason string) error {
	body := map[string]string{"status": status, "reason": reason}
	if err := s.c.do(ctx, http.MethodPost, doctorsPath+"/"+id+"/status", nil, body, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("doctors")
	return nil
}

// Verify marks a doctor's credentials as verified.
func (s *DoctorsService) Verify(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodPost, doctorsPath+"/"+id+"/verify", nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("doctors")
	return nil
}

// Assign links a doctor to a hospital.
func (s *DoctorsService) Assign(ctx context.Context, params AssignDoctorParams) (*DoctorHospital, error) {
	var out DoctorHospital
	if err := s.c.do(ctx, http.MethodPost, doctorsPath+"/assign", nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("doctors")
	return &out, nil
}

// Unassign removes one doctor-hospital link by assignment id.
func (s *DoctorsService) Unassign(ctx context.Context, assignmentID string) error {
	if err := s.c.do(ctx, http.MethodDelete, doctorsPath+"/assign/"+assignmentID, nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("doctors")
	return nil
}

// Hospitals lists a doctor's hospital assignments.
func (s *DoctorsService) Hospitals(ctx context.Context, id string) ([]DoctorHospital, error) {
	var out struct {
		Hospitals []DoctorHospital `json:"hospitals"`
	}
	if err := s.c.do(ctx, http.MethodGet, doctorsPath+"/"+id+"/hospitals", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Hospitals, nil
}
