package adminclient

import (
	"context"
	"net/http"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const hospitalsPath = "/api/v1/admin/hospital"

var hospitalSchema = listquery.NewSchema(10,
	listquery.String("search"),
	listquery.String("city"),
	listquery.String("state"),
	listquery.Enum("status", HospitalStatuses...),
	listquery.Enum("type", HospitalTypes...),
	listquery.Bool("verified"),
	listquery.Bool("emergencyService"),
)

// HospitalsService wraps the /admin/hospital endpoints.
type HospitalsService struct {
	c *Client
}

// ListState returns a fresh filter state for the hospital list view.
func (s *HospitalsService) ListState() *listquery.State {
	return hospitalSchema.NewState()
}

// List fetches one page of hospitals. Structurally equal states hit the
// in-process cache; any write through this client invalidates it.
func (s *HospitalsService) List(ctx context.Context, st *listquery.State) (*HospitalList, error) {
	if st == nil {
		st = s.ListState()
	}
	key := st.Key()
	if v, ok := s.c.cache.get("hospitals", key); ok {
		return v.(*HospitalList), nil
	}
	gen := s.c.cache.generation("hospitals")
	var out HospitalList
	if err := s.c.do(ctx, http.MethodGet, hospitalsPath, st.Values(), nil, &out); err != nil {
		return nil, err
	}
	s.c.cache.put("hospitals", key, gen, &out)
	return &out, nil
}

func (s *HospitalsService) Get(ctx context.Context, id string) (*Hospital, error) {
	var out Hospital
	if err := s.c.do(ctx, http.MethodGet, hospitalsPath+"/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HospitalsService) Create(ctx context.Context, params HospitalParams) (*Hospital, error) {
	var out Hospital
	if err := s.c.do(ctx, http.MethodPost, hospitalsPath, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("hospitals")
	return &out, nil
}

func (s *HospitalsService) Update(ctx context.Context, id string, params HospitalParams) (*Hospital, error) {
	var out Hospital
	if err := s.c.do(ctx, http.MethodPut, hospitalsPath+"/"+id, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("hospitals")
	return &out, nil
}

func (s *HospitalsService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, hospitalsPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("hospitals")
	return nil
}

// SetStatus moves a hospital to a new lifecycle status.
func (s *HospitalsService) SetStatus(ctx context.Context, id, status, reason string) error {
	body := map[string]string{"status": status, "reason": reason}
	if err := s.c.do(ctx, http.MethodPost, hospitalsPath+"/"+id+"/status", nil, body, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("hospitals")
	return nil
}

// Verify marks a hospital as verified.
func (s *HospitalsService) Verify(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodPost, hospitalsPath+"/"+id+"/verify", nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("hospitals")
	return nil
}
