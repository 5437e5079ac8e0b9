package adminclient

import (
	"context"
	"net/http"

	"github.com/upcharify/admin-api/pkg/listquery"
)

const usersPath = "/api/v1/super-admin/users"

var userSchema = listquery.NewSchema(10,
	listquery.String("search"),
	listquery.Enum("role", UserRoles...),
	listquery.Enum("status", UserStatuses...),
	listquery.Bool("verified"),
	listquery.String("hospitalId"),
)

// UsersService wraps the /super-admin/users endpoints.
type UsersService struct {
	c *Client
}

// ListState returns a fresh filter state for the user list view.
func (s *UsersService) ListState() *listquery.State {
	return userSchema.NewState()
}

// List fetches one page of users. Structurally equal states hit the
// in-process cache; any write through this client invalidates it.
func (s *UsersService) List(ctx context.Context, st *listquery.State) (*UserList, error) {
	if st == nil {
		st = s.ListState()
	}
	key := st.Key()
	if v, ok := s.c.cache.get("users", key); ok {
		return v.(*UserList), nil
	}
	gen := s.c.cache.generation("users")
	var out UserList
	if err := s.c.do(ctx, http.MethodGet, usersPath, st.Values(), nil, &out); err != nil {
		return nil, err
	}
	s.c.cache.put("users", key, gen, &out)
	return &out, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (*User, error) {
	var out User
	if err := s.c.do(ctx, http.MethodGet, usersPath+"/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UsersService) Create(ctx context.Context, params UserParams) (*User, error) {
	var out User
	if err := s.c.do(ctx, http.MethodPost, usersPath, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("users")
	return &out, nil
}

func (s *UsersService) Update(ctx context.Context, id string, params UserParams) (*User, error) {
	var out User
	if err := s.c.do(ctx, http.MethodPut, usersPath+"/"+id, nil, params, &out); err != nil {
		return nil, err
	}
	s.c.cache.invalidate("users")
	return &out, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, usersPath+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("users")
	return nil
}

// SetStatus moves an account to a new lifecycle status.
func (s *UsersService) SetStatus(ctx context.Context, id, status, reason string) error {
	body := map[string]string{"status": status, "reason": reason}
	if err := s.c.do(ctx, http.MethodPost, usersPath+"/"+id+"/status", nil, body, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("users")
	return nil
}

// VerifyEmail marks an account's email as verified.
func (s *UsersService) VerifyEmail(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodPost, usersPath+"/"+id+"/verify", nil, nil, nil); err != nil {
		return err
	}
	s.c.cache.invalidate("users")
	return nil
}
