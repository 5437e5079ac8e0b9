package adminclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const dashboardPath = "/api/v1/super-admin/dashboard"

// DashboardService wraps the /super-admin/dashboard endpoints.
type DashboardService struct {
	c *Client
}

// Stats returns the aggregate snapshot behind the console landing page.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := s.c.do(ctx, http.MethodGet, dashboardPath+"/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activity returns the newest audit entries across all resources. limit <= 0
// uses the server default.
func (s *DashboardService) Activity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	var out struct {
		Activity []ActivityEntry `json:"activity"`
	}
	if err := s.c.do(ctx, http.MethodGet, dashboardPath+"/activity", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Activity, nil
}
