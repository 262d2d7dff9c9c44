package transport

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/core/student"
)

var (
	// ErrNoProfile means the student has not created a profile yet; a valid
	// first-run state, not a failure.
	ErrNoProfile = errors.New("no profile exists yet")
)

type fieldRequest struct {
	FieldName string `json:"fieldName"`
}

// GetProfile fetches the authenticated student's own profile.
func (c *Client) GetProfile(ctx context.Context) (*student.Info, error) {
	// cache-busting timestamp; some proxies cache GETs despite the headers
	q := url.Values{"t": []string{strconv.FormatInt(time.Now().UnixNano()/int64(time.Millisecond), 10)}}

	var info student.Info
	if err := c.do(ctx, http.MethodGet, "students/me", q, nil, &info); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	return &info, nil
}

// UpsertProfile creates or updates the authenticated student's profile.
// Invalid input never reaches the network.
func (c *Client) UpsertProfile(ctx context.Context, p student.Profile) (*student.Info, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var info student.Info
	if err := c.do(ctx, http.MethodPost, "students/me", nil, p, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UnflagField marks one of the student's own fields as corrected.
func (c *Client) UnflagField(ctx context.Context, fieldName string) error {
	return c.do(ctx, http.MethodPut, "students/me/unflag-field", nil, fieldRequest{FieldName: fieldName}, nil)
}

// FlagStudentField flags a field on a student's record for review (teacher only).
func (c *Client) FlagStudentField(ctx context.Context, studentID, fieldName string) error {
	path := "students/" + url.PathEscape(studentID) + "/flag-field"
	return c.do(ctx, http.MethodPut, path, nil, fieldRequest{FieldName: fieldName}, nil)
}
