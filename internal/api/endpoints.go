package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// AcademicStatus fetches the academic status snapshot of the active school.
func (c *Client) AcademicStatus(ctx context.Context) (*AcademicStatus, error) {
	var status AcademicStatus
	if err := c.do(ctx, "academic_status", http.MethodGet, AcademicStatusPath, nil, nil, true, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ClassCount returns the number of classes in the active school. It asks
// for a single record and reads the total from the envelope.
func (c *Client) ClassCount(ctx context.Context) (int, error) {
	query := url.Values{}
	query.Set("limit", "1")

	var list ClassList
	if err := c.do(ctx, "class_count", http.MethodGet, ClassesPath, query, nil, true, &list); err != nil {
		return 0, err
	}
	return list.Total, nil
}

// CreateSchool creates a school owned by the signed-in user.
func (c *Client) CreateSchool(ctx context.Context, req CreateSchoolRequest) (*School, error) {
	var school School
	if err := c.do(ctx, "create_school", http.MethodPost, SchoolsPath, nil, req, false, &school); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(school.ID); err != nil {
		return nil, NewAPIError("create_school", http.StatusCreated, fmt.Errorf("response id %q is not a uuid", school.ID))
	}
	return &school, nil
}

// MySchools lists the schools the signed-in user belongs to.
func (c *Client) MySchools(ctx context.Context) ([]SchoolMembership, error) {
	var schools []SchoolMembership
	if err := c.do(ctx, "my_schools", http.MethodGet, MySchoolsPath, nil, nil, false, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}
