package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Endpoint names as configured under api.endpoints. They double as the
// cache data-type tags handed to the policy resolver.
const (
	EndpointFaculties          = "faculties"
	EndpointGroups             = "groups"
	EndpointDepartments        = "departments"
	EndpointInstructors        = "instructors"
	EndpointScheduleGroup      = "schedule_group"
	EndpointScheduleInstructor = "schedule_instructor"
)

type Faculty struct {
	ID   int    `json:"idFaculty"`
	Name string `json:"name"`
}

type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Department is what the remote API calls a cafedra.
type Department struct {
	ID   int    `json:"idCafedra"`
	Name string `json:"name"`
}

type Instructor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c *Client) Faculties(ctx context.Context, opts Options) ([]Faculty, error) {
	var out []Faculty
	if err := c.fetchInto(ctx, EndpointFaculties, nil, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Groups(ctx context.Context, facultyID int, opts Options) ([]Group, error) {
	params := url.Values{"idFaculty": {strconv.Itoa(facultyID)}}
	var out []Group
	if err := c.fetchInto(ctx, EndpointGroups, params, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Departments(ctx context.Context, facultyID int, opts Options) ([]Department, error) {
	params := url.Values{"idFaculty": {strconv.Itoa(facultyID)}}
	var out []Department
	if err := c.fetchInto(ctx, EndpointDepartments, params, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Instructors(ctx context.Context, departmentID int, opts Options) ([]Instructor, error) {
	params := url.Values{"idCafedra": {strconv.Itoa(departmentID)}}
	var out []Instructor
	if err := c.fetchInto(ctx, EndpointInstructors, params, opts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupScheduleDay fetches one day of a group's schedule. The date is sent in
// the API's DD-MM-YYYY form. The raw payload is returned for the aggregator
// to normalize.
func (c *Client) GroupScheduleDay(ctx context.Context, groupID int, date string, opts Options) (Result, error) {
	params := url.Values{
		"groupId": {strconv.Itoa(groupID)},
		"date":    {date},
	}
	return c.Fetch(ctx, EndpointScheduleGroup, params, opts)
}

// InstructorScheduleDay is the instructor-side counterpart of
// GroupScheduleDay.
func (c *Client) InstructorScheduleDay(ctx context.Context, instructorID int, date string, opts Options) (Result, error) {
	params := url.Values{
		"instructorId": {strconv.Itoa(instructorID)},
		"date":         {date},
	}
	return c.Fetch(ctx, EndpointScheduleInstructor, params, opts)
}

func (c *Client) fetchInto(ctx context.Context, endpoint string, params url.Values, opts Options, dest any) error {
	res, err := c.Fetch(ctx, endpoint, params, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.Data, dest); err != nil {
		return &EndpointError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
