// Package courseapi is the HTTP client for the course backend: a black-box
// CRUD service that assigns authoritative identifiers at creation time.
package courseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the course REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a course API client for the given base URL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("course API base URL is required (CRAFT_API_BASE_URL)")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		client:  httpClient,
	}, nil
}

// CreateCourse creates a course and returns its server-assigned ID.
func (c *Client) CreateCourse(ctx context.Context, req CreateCourseRequest) (string, error) {
	var created createdResponse
	if err := c.postJSON(ctx, "/courses", req, &created); err != nil {
		return "", fmt.Errorf("create course: %w", err)
	}
	return created.ID.String(), nil
}

// CreateSection creates a section under a course and returns its ID.
func (c *Client) CreateSection(ctx context.Context, courseID, title string) (string, error) {
	var created createdResponse
	path := fmt.Sprintf("/courses/%s/sections", courseID)
	if err := c.postJSON(ctx, path, CreateSectionRequest{Title: title}, &created); err != nil {
		return "", fmt.Errorf("create section: %w", err)
	}
	return created.ID.String(), nil
}

// CreateVideo creates a video record under a section.
func (c *Client) CreateVideo(ctx context.Context, sectionID string, req VideoRequest) error {
	path := fmt.Sprintf("/sections/%s/videos", sectionID)
	if err := c.postJSON(ctx, path, req, nil); err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

// CreateQuiz creates a quiz record, questions included, under a section.
func (c *Client) CreateQuiz(ctx context.Context, sectionID string, req QuizRequest) error {
	path := fmt.Sprintf("/sections/%s/quizzes", sectionID)
	if err := c.postJSON(ctx, path, req, nil); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// ListCourses fetches all published courses.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.getJSON(ctx, "/courses/", &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetCourse fetches one course by ID.
func (c *Client) GetCourse(ctx context.Context, id string) (*Course, error) {
	var course Course
	if err := c.getJSON(ctx, "/courses/"+id, &course); err != nil {
		return nil, fmt.Errorf("get course %s: %w", id, err)
	}
	return &course, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("course API error %d on %s %s", resp.StatusCode, req.Method, req.URL.Path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
