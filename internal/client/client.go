// Package client talks to the access API over REST.
package client

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/organization"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"access-service/internal/rbac"
	"access-service/internal/resolver"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	requestIDHeaderName = "X-Request-ID"
	defaultTimeout      = 30 * time.Second
	apiPrefix           = "/api/v1"

	errRequestFailedFmt = "request failed with status %d"
)

// APIError is a non-2xx answer from the API. Message is the server's error
// field when it sent one.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return e.Message
}

// Matrix is the permission matrix plus what the caller may do.
type Matrix struct {
	Rows      []rbac.MatrixRow                `json:"rows"`
	HeldRoles []role.Type                     `json:"held_roles"`
	Effective map[rbac.Resource][]rbac.Action `json:"effective"`
}

type Client struct {
	host       string
	token      string
	httpClient *http.Client
}

func NewClient(host, token string) *Client {
	return &Client{
		host:       strings.TrimRight(host, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// SetToken replaces the bearer token used on later calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		logRequestID(ctx, err, "failed to log in")
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) ListOrganizations(ctx context.Context) ([]organization.Organization, error) {
	var orgs []organization.Organization
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/organizations/", nil, &orgs); err != nil {
		logRequestID(ctx, err, "failed to list organizations")
		return nil, err
	}
	return orgs, nil
}

func (c *Client) ListProjects(ctx context.Context, orgID uuid.UUID) ([]project.Project, error) {
	var projects []project.Project
	if err := c.do(ctx, http.MethodGet, orgPath(orgID, "/projects/"), nil, &projects); err != nil {
		logRequestID(ctx, err, "failed to list projects")
		return nil, err
	}
	return projects, nil
}

func (c *Client) ListRoles(ctx context.Context, orgID uuid.UUID) ([]role.Role, error) {
	var roles []role.Role
	if err := c.do(ctx, http.MethodGet, orgPath(orgID, "/roles/"), nil, &roles); err != nil {
		logRequestID(ctx, err, "failed to list roles")
		return nil, err
	}
	return roles, nil
}

// ListAssignments lists what one user or group holds. A nil projectID lists
// every project.
func (c *Client) ListAssignments(ctx context.Context, orgID uuid.UUID, kind assignment.EntityKind, entityID uuid.UUID, projectID *uuid.UUID) ([]assignment.RoleAssignment, error) {
	path := orgPath(orgID, "/roles/assignments/"+kind.Plural()+"/"+entityID.String())
	if projectID != nil {
		path += "?" + url.Values{"project_id": {projectID.String()}}.Encode()
	}

	var assignments []assignment.RoleAssignment
	if err := c.do(ctx, http.MethodGet, path, nil, &assignments); err != nil {
		logRequestID(ctx, err, "failed to list role assignments")
		return nil, err
	}
	return assignments, nil
}

func (c *Client) CreateAssignment(ctx context.Context, orgID uuid.UUID, kind assignment.EntityKind, entityID, roleID, projectID uuid.UUID) (*assignment.RoleAssignment, error) {
	body := map[string]uuid.UUID{
		"entity_id":  entityID,
		"role_id":    roleID,
		"project_id": projectID,
	}

	var created assignment.RoleAssignment
	if err := c.do(ctx, http.MethodPost, orgPath(orgID, "/roles/assignments/"+kind.Plural()), body, &created); err != nil {
		logRequestID(ctx, err, "failed to create role assignment")
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, orgID, assignmentID uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, orgPath(orgID, "/roles/assignments/"+assignmentID.String()), nil, nil); err != nil {
		logRequestID(ctx, err, "failed to delete role assignment")
		return err
	}
	return nil
}

func (c *Client) PermissionMatrix(ctx context.Context, orgID uuid.UUID) (*Matrix, error) {
	var m Matrix
	if err := c.do(ctx, http.MethodGet, orgPath(orgID, "/permissions/matrix"), nil, &m); err != nil {
		logRequestID(ctx, err, "failed to load permission matrix")
		return nil, err
	}
	return &m, nil
}

// Preview asks the server to evaluate form without writing anything.
func (c *Client) Preview(ctx context.Context, orgID uuid.UUID, form resolver.Form) (*resolver.FormView, error) {
	var view resolver.FormView
	if err := c.do(ctx, http.MethodPost, orgPath(orgID, "/roles/assignments/preview"), form, &view); err != nil {
		logRequestID(ctx, err, "failed to preview role assignment")
		return nil, err
	}
	return &view, nil
}

func orgPath(orgID uuid.UUID, suffix string) string {
	return apiPrefix + "/organizations/" + orgID.String() + suffix
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		Status:    resp.StatusCode,
		RequestID: resp.Header.Get(requestIDHeaderName),
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf(errRequestFailedFmt, resp.StatusCode)
	}
	return apiErr
}

// logRequestID logs err with the server's request id when there is one.
func logRequestID(ctx context.Context, err error, msg string) {
	var requestID string
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		requestID = apiErr.RequestID
	}
	slog.ErrorContext(ctx, msg, requestIDHeaderName, requestID, "error", err)
}
