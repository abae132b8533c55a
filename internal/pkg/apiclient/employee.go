package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-console/internal/domain/session"
)

const maxDocumentSize = 64 << 20

// ListEmployees implements employee.Directory.
func (c *Client) ListEmployees(ctx context.Context, sess *session.Session, page, limit int) (employee.ListEmployeesResponse, error) {
	hc, err := c.authorized(sess)
	if err != nil {
		return employee.ListEmployeesResponse{}, err
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/employees", query, nil)
	if err != nil {
		return employee.ListEmployeesResponse{}, err
	}

	var resp employee.ListEmployeesResponse
	if err := c.do(hc, req, &resp); err != nil {
		return employee.ListEmployeesResponse{}, err
	}
	if resp.Data == nil {
		resp.Data = []employee.Employee{}
	}
	return resp, nil
}

// UpdateEmployee implements employee.Directory.
func (c *Client) UpdateEmployee(ctx context.Context, sess *session.Session, e employee.Employee) (employee.Employee, error) {
	hc, err := c.authorized(sess)
	if err != nil {
		return employee.Employee{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/v1/employees/"+url.PathEscape(e.ID.String()), nil, e)
	if err != nil {
		return employee.Employee{}, err
	}

	var updated employee.Employee
	if err := c.do(hc, req, &updated); err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

// BulkUpdateEmployees implements employee.Directory.
func (c *Client) BulkUpdateEmployees(ctx context.Context, sess *session.Session, body employee.BulkUpdateRequest) error {
	hc, err := c.authorized(sess)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/v1/employees/bulk", nil, body)
	if err != nil {
		return err
	}
	return c.do(hc, req, nil)
}

// CreateEmployee implements employee.Directory.
func (c *Client) CreateEmployee(ctx context.Context, sess *session.Session, body employee.CreateEmployeeRequest) (employee.Employee, error) {
	hc, err := c.authorized(sess)
	if err != nil {
		return employee.Employee{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/employees", nil, body)
	if err != nil {
		return employee.Employee{}, err
	}

	var created employee.Employee
	if err := c.do(hc, req, &created); err != nil {
		return employee.Employee{}, err
	}
	return created, nil
}

// DeleteEmployee implements employee.Directory.
func (c *Client) DeleteEmployee(ctx context.Context, sess *session.Session, id employee.ID) error {
	hc, err := c.authorized(sess)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/api/v1/employees/"+url.PathEscape(id.String()), nil, nil)
	if err != nil {
		return err
	}
	return c.do(hc, req, nil)
}

// BulkDeleteEmployees implements employee.Directory.
func (c *Client) BulkDeleteEmployees(ctx context.Context, sess *session.Session, ids []employee.ID) error {
	hc, err := c.authorized(sess)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/api/v1/employees/bulk", nil, employee.BulkDeleteRequest{IDs: ids})
	if err != nil {
		return err
	}
	return c.do(hc, req, nil)
}

// ExportPDF implements employee.Directory.
func (c *Client) ExportPDF(ctx context.Context, sess *session.Session) ([]byte, error) {
	hc, err := c.authorized(sess)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/document/v1/pdf", nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read PDF document: %w", err)
	}
	if len(doc) > maxDocumentSize {
		return nil, fmt.Errorf("PDF document exceeds %d bytes", maxDocumentSize)
	}
	return doc, nil
}
