package customer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glidebook/glidebook/pkg/logging"
)

type fakeMirror struct {
	puts    []Customer
	deletes []string
	err     error
}

func (f *fakeMirror) PutCustomer(ctx context.Context, c Customer) error {
	if f.err != nil {
		return f.err
	}
	f.puts = append(f.puts, c)
	return nil
}

func (f *fakeMirror) DeleteCustomer(ctx context.Context, businessID, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deletes = append(f.deletes, id)
	return nil
}

func newCustomerRouter(t *testing.T, mirror Mirror) (*chi.Mux, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewHandler(NewRepository(db), mirror, logging.New("error"))
	r := chi.NewRouter()
	r.Get("/api/admin/customers", h.List)
	r.Post("/api/admin/customers", h.Create)
	r.Get("/api/admin/customers/{customerID}", h.Get)
	r.Put("/api/admin/customers/{customerID}", h.Update)
	r.Delete("/api/admin/customers/{customerID}", h.Delete)
	return r, mock
}

func TestCreateWritesDatabaseThenMirror(t *testing.T) {
	mirror := &fakeMirror{}
	r, mock := newCustomerRouter(t, mirror)

	mock.ExpectExec(`INSERT INTO customers`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/customers?businessId=biz-1",
		strings.NewReader(`{"name":"John Doe","email":"john@example.com"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, mirror.puts, 1)
	assert.Equal(t, "John Doe", mirror.puts[0].Name)
	assert.Equal(t, "biz-1", mirror.puts[0].BusinessID)
	assert.NotEmpty(t, mirror.puts[0].ID)
	assert.Equal(t, "active", mirror.puts[0].Status)
}

func TestCreateDatabaseFailureSkipsMirror(t *testing.T) {
	mirror := &fakeMirror{}
	r, mock := newCustomerRouter(t, mirror)

	mock.ExpectExec(`INSERT INTO customers`).
		WillReturnError(errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/customers?businessId=biz-1",
		strings.NewReader(`{"name":"John Doe"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Empty(t, mirror.puts, "mirror must not see a write the database rejected")
}

func TestCreateMirrorFailureIsNonFatal(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("redis down")}
	r, mock := newCustomerRouter(t, mirror)

	mock.ExpectExec(`INSERT INTO customers`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/customers?businessId=biz-1",
		strings.NewReader(`{"name":"John Doe"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCreateRequiresName(t *testing.T) {
	r, _ := newCustomerRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/customers?businessId=biz-1",
		strings.NewReader(`{"email":"x@example.com"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFlags(t *testing.T) {
	mirror := &fakeMirror{}
	r, mock := newCustomerRouter(t, mirror)

	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM customers WHERE business_id = \$1 AND id = \$2`).
		WithArgs("biz-1", "c1").
		WillReturnRows(sqlmock.NewRows(customerCols).
			AddRow("c1", "biz-1", "John Doe", "", "", "", "active", false, pq.Array([]string{}), "", now, now))
	mock.ExpectExec(`UPDATE customers SET status = \$1, blocked = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPut, "/api/admin/customers/c1?businessId=biz-1",
		strings.NewReader(`{"blocked":true}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, mirror.puts, 1)
	assert.True(t, mirror.puts[0].Blocked)
	assert.Equal(t, "active", mirror.puts[0].Status, "untouched field keeps its stored value")
}

func TestUpdateRejectsEmptyBody(t *testing.T) {
	r, _ := newCustomerRouter(t, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/customers/c1?businessId=biz-1",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	r, mock := newCustomerRouter(t, nil)

	mock.ExpectQuery(`SELECT .+ FROM customers WHERE business_id = \$1 AND id = \$2`).
		WithArgs("biz-1", "ghost").
		WillReturnRows(sqlmock.NewRows(customerCols))

	req := httptest.NewRequest(http.MethodPut, "/api/admin/customers/ghost?businessId=biz-1",
		strings.NewReader(`{"blocked":true}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRemovesMirrorEntry(t *testing.T) {
	mirror := &fakeMirror{}
	r, mock := newCustomerRouter(t, mirror)

	mock.ExpectExec(`DELETE FROM customers`).
		WithArgs("biz-1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/customers/c1?businessId=biz-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"c1"}, mirror.deletes)
}
