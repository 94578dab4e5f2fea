package handler

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworks/production-runner/internal/delivery"
	"github.com/reelworks/production-runner/internal/repository"
)

// emptyConnector is a database/sql driver whose every query returns zero
// rows, standing in for a database that does not hold the requested row.
type emptyConnector struct{}

func (emptyConnector) Connect(context.Context) (driver.Conn, error) { return emptyConn{}, nil }
func (emptyConnector) Driver() driver.Driver                        { return nil }

type emptyConn struct{}

func (emptyConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (emptyConn) Close() error                        { return nil }
func (emptyConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (emptyConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return emptyRows{}, nil
}

type emptyRows struct{}

func (emptyRows) Columns() []string         { return nil }
func (emptyRows) Close() error              { return nil }
func (emptyRows) Next([]driver.Value) error { return io.EOF }

func emptyDBHandler(t *testing.T) *OwnerHandler {
	t.Helper()
	db := sql.OpenDB(emptyConnector{})
	t.Cleanup(func() { _ = db.Close() })
	return NewOwnerHandler(
		repository.NewProductionRepo(db),
		repository.NewSceneRepo(db),
		repository.NewCastRepo(db),
		repository.NewContactRepo(db),
		repository.NewBudgetRepo(db),
		repository.NewCallSheetRepo(db),
		repository.NewDeliveryRepo(db),
		nil, nil,
		delivery.New(nil, nil))
}

func deliveryRequest(method, deliveryID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.SetParamNames("deliveryId")
	c.SetParamValues(deliveryID)
	return c, rec
}

func TestResendFailedUnknownDelivery(t *testing.T) {
	h := emptyDBHandler(t)
	c, rec := deliveryRequest(http.MethodPost, "d-missing")

	require.NoError(t, h.ResendFailed(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery not found")
}

func TestRefreshDeliveryUnknownDelivery(t *testing.T) {
	h := emptyDBHandler(t)
	c, rec := deliveryRequest(http.MethodPost, "d-missing")

	require.NoError(t, h.RefreshDelivery(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery not found")
}

func TestGetDeliveryUnknownDelivery(t *testing.T) {
	h := emptyDBHandler(t)
	c, rec := deliveryRequest(http.MethodGet, "d-missing")

	require.NoError(t, h.GetDelivery(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery not found")
}

func TestGetDeliveryBlankID(t *testing.T) {
	h := emptyDBHandler(t)
	c, rec := deliveryRequest(http.MethodGet, "  ")

	require.NoError(t, h.GetDelivery(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid delivery id")
}

func TestGetDeliveryUnauthenticated(t *testing.T) {
	h := emptyDBHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("deliveryId")
	c.SetParamValues("d-1")

	require.NoError(t, h.GetDelivery(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
