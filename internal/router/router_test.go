package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hustlehub34/Sporto-sub000/internal/booking"
	"github.com/Hustlehub34/Sporto-sub000/internal/calendar"
	"github.com/Hustlehub34/Sporto-sub000/internal/config"
	"github.com/Hustlehub34/Sporto-sub000/internal/handler"
	"github.com/Hustlehub34/Sporto-sub000/internal/middleware"
	"github.com/Hustlehub34/Sporto-sub000/internal/payment"
	"github.com/Hustlehub34/Sporto-sub000/internal/repository"
	"github.com/Hustlehub34/Sporto-sub000/internal/utils"
)

const secret = "router-secret"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	venues, err := repository.NewMemoryVenues(repository.SampleVenues()...)
	require.NoError(t, err)
	reg := calendar.NewRegistry(venues, 30)
	reg.Now = func() time.Time { return time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC) }
	cache := middleware.NewRedisCache(config.CacheConfig{}, nil)
	limiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)

	e := echo.New()
	RegisterRoutes(e)
	RegisterPublic(e, handler.NewPublicHandler(venues, reg), limiter, cache.Middleware())
	RegisterOwner(e, handler.NewOwnerHandler(reg, venues, cache), secret)
	RegisterCustomer(e, handler.NewCustomerHandler(reg, booking.NewSessionStore(), payment.NewSimulated(), nil, cache, 20), secret, limiter)
	return e
}

func bearer(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, sub, role, sub, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func do(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_PublicNeedsNoToken(t *testing.T) {
	e := newServer(t)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/venues", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/venues/turf-2/slots?date=2025-03-14", "", "").Code)
}

func TestRoutes_RoleGates(t *testing.T) {
	e := newServer(t)
	owner := bearer(t, "owner-1", middleware.RoleOwner)
	customer := bearer(t, "c-1", middleware.RoleCustomer)

	path := "/v1/owner/venues/turf-1/slots?date=2025-03-14"
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, path, "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, path, customer, "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, path, owner, "").Code)

	body := `{"venue_id":"turf-1","date":"2025-03-14"}`
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPost, "/v1/selections", owner, body).Code)
	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/v1/selections", customer, body).Code)
}

func TestRoutes_BookingFlow(t *testing.T) {
	e := newServer(t)
	owner := bearer(t, "owner-1", middleware.RoleOwner)
	customer := bearer(t, "c-1", middleware.RoleCustomer)

	rec := do(e, http.MethodPost, "/v1/selections", customer, `{"venue_id":"turf-1","date":"2025-03-14"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sel handler.SelectionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	base := "/v1/selections/" + sel.SessionID

	rec = do(e, http.MethodPost, base+"/toggle", customer, `{"slot_id":"turf-1-2025-03-14-0700"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodPut, base+"/plan", customer, `{"plan":"ADVANCE30"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodGet, base, customer, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	assert.Equal(t, int64(380), sel.Totals.PayableNow)
	assert.Equal(t, int64(840), sel.Totals.RemainingAtVenue)

	rec = do(e, http.MethodPost, base+"/checkout", customer, `{"customer_name":"Asha"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// the owner sees the booking and cannot close over it
	closePath := "/v1/owner/venues/turf-1/slots/turf-1-2025-03-14-0700/close?date=2025-03-14"
	rec = do(e, http.MethodPost, closePath, owner, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(e, http.MethodGet, "/v1/owner/venues/turf-1/slots?date=2025-03-14", owner, "")
	assert.Contains(t, rec.Body.String(), "Asha")

	rec = do(e, http.MethodDelete, base, customer, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRoutes_OwnerScopedToOwnVenues(t *testing.T) {
	e := newServer(t)
	customer := bearer(t, "c-1", middleware.RoleCustomer)
	intruder := bearer(t, "some-other-owner", middleware.RoleOwner)

	rec := do(e, http.MethodPost, "/v1/selections", customer, `{"venue_id":"turf-1","date":"2025-03-14"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sel handler.SelectionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	base := "/v1/selections/" + sel.SessionID
	require.Equal(t, http.StatusOK, do(e, http.MethodPost, base+"/toggle", customer, `{"slot_id":"turf-1-2025-03-14-0700"}`).Code)
	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, base+"/checkout", customer, `{"customer_name":"Asha"}`).Code)

	release := "/v1/owner/venues/turf-1/slots/turf-1-2025-03-14-0700/release?date=2025-03-14"
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodPost, release, intruder, "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodPost, "/v1/owner/venues/turf-1/slots/turf-1-2025-03-14-0700/close?force=true&date=2025-03-14", intruder, "").Code)

	rec = do(e, http.MethodGet, "/v1/venues/turf-1/slots?date=2025-03-14", "", "")
	assert.Contains(t, rec.Body.String(), `"id":"turf-1-2025-03-14-0700","start":"07:00","end":"08:00","price":1200,"state":"RESERVED"`)
}

func TestRoutes_DatesOutsideWindow(t *testing.T) {
	e := newServer(t)
	customer := bearer(t, "c-1", middleware.RoleCustomer)
	for _, d := range []string{"0001-01-01", "1999-12-31", "9999-12-31"} {
		assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/v1/venues/turf-1/slots?date="+d, "", "").Code, d)
	}
	rec := do(e, http.MethodPost, "/v1/selections", customer, `{"venue_id":"turf-1","date":"1999-12-31"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
