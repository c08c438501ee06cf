package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository/memstore"
	"github.com/Freeeeeet/slot_scheduler/internal/service"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	clock := timeutil.FixedClock{At: now}
	store := memstore.New(clock)

	booker := service.NewSlotBooker(clock, logger)
	events := service.NewEventService(store, service.NewEventValidator(booker), service.NewSlotGenerator(logger),
		booker, nil, time.UTC, logger)
	availability := service.NewAvailabilityService(store, nil, clock, time.UTC, logger)

	return NewRouter(NewHandlers(events, availability, time.UTC, logger), logger)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateEventAndAvailability(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/events",
		`{"kind":"opening","starts_at":"2020-08-04T09:30:00Z","ends_at":"2020-08-04T12:30:00Z","weekly_recurring":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var opening model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opening))
	assert.Equal(t, int64(1), opening.ID)
	assert.True(t, opening.WeeklyRecurring)

	rec = do(t, h, http.MethodPost, "/api/v1/events",
		`{"kind":"appointment","starts_at":"2020-08-11T10:30:00Z","ends_at":"2020-08-11T11:30:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/availabilities?starts_at=2020-08-10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var days []model.DayAvailability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &days))
	require.Len(t, days, 7)
	assert.Equal(t, "2020-08-11", days[1].Date)
	assert.Equal(t, []string{"09:30", "10:00", "11:30", "12:00"}, days[1].Slots)

	rec = do(t, h, http.MethodGet, "/api/v1/events/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var details model.EventDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Len(t, details.Slots, 6)
}

func TestCreateEvent_ValidationErrors(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/events",
		`{"kind":"opening","starts_at":"2020-08-04T09:30:00Z","ends_at":"2020-08-04T09:40:10Z"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{service.MessageDateRange}, body.Errors[service.FieldDateRange])

	rec = do(t, h, http.MethodPost, "/api/v1/events", `{"kind":"party"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"party is not valid. Should be one: opening OR appointment"}, body.Errors["kind"])
	assert.Equal(t, []string{"can't be blank"}, body.Errors["starts_at"])
}

func TestCreateEvent_BadJSON(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, "/api/v1/events", `{"kind":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEvent(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/events/42", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/events/abc", "").Code)
}

func TestGetAvailabilities(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/availabilities?starts_at=2019-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/availabilities", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/availabilities?starts_at=tomorrow", "").Code)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
}

type failingEvents struct {
	err error
}

func (f failingEvents) Create(context.Context, service.CreateEventRequest) (*model.Event, error) {
	return nil, f.err
}

func (f failingEvents) GetByID(context.Context, int64) (*model.EventDetails, error) {
	return nil, f.err
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "booking race", err: model.ErrSlotAlreadyBooked, status: http.StatusConflict},
		{name: "storage failure", err: errors.New("connection reset"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zap.NewNop()
			h := NewRouter(NewHandlers(failingEvents{err: tt.err}, nil, time.UTC, logger), logger)
			rec := do(t, h, http.MethodPost, "/api/v1/events", `{}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestParseStartsAt(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)

	got, err := ParseStartsAt("2020-08-10", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2020, 8, 10, 0, 0, 0, 0, loc)))

	got, err = ParseStartsAt("2020-08-10T09:30:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2020, 8, 10, 9, 30, 0, 0, time.UTC)))
}
