package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mr-RSA369/leave-management-api/internal/leave"
	leaveerrors "github.com/mr-RSA369/leave-management-api/internal/leave/errors"
	"github.com/mr-RSA369/leave-management-api/internal/middleware"
	"github.com/mr-RSA369/leave-management-api/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type apiEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn  func(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	listFn    func(ctx context.Context, actorID string, q leave.ListQuery) ([]leave.LeaveResponse, int64, error)
	getByIDFn func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, actorID, id, rejectionReason string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, actorID, req)
}
func (f *fakeLeaveService) List(ctx context.Context, actorID string, q leave.ListQuery) ([]leave.LeaveResponse, int64, error) {
	return f.listFn(ctx, actorID, q)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actorID, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actorID, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actorID, id, rejectionReason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actorID, id, rejectionReason)
}

func TestLeaveHandler_Submit(t *testing.T) {
	t.Run("success pending submission", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, leave.TypeFullDay, req.LeaveType)
				return leave.LeaveResponse{
					ID:        uuid.New().String(),
					UserID:    aid,
					LeaveType: req.LeaveType,
					StartDate: req.StartDate,
					EndDate:   req.StartDate,
					DaysCount: 1,
					Reason:    req.Reason,
					Status:    leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"full_day","start_date":"2027-03-10","reason":"Family matters to handle"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
		assert.Equal(t, "Leave request submitted successfully", env.Message)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusPending, got.Status)
		assert.Equal(t, 1.0, got.DaysCount)
	})

	t.Run("success auto-approved message for approved response", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{
					ID:     uuid.New().String(),
					UserID: aid,
					Status: leave.StatusApproved,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"full_day","start_date":"2027-03-10","reason":"Family matters to handle"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "Leave request auto-approved", env.Message)
	})

	t.Run("success caches full envelope for idempotent replay", func(t *testing.T) {
		actorID := uuid.New().String()
		resp := leave.LeaveResponse{
			ID:        uuid.New().String(),
			UserID:    actorID,
			LeaveType: leave.TypeFullDay,
			StartDate: "2027-03-10",
			EndDate:   "2027-03-10",
			DaysCount: 1,
			Reason:    "Family matters to handle",
			Status:    leave.StatusPending,
		}
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return resp, nil
			},
		}

		client, mock := redismock.NewClientMock()
		payload, err := json.Marshal(resp)
		assert.NoError(t, err)
		cached, err := json.Marshal(middleware.CachedResponse{
			Status:  http.StatusCreated,
			Message: "Leave request submitted successfully",
			Data:    payload,
		})
		assert.NoError(t, err)

		mock.ExpectSet("idemp:/api/v1/leave-requests:u1:abc-123", cached, 24*time.Hour).SetVal("OK")
		mock.ExpectDel("idemp:/api/v1/leave-requests:u1:abc-123:lock").SetVal(1)

		h := leave.NewHandlerWithRedis(svc, client)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"full_day","start_date":"2027-03-10","reason":"Family matters to handle"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)
		c.Set("idempotency_cache_key", "idemp:/api/v1/leave-requests:u1:abc-123")
		c.Set("idempotency_lock_key", "idemp:/api/v1/leave-requests:u1:abc-123:lock")

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative missing required fields", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
		assert.Equal(t, "Validation error", env.Message)
		assert.NotEmpty(t, env.Errors["leave_type"])
		assert.NotEmpty(t, env.Errors["start_date"])
		assert.NotEmpty(t, env.Errors["reason"])
	})

	t.Run("negative invalid leave type enum", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"vacation","start_date":"2027-03-10","reason":"Family matters to handle"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.NotEmpty(t, env.Errors["leave_type"])
	})

	t.Run("negative service validation error passes fields through", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, apperror.NewValidation(map[string][]string{
					"start_date": {"A leave request already exists for the selected date(s). Please choose different dates."},
				})
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"full_day","start_date":"2027-03-10","reason":"Family matters to handle"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, []string{
			"A leave request already exists for the selected date(s). Please choose different dates.",
		}, env.Errors["start_date"])
	})
}

func TestLeaveHandler_List(t *testing.T) {
	t.Run("success with pagination defaults", func(t *testing.T) {
		svc := &fakeLeaveService{
			listFn: func(ctx context.Context, actorID string, q leave.ListQuery) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, 1, q.Page)
				assert.Equal(t, 15, q.PerPage)
				return []leave.LeaveResponse{{ID: uuid.New().String(), Status: leave.StatusPending}}, 1, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/leave-requests", nil)
		c.Set("user_id", uuid.New().String())

		h.List(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)

		var page struct {
			CurrentPage int   `json:"current_page"`
			PerPage     int   `json:"per_page"`
			Total       int64 `json:"total"`
			LastPage    int   `json:"last_page"`
		}
		assert.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 15, page.PerPage)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.LastPage)
	})

	t.Run("success forwards status and user filters", func(t *testing.T) {
		target := uuid.New().String()
		svc := &fakeLeaveService{
			listFn: func(ctx context.Context, actorID string, q leave.ListQuery) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, leave.StatusPending, q.Status)
				assert.Equal(t, target, q.UserID)
				assert.Equal(t, 2, q.Page)
				assert.Equal(t, 5, q.PerPage)
				return nil, 0, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet,
			"/api/v1/leave-requests?status=pending&user_id="+target+"&page=2&per_page=5", nil)
		c.Set("user_id", uuid.New().String())

		h.List(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, actorID, gotID string) (leave.LeaveResponse, error) {
				assert.Equal(t, id, gotID)
				return leave.LeaveResponse{ID: gotID, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests/"+id+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Set("user_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "Leave request approved successfully", env.Message)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests/missing/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: "missing"}}
		c.Set("user_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
		assert.Equal(t, "Leave request not found", env.Message)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		reason := "Coverage gap during release week"
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, actorID, gotID, gotReason string) (leave.LeaveResponse, error) {
				assert.Equal(t, id, gotID)
				assert.Equal(t, reason, gotReason)
				return leave.LeaveResponse{ID: gotID, Status: leave.StatusRejected, RejectionReason: &gotReason}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"rejection_reason":"` + reason + `"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests/"+id+"/reject", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Set("user_id", uuid.New().String())

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "Leave request rejected", env.Message)
	})

	t.Run("negative missing rejection reason", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests/x/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "x"}}
		c.Set("user_id", uuid.New().String())

		h.Reject(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.NotEmpty(t, env.Errors["rejection_reason"])
	})
}
