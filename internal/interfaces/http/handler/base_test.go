package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/interfaces/http/dto"
	"github.com/oms/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success wraps data in the envelope", func(t *testing.T) {
		c, w := testContext(t)
		h.Success(c, map[string]string{"sku": "MUG-BLUE"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Error)
	})

	t.Run("created answers 201", func(t *testing.T) {
		c, w := testContext(t)
		h.Created(c, map[string]string{"order_no": "ORD-1"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("no content answers 204 with an empty body", func(t *testing.T) {
		c, w := testContext(t)
		h.NoContent(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("paginated success carries the meta block", func(t *testing.T) {
		c, w := testContext(t)
		h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(42), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("bad request carries the request id from the middleware", func(t *testing.T) {
		c, w := testContext(t)
		c.Set(middleware.RequestIDKey, "req-9")
		h.BadRequest(c, "Invalid variant ID format")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Equal(t, "req-9", resp.Error.RequestID)
	})
}

func TestHandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing aggregate answers 404",
			err:        shared.NewDomainError("NOT_FOUND", "order not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "stock shortfall answers 422",
			err:        shared.NewDomainError("INSUFFICIENT_STOCK", "only 2 units available"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInsufficientStock,
		},
		{
			name:       "stale version answers 409",
			err:        shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "variant was modified concurrently"),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeConcurrencyConflict,
		},
		{
			name:       "field validation answers 400",
			err:        shared.NewDomainError("INVALID_SKU", "SKU is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext(t)
			h.HandleDomainError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}

	t.Run("a non-domain error answers 500 without leaking its message", func(t *testing.T) {
		c, w := testContext(t)
		h.HandleDomainError(c, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq:")
	})

	t.Run("handle error ignores nil", func(t *testing.T) {
		c, w := testContext(t)
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestTenantResolution(t *testing.T) {
	t.Run("verified claims win over the header", func(t *testing.T) {
		c, _ := testContext(t)
		claimed := uuid.New()
		c.Set(middleware.AuthTenantIDKey, claimed.String())
		c.Request.Header.Set("X-Tenant-ID", uuid.New().String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, claimed, got)
	})

	t.Run("header serves anonymous requests", func(t *testing.T) {
		c, _ := testContext(t)
		headerTenant := uuid.New()
		c.Request.Header.Set("X-Tenant-ID", headerTenant.String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, headerTenant, got)
	})

	t.Run("a bare request lands on the development tenant", func(t *testing.T) {
		c, _ := testContext(t)
		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, defaultTenantID, got)
	})

	t.Run("a malformed header is an error", func(t *testing.T) {
		c, _ := testContext(t)
		c.Request.Header.Set("X-Tenant-ID", "not-a-uuid")
		_, err := getTenantID(c)
		assert.Error(t, err)
	})
}

func TestActorResolution(t *testing.T) {
	t.Run("token operator wins over the header", func(t *testing.T) {
		c, _ := testContext(t)
		c.Set(middleware.AuthOperatorKey, "ops@acme")
		c.Request.Header.Set("X-Actor", "someone-else")
		assert.Equal(t, "ops@acme", getActor(c))
	})

	t.Run("header serves anonymous mutations", func(t *testing.T) {
		c, _ := testContext(t)
		c.Request.Header.Set("X-Actor", "warehouse-2")
		assert.Equal(t, "warehouse-2", getActor(c))
	})

	t.Run("empty when nothing identifies the caller", func(t *testing.T) {
		c, _ := testContext(t)
		assert.Empty(t, getActor(c))
	})
}
