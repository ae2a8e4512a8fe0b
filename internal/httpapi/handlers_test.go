package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"matrimony-platform/internal/calls"
	"matrimony-platform/internal/ledger"
	"matrimony-platform/internal/payments"
	"matrimony-platform/internal/telephony"

	"github.com/gin-gonic/gin"
)

func TestLogin_RejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", Handlers{}.Login)

	for _, body := range []string{"not json", `{"user_id":"u1"}`, `{"role":"member"}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestWriteError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{calls.ErrInvalidArgument, http.StatusBadRequest},
		{ledger.ErrInvalidArgument, http.StatusBadRequest},
		{calls.ErrNotFound, http.StatusNotFound},
		{payments.ErrNotFound, http.StatusNotFound},
		{payments.ErrConflict, http.StatusConflict},
		{ledger.ErrInsufficientCredits, http.StatusConflict},
		{telephony.ErrProviderUnavailable, http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", telephony.ErrProviderUnavailable), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) { writeError(c, tc.err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != tc.want {
			t.Errorf("error %v: expected %d, got %d", tc.err, tc.want, w.Code)
		}
	}
}
