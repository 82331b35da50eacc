package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduassist_backend/internal/quiz"
	"eduassist_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func statusFor(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handleError(ctx, err)
	return w.Code
}

func TestHandleErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"session gone", util.ErrSessionNotFound, http.StatusUnauthorized},
		{"unknown quiz", util.ErrQuizNotFound, http.StatusNotFound},
		{"answered twice", quiz.ErrAlreadyAnswered, http.StatusConflict},
		{"empty prompt", util.ErrEmptyPrompt, http.StatusBadRequest},
		{"store outage", fmt.Errorf("%w: %w", util.ErrStoreUnavailable, errors.New("dial tcp: refused")), http.StatusServiceUnavailable},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
