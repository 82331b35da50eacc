package controller

import (
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/quiz"
	"eduassist_backend/internal/repository"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 面向用户的提示文案
var userMessages = map[error]string{
	util.ErrSubmissionLink:     "Please provide a submission link.",
	util.ErrResourceIncomplete: "Please fill all fields and select a file.",
	util.ErrNotApplied:         "Please apply to this project before submitting.",
	util.ErrAlreadyCompleted:   "You have already submitted this project.",
}

func sessionID(ctx *gin.Context) (string, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil || claims.SessionID == "" {
		util.Unauthorized(ctx)
		return "", false
	}
	return claims.SessionID, true
}

// layoutFromRequest 客户端通过 X-Layout 告知当前布局，未提供时返回空
func layoutFromRequest(ctx *gin.Context) model.Layout {
	raw := ctx.GetHeader(util.LayoutHeader)
	if raw == "" {
		return ""
	}
	return model.ParseLayout(raw)
}

func message(err error) string {
	for target, msg := range userMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

// handleError 把业务错误映射为 HTTP 状态
func handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, repository.ErrUserNotFound):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrInternshipNotFound),
		errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrResourceNotFound):
		util.Error(ctx, http.StatusNotFound, message(err))
	case errors.Is(err, util.ErrNoActiveQuiz),
		errors.Is(err, util.ErrNoActiveExam),
		errors.Is(err, util.ErrNotApplied),
		errors.Is(err, util.ErrAlreadyCompleted),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrAttemptComplete):
		util.Conflict(ctx, message(err))
	case errors.Is(err, util.ErrSubmissionLink),
		errors.Is(err, util.ErrResourceIncomplete),
		errors.Is(err, util.ErrUnknownResourceType),
		errors.Is(err, util.ErrEmptyPrompt),
		errors.Is(err, quiz.ErrOptionOutOfRange),
		errors.Is(err, quiz.ErrNoQuestions):
		util.BadRequest(ctx, message(err))
	case errors.Is(err, util.ErrStoreUnavailable):
		logger.Log.Error("Session store unavailable", zap.String("path", ctx.FullPath()), zap.Error(err))
		util.ServiceUnavailable(ctx, "Session store unavailable")
	default:
		util.LogInternalError(ctx, err)
	}
}
