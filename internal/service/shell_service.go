package service

import (
	"context"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/repository"
	"eduassist_backend/internal/shell"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ShellService 会话门与导航
type ShellService struct {
	Auth       *AuthService
	Workspaces *WorkspaceService
}

func NewShellService(auth *AuthService, workspaces *WorkspaceService) *ShellService {
	return &ShellService{Auth: auth, Workspaces: workspaces}
}

// ResolveGate 根据令牌决定门状态。存储暂时不可用时保持 Unknown，客户端继续显示加载页
func (s *ShellService) ResolveGate(ctx context.Context, token string) (*shell.Gate, *util.Claims) {
	gate := shell.NewGate()
	if token == "" {
		gate.OnAuthStateChanged(nil)
		return gate, nil
	}
	claims, err := s.Auth.ParseToken(token)
	if err != nil {
		gate.OnAuthStateChanged(nil)
		return gate, nil
	}

	if _, err := s.Workspaces.Store.Get(ctx, claims.SessionID); err != nil {
		if errors.Is(err, repository.ErrWorkspaceNotFound) {
			gate.OnAuthStateChanged(nil)
		} else {
			logger.Log.Warn("Session lookup failed", zap.String("session", claims.SessionID), zap.Error(err))
		}
		return gate, nil
	}

	identity, err := s.Auth.Identity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			gate.OnAuthStateChanged(nil)
		} else {
			logger.Log.Warn("Identity lookup failed", zap.Uint("user", claims.UserID), zap.Error(err))
		}
		return gate, nil
	}
	gate.OnAuthStateChanged(identity)
	return gate, claims
}

// Navigate 切换当前页；layout 为空时保持原布局
func (s *ShellService) Navigate(ctx context.Context, sessionID, page string, layout model.Layout) (model.NavState, error) {
	ws, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		router := shell.NewRouter(&ws.Nav)
		if layout != "" {
			router.SetLayout(layout)
		}
		router.SetActivePage(page)
		return nil
	})
	if err != nil {
		return model.NavState{}, err
	}
	return ws.Nav, nil
}

func (s *ShellService) SetSidebar(ctx context.Context, sessionID string, open bool, layout model.Layout) (model.NavState, error) {
	ws, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		router := shell.NewRouter(&ws.Nav)
		if layout != "" {
			router.SetLayout(layout)
		}
		if open {
			router.OpenSidebar()
		} else {
			router.CloseSidebar()
		}
		return nil
	})
	if err != nil {
		return model.NavState{}, err
	}
	return ws.Nav, nil
}

// ResolveDarkMode cookie 优先，其次是浏览器的系统主题提示
func ResolveDarkMode(cookie string, hasCookie bool, hint string) bool {
	if hasCookie {
		if v, err := strconv.ParseBool(cookie); err == nil {
			return v
		}
	}
	return strings.EqualFold(strings.Trim(hint, `" `), "dark")
}
