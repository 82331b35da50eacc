package service

import (
	"context"
	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/repository"
	"eduassist_backend/internal/shell"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"eduassist_backend/pkg/monitoring"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WorkspaceService 负责会话工作区的创建、读取和串行化修改
type WorkspaceService struct {
	Store   repository.WorkspaceStore
	Catalog *catalog.Catalog

	locks sync.Map
	now   func() time.Time
}

func NewWorkspaceService(store repository.WorkspaceStore, cat *catalog.Catalog) *WorkspaceService {
	return &WorkspaceService{Store: store, Catalog: cat, now: time.Now}
}

func (s *WorkspaceService) lock(sessionID string) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// HandleAuthEvent 订阅身份事件：登录新建工作区，登出销毁
func (s *WorkspaceService) HandleAuthEvent(ctx context.Context, ev AuthEvent) error {
	if ev.Identity == nil {
		s.locks.Delete(ev.SessionID)
		return s.Store.Delete(ctx, ev.SessionID)
	}
	return s.Store.Save(ctx, s.newWorkspace(ev))
}

func (s *WorkspaceService) newWorkspace(ev AuthEvent) *model.Workspace {
	ws := &model.Workspace{
		SessionID:   ev.SessionID,
		UserID:      ev.UserID,
		CreatedAt:   s.now(),
		Applied:     model.IDSet{},
		Completed:   model.IDSet{},
		Points:      s.Catalog.Profile.StartingPoints,
		Badges:      []int{},
		Resources:   s.Catalog.CloneResources(),
		Performance: s.Catalog.ClonePerformance(),
	}
	shell.NewRouter(&ws.Nav)
	return ws
}

// Get 读取工作区，顺带结算已到期的测验状态
func (s *WorkspaceService) Get(ctx context.Context, sessionID string) (*model.Workspace, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	ws, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.settle(ws) {
		if err := s.Store.Save(ctx, ws); err != nil {
			return nil, storeErr(err)
		}
	}
	return ws, nil
}

// Update 在会话锁内读取、结算、修改并保存工作区。fn 返回错误时不保存
func (s *WorkspaceService) Update(ctx context.Context, sessionID string, fn func(ws *model.Workspace) error) (*model.Workspace, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	ws, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	settled := s.settle(ws)
	if err := fn(ws); err != nil {
		if settled {
			if saveErr := s.Store.Save(ctx, ws); saveErr != nil {
				logger.Log.Warn("Failed to save settled workspace", zap.String("session", sessionID), zap.Error(saveErr))
			}
		}
		return ws, err
	}
	if err := s.Store.Save(ctx, ws); err != nil {
		return nil, storeErr(err)
	}
	return ws, nil
}

// storeErr 存储故障统一标记为不可用，保留原始错误
func storeErr(err error) error {
	return fmt.Errorf("%w: %w", util.ErrStoreUnavailable, err)
}

// load 调用方持有会话锁；工作区已过期时顺带释放该会话的锁条目
func (s *WorkspaceService) load(ctx context.Context, sessionID string) (*model.Workspace, error) {
	ws, err := s.Store.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrWorkspaceNotFound) {
		s.locks.Delete(sessionID)
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	if ws.Applied == nil {
		ws.Applied = model.IDSet{}
	}
	if ws.Completed == nil {
		ws.Completed = model.IDSet{}
	}
	return ws, nil
}

// settle 推进到期的答题延迟；完成的测验停留 ResultLinger 后清除
func (s *WorkspaceService) settle(ws *model.Workspace) bool {
	if ws.Quiz == nil {
		return false
	}
	now := s.now()
	changed := ws.Quiz.Settle(now)
	if changed && ws.Quiz.Complete {
		s.recordScore(ws)
	}
	if ws.Quiz.Expired(now) {
		ws.Quiz = nil
		changed = true
	}
	return changed
}

// recordScore 把成绩并入会话的成绩图表
func (s *WorkspaceService) recordScore(ws *model.Workspace) {
	attempt := ws.Quiz
	label := attempt.Title
	if q := s.Catalog.Quiz(attempt.QuizID); q != nil && q.ChartLabel != "" {
		label = q.ChartLabel
	}
	score := int(math.Round(attempt.Score))

	monitoring.QuizCompletions.WithLabelValues(label).Inc()
	logger.Log.Info("Quiz completed",
		zap.String("session", ws.SessionID),
		zap.Int("quiz", attempt.QuizID),
		zap.Int("correct", attempt.Correct),
		zap.Int("score", score))

	for i := range ws.Performance {
		if ws.Performance[i].Name == label {
			ws.Performance[i].Score = score
			return
		}
	}
	ws.Performance = append(ws.Performance, model.PerformancePoint{Name: label, Score: score})
}

// unlockBadge 未拥有时解锁徽章，返回新解锁的徽章
func unlockBadge(cat *catalog.Catalog, ws *model.Workspace, badgeID int) *model.Badge {
	if ws.HasBadge(badgeID) {
		return nil
	}
	badge := cat.Badge(badgeID)
	if badge == nil {
		return nil
	}
	ws.Badges = append(ws.Badges, badgeID)
	return badge
}

// Logout 登出并把导航重置到默认页，返回重置后的导航状态
func (s *WorkspaceService) Logout(ctx context.Context, provider shell.SignOuter, sessionID string) model.NavState {
	unlock := s.lock(sessionID)
	defer unlock()

	var nav model.NavState
	if ws, err := s.load(ctx, sessionID); err == nil {
		nav = ws.Nav
	}
	router := shell.NewRouter(&nav)
	shell.Logout(ctx, provider, sessionID, router)

	// 登出回调失败时工作区可能仍在，这里再删一次保证会话失效
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		logger.Log.Warn("Failed to delete workspace", zap.String("session", sessionID), zap.Error(err))
	}
	return nav
}
