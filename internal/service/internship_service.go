package service

import (
	"context"
	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// FirstProjectBadgeID 首次完成实习项目解锁
const FirstProjectBadgeID = 3

type InternshipEntry struct {
	model.Internship
	Applied   bool `json:"applied"`
	Completed bool `json:"completed"`
}

// SubmissionResult 提交后的积分与新解锁的徽章
type SubmissionResult struct {
	Internship InternshipEntry `json:"internship"`
	Points     int             `json:"points"`
	Unlocked   []model.Badge   `json:"unlocked"`
}

type InternshipService struct {
	Workspaces *WorkspaceService
	Catalog    *catalog.Catalog
}

func NewInternshipService(workspaces *WorkspaceService, cat *catalog.Catalog) *InternshipService {
	return &InternshipService{Workspaces: workspaces, Catalog: cat}
}

func (s *InternshipService) Entries(ws *model.Workspace) []InternshipEntry {
	out := make([]InternshipEntry, 0, len(s.Catalog.Internships))
	for _, in := range s.Catalog.Internships {
		out = append(out, s.entry(ws, in))
	}
	return out
}

func (s *InternshipService) entry(ws *model.Workspace, in model.Internship) InternshipEntry {
	return InternshipEntry{
		Internship: in,
		Applied:    ws.Applied.Has(in.ID),
		Completed:  ws.Completed.Has(in.ID),
	}
}

// Apply 申请是幂等的
func (s *InternshipService) Apply(ctx context.Context, sessionID string, id int) (*InternshipEntry, error) {
	in := s.Catalog.Internship(id)
	if in == nil {
		return nil, util.ErrInternshipNotFound
	}
	ws, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		ws.Applied[id] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	entry := s.entry(ws, *in)
	return &entry, nil
}

// Submit 提交作品链接，记入完成集合、累加积分并解锁徽章
func (s *InternshipService) Submit(ctx context.Context, sessionID string, id int, link, notes string) (*SubmissionResult, error) {
	in := s.Catalog.Internship(id)
	if in == nil {
		return nil, util.ErrInternshipNotFound
	}
	if strings.TrimSpace(link) == "" {
		return nil, util.ErrSubmissionLink
	}

	var unlocked []model.Badge
	ws, err := s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		if !ws.Applied.Has(id) {
			return util.ErrNotApplied
		}
		if ws.Completed.Has(id) {
			return util.ErrAlreadyCompleted
		}
		first := len(ws.Completed) == 0
		ws.Completed[id] = true
		ws.Points += in.Points

		if first {
			if b := unlockBadge(s.Catalog, ws, FirstProjectBadgeID); b != nil {
				unlocked = append(unlocked, *b)
			}
		}
		if in.BadgeID != 0 {
			if b := unlockBadge(s.Catalog, ws, in.BadgeID); b != nil {
				unlocked = append(unlocked, *b)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Internship submitted",
		zap.String("session", sessionID),
		zap.Int("internship", id),
		zap.String("link", link),
		zap.Int("notes_len", len(notes)),
		zap.Int("points", ws.Points))

	return &SubmissionResult{
		Internship: s.entry(ws, *in),
		Points:     ws.Points,
		Unlocked:   unlocked,
	}, nil
}
