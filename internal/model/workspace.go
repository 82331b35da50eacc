package model

import (
	"eduassist_backend/internal/quiz"
	"sort"
	"time"
)

// IDSet 会话内的申请 / 完成集合
type IDSet map[int]bool

func (s IDSet) Has(id int) bool { return s[id] }

func (s IDSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AIAnswer 最近一次 AI 文本结果
type AIAnswer struct {
	Prompt     string    `json:"prompt"`
	Text       string    `json:"text"`
	Fallback   bool      `json:"fallback"`
	AnsweredAt time.Time `json:"answeredAt"`
}

type CareerState struct {
	Query   string         `json:"query"`
	Roadmap *CareerRoadmap `json:"roadmap,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Workspace 单个浏览器会话的全部应用状态，登出即销毁，不落库
type Workspace struct {
	SessionID string    `json:"sessionId"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Nav NavState `json:"nav"`

	Quiz *quiz.Attempt `json:"quiz,omitempty"`
	Exam *quiz.Browser `json:"exam,omitempty"`

	Applied   IDSet `json:"applied"`
	Completed IDSet `json:"completed"`
	Points    int   `json:"points"`
	Badges    []int `json:"badges"`

	Resources   []Resource         `json:"resources"`
	Performance []PerformancePoint `json:"performance"`

	Advice    *AIAnswer    `json:"advice,omitempty"`
	Timetable *AIAnswer    `json:"timetable,omitempty"`
	Career    *CareerState `json:"career,omitempty"`
}

func (w *Workspace) HasBadge(id int) bool {
	for _, b := range w.Badges {
		if b == id {
			return true
		}
	}
	return false
}
