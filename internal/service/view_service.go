package service

import (
	"context"
	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/quiz"
	"fmt"
	"math"
	"strings"
)

// PageView 当前页的视图，Data 的具体类型由 Page 决定
type PageView struct {
	Page     model.Page      `json:"page"`
	Nav      model.NavState  `json:"nav"`
	Identity *model.Identity `json:"identity"`
	Data     interface{}     `json:"data"`
}

type DashboardView struct {
	Greeting    string                  `json:"greeting"`
	QuickAccess []model.QuickAccessItem `json:"quickAccess"`
	Languages   []model.Language        `json:"languages"`
	Internships []InternshipEntry       `json:"internships"`
}

type ResourcesView struct {
	Query     string           `json:"query"`
	Resources []model.Resource `json:"resources"`
}

type InternshipsView struct {
	Internships []InternshipEntry `json:"internships"`
	Points      int               `json:"points"`
	Leaderboard []model.Student   `json:"leaderboard"`
}

type QuizzesView struct {
	Quizzes     []model.QuizSummary      `json:"quizzes"`
	Performance []model.PerformancePoint `json:"performance"`
	Attempt     *AttemptView             `json:"attempt,omitempty"`
}

type CareerView struct {
	Career   *model.CareerState    `json:"career,omitempty"`
	Roadmaps []model.CareerRoadmap `json:"roadmaps"`
}

type BadgeView struct {
	model.Badge
	Earned bool `json:"earned"`
}

type ProfileView struct {
	Identity        *model.Identity `json:"identity"`
	Level           int             `json:"level"`
	Points          int             `json:"points"`
	NextLevelPoints int             `json:"nextLevelPoints"`
	Progress        float64         `json:"progress"`
	Badges          []BadgeView     `json:"badges"`
	Leaderboard     []model.Student `json:"leaderboard"`
}

type AssistantView struct {
	Answer *model.AIAnswer `json:"answer,omitempty"`
}

type ExamsView struct {
	Exams   []ExamPrepEntry `json:"exams"`
	Browser *BrowserView    `json:"browser,omitempty"`
}

type LanguagesView struct {
	Languages []model.Language `json:"languages"`
}

// AttemptView 作答视图；正确答案只在当前题作答后下发
type AttemptView struct {
	QuizID        int        `json:"quizId"`
	Title         string     `json:"title"`
	State         quiz.State `json:"state"`
	Index         int        `json:"index"`
	Total         int        `json:"total"`
	Question      string     `json:"question,omitempty"`
	Options       []string   `json:"options,omitempty"`
	Selected      *int       `json:"selected,omitempty"`
	CorrectAnswer *int       `json:"correctAnswer,omitempty"`
	Score         int        `json:"score"`
	Correct       int        `json:"correct"`
	Message       string     `json:"message,omitempty"`
}

func NewAttemptView(a *quiz.Attempt) *AttemptView {
	if a == nil {
		return nil
	}
	v := &AttemptView{
		QuizID: a.QuizID,
		Title:  a.Title,
		State:  a.State(),
		Index:  a.Cursor,
		Total:  len(a.Questions),
	}
	if a.Empty() {
		v.Message = fmt.Sprintf("No questions available for %s.", a.Title)
		return v
	}
	if a.Complete {
		v.Score = int(math.Round(a.Score))
		v.Correct = a.Correct
		v.Message = fmt.Sprintf("You answered %d out of %d questions correctly.", a.Correct, len(a.Questions))
		return v
	}
	q := a.Current()
	v.Question = q.Question
	v.Options = q.Options
	if opt, ok := a.Selected(); ok {
		correct := q.CorrectAnswer
		v.Selected = &opt
		v.CorrectAnswer = &correct
	}
	return v
}

type BrowserView struct {
	Exam          string   `json:"exam"`
	Index         int      `json:"index"`
	Total         int      `json:"total"`
	Question      string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	HasPrev       bool     `json:"hasPrev"`
	HasNext       bool     `json:"hasNext"`
	ShowAnswer    bool     `json:"showAnswer"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Message       string   `json:"message,omitempty"`
}

func NewBrowserView(b *quiz.Browser) *BrowserView {
	if b == nil {
		return nil
	}
	v := &BrowserView{
		Exam:       b.Exam,
		Index:      b.Cursor,
		Total:      len(b.Questions),
		HasPrev:    b.HasPrev(),
		HasNext:    b.HasNext(),
		ShowAnswer: b.ShowAnswer,
	}
	q := b.Current()
	if q == nil {
		v.Message = fmt.Sprintf("No questions available for %s.", b.Exam)
		return v
	}
	v.Question = q.Question
	v.Options = q.Options
	if b.ShowAnswer {
		correct := q.CorrectAnswer
		v.CorrectAnswer = &correct
		v.Explanation = q.Explanation
	}
	return v
}

// Greeting 取显示名的第一个词
func Greeting(identity *model.Identity) string {
	name := "User"
	if identity != nil {
		if fields := strings.Fields(identity.DisplayName); len(fields) > 0 {
			name = fields[0]
		}
	}
	return fmt.Sprintf("Welcome back, %s!", name)
}

type ViewService struct {
	Workspaces  *WorkspaceService
	Catalog     *catalog.Catalog
	Internships *InternshipService
	Exams       *ExamService
}

func NewViewService(workspaces *WorkspaceService, cat *catalog.Catalog, internships *InternshipService, exams *ExamService) *ViewService {
	return &ViewService{Workspaces: workspaces, Catalog: cat, Internships: internships, Exams: exams}
}

// Compose 组合当前页的视图。query 只用于资源页的搜索
func (s *ViewService) Compose(ctx context.Context, sessionID string, identity *model.Identity, query string) (*PageView, error) {
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := &PageView{Page: ws.Nav.ActivePage, Nav: ws.Nav, Identity: identity}
	view.Page, view.Data = s.compose(ws, identity, query)
	return view, nil
}

func (s *ViewService) compose(ws *model.Workspace, identity *model.Identity, query string) (model.Page, interface{}) {
	switch ws.Nav.ActivePage {
	case model.PageResources:
		return model.PageResources, ResourcesView{Query: query, Resources: FilterResources(ws.Resources, query)}
	case model.PageInternships:
		return model.PageInternships, InternshipsView{
			Internships: s.Internships.Entries(ws),
			Points:      ws.Points,
			Leaderboard: s.Catalog.Leaderboard,
		}
	case model.PageQuizzes:
		return model.PageQuizzes, QuizzesView{
			Quizzes:     s.Catalog.QuizSummaries(),
			Performance: ws.Performance,
			Attempt:     NewAttemptView(ws.Quiz),
		}
	case model.PageCareer:
		return model.PageCareer, CareerView{Career: ws.Career, Roadmaps: s.Catalog.Roadmaps}
	case model.PageProfile:
		return model.PageProfile, s.profile(ws, identity)
	case model.PageNavigator:
		return model.PageNavigator, AssistantView{Answer: ws.Advice}
	case model.PageTimetable:
		return model.PageTimetable, AssistantView{Answer: ws.Timetable}
	case model.PageExams:
		return model.PageExams, ExamsView{Exams: s.Exams.List(), Browser: NewBrowserView(ws.Exam)}
	case model.PageLanguages:
		return model.PageLanguages, LanguagesView{Languages: s.Catalog.Languages}
	default:
		return model.PageDashboard, DashboardView{
			Greeting:    Greeting(identity),
			QuickAccess: s.Catalog.QuickAccess,
			Languages:   s.Catalog.Languages,
			Internships: s.Internships.Entries(ws),
		}
	}
}

func (s *ViewService) profile(ws *model.Workspace, identity *model.Identity) ProfileView {
	defaults := s.Catalog.Profile
	progress := 0.0
	if defaults.NextLevelPoints > 0 {
		progress = math.Min(100, float64(ws.Points)/float64(defaults.NextLevelPoints)*100)
	}
	badges := make([]BadgeView, 0, len(s.Catalog.Badges))
	for _, b := range s.Catalog.Badges {
		badges = append(badges, BadgeView{Badge: b, Earned: ws.HasBadge(b.ID)})
	}
	return ProfileView{
		Identity:        identity,
		Level:           defaults.Level,
		Points:          ws.Points,
		NextLevelPoints: defaults.NextLevelPoints,
		Progress:        progress,
		Badges:          badges,
		Leaderboard:     s.Catalog.Leaderboard,
	}
}
