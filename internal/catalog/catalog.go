// Package catalog loads the static content shown by every page. The data
// is read once from an embedded YAML document and never mutated; session
// changes are copied into the per-session workspace instead.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"eduassist_backend/internal/model"
	"eduassist_backend/internal/quiz"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

type ProfileDefaults struct {
	StartingPoints  int `yaml:"startingPoints"`
	Level           int `yaml:"level"`
	NextLevelPoints int `yaml:"nextLevelPoints"`
}

type Catalog struct {
	Profile       ProfileDefaults                `yaml:"profile"`
	Navigation    []model.NavItem                `yaml:"navigation"`
	QuickAccess   []model.QuickAccessItem        `yaml:"quickAccess"`
	Resources     []model.Resource               `yaml:"resources"`
	Internships   []model.Internship             `yaml:"internships"`
	Quizzes       []model.Quiz                   `yaml:"quizzes"`
	Performance   []model.PerformancePoint       `yaml:"performance"`
	Roadmaps      []model.CareerRoadmap          `yaml:"roadmaps"`
	Badges        []model.Badge                  `yaml:"badges"`
	ExamPrep      []model.ExamPrep               `yaml:"examPrep"`
	ExamQuestions map[string][]quiz.ExamQuestion `yaml:"examQuestions"`
	Languages     []model.Language               `yaml:"languages"`
	Leaderboard   []model.Student                `yaml:"leaderboard"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

func Parse(doc []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	for _, q := range c.Quizzes {
		for i, question := range q.Questions {
			if err := question.Validate(); err != nil {
				return fmt.Errorf("quiz %d question %d: %w", q.ID, i, err)
			}
		}
	}
	for exam, questions := range c.ExamQuestions {
		for i, question := range questions {
			if err := question.Validate(); err != nil {
				return fmt.Errorf("exam %s question %d: %w", exam, i, err)
			}
		}
	}
	for _, r := range c.Resources {
		if !r.Type.Valid() {
			return fmt.Errorf("resource %d: unknown type %q", r.ID, r.Type)
		}
	}
	for _, in := range c.Internships {
		if in.BadgeID != 0 && c.Badge(in.BadgeID) == nil {
			return fmt.Errorf("internship %d: unknown badge %d", in.ID, in.BadgeID)
		}
	}
	return nil
}

func (c *Catalog) Quiz(id int) *model.Quiz {
	for i := range c.Quizzes {
		if c.Quizzes[i].ID == id {
			return &c.Quizzes[i]
		}
	}
	return nil
}

func (c *Catalog) QuizSummaries() []model.QuizSummary {
	out := make([]model.QuizSummary, 0, len(c.Quizzes))
	for _, q := range c.Quizzes {
		out = append(out, q.Summary())
	}
	return out
}

func (c *Catalog) Internship(id int) *model.Internship {
	for i := range c.Internships {
		if c.Internships[i].ID == id {
			return &c.Internships[i]
		}
	}
	return nil
}

func (c *Catalog) Badge(id int) *model.Badge {
	for i := range c.Badges {
		if c.Badges[i].ID == id {
			return &c.Badges[i]
		}
	}
	return nil
}

// ExamQuestionsFor matches the exam name case-insensitively; a miss is an
// empty slice, never an error.
func (c *Catalog) ExamQuestionsFor(exam string) []quiz.ExamQuestion {
	if qs, ok := c.ExamQuestions[exam]; ok {
		return qs
	}
	for name, qs := range c.ExamQuestions {
		if strings.EqualFold(name, exam) {
			return qs
		}
	}
	return nil
}

func (c *Catalog) ExamPrepByName(name string) *model.ExamPrep {
	for i := range c.ExamPrep {
		if strings.EqualFold(c.ExamPrep[i].Name, name) {
			return &c.ExamPrep[i]
		}
	}
	return nil
}

// CloneResources 会话初始资源列表
func (c *Catalog) CloneResources() []model.Resource {
	out := make([]model.Resource, len(c.Resources))
	copy(out, c.Resources)
	return out
}

func (c *Catalog) ClonePerformance() []model.PerformancePoint {
	out := make([]model.PerformancePoint, len(c.Performance))
	copy(out, c.Performance)
	return out
}
