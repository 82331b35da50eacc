package model

import "eduassist_backend/internal/quiz"

type Quiz struct {
	ID         int             `json:"id" yaml:"id"`
	Title      string          `json:"title" yaml:"title"`
	Subject    string          `json:"subject" yaml:"subject"`
	ChartLabel string          `json:"chartLabel" yaml:"chartLabel"`
	Questions  []quiz.Question `json:"questions" yaml:"questions"`
}

// QuizSummary 列表页不下发题目
type QuizSummary struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Subject       string `json:"subject"`
	QuestionCount int    `json:"questionCount"`
}

func (q Quiz) Summary() QuizSummary {
	return QuizSummary{ID: q.ID, Title: q.Title, Subject: q.Subject, QuestionCount: len(q.Questions)}
}

type Internship struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Company     string   `json:"company" yaml:"company"`
	Duration    string   `json:"duration" yaml:"duration"`
	Description string   `json:"description" yaml:"description"`
	Skills      []string `json:"skills" yaml:"skills"`
	Points      int      `json:"points" yaml:"points"`
	BadgeID     int      `json:"badgeId,omitempty" yaml:"badgeId"`
}

type Badge struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Icon        string `json:"icon" yaml:"icon"`
	Description string `json:"description" yaml:"description"`
}

type Student struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Points int    `json:"points" yaml:"points"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

type RoadmapStep struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// CareerRoadmap 生成的路线图没有 ID 与领域
type CareerRoadmap struct {
	ID     int           `json:"id,omitempty" yaml:"id"`
	Domain string        `json:"domain,omitempty" yaml:"domain"`
	Title  string        `json:"title" yaml:"title"`
	Steps  []RoadmapStep `json:"steps" yaml:"steps"`
}

type ExamPrep struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

type Language struct {
	Name     string `json:"name" yaml:"name"`
	Level    string `json:"level" yaml:"level"`
	Progress int    `json:"progress" yaml:"progress"`
	Icon     string `json:"icon" yaml:"icon"`
}

type PerformancePoint struct {
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
}

type QuickAccessItem struct {
	Page  Page   `json:"page" yaml:"page"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}

type NavItem struct {
	Page  Page   `json:"page" yaml:"page"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}
