package model

type Page string

const (
	PageDashboard   Page = "dashboard"
	PageResources   Page = "resources"
	PageInternships Page = "internships"
	PageQuizzes     Page = "quizzes"
	PageCareer      Page = "career"
	PageProfile     Page = "profile"
	PageNavigator   Page = "navigator"
	PageTimetable   Page = "timetable"
	PageExams       Page = "exams"
	PageLanguages   Page = "languages"

	DefaultPage = PageDashboard
)

var Pages = []Page{
	PageDashboard,
	PageResources,
	PageInternships,
	PageQuizzes,
	PageCareer,
	PageProfile,
	PageNavigator,
	PageTimetable,
	PageExams,
	PageLanguages,
}

func (p Page) Valid() bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePage 未知标识回落到默认页
func ParsePage(s string) Page {
	p := Page(s)
	if p.Valid() {
		return p
	}
	return DefaultPage
}

type Layout string

const (
	LayoutDesktop Layout = "desktop"
	LayoutMobile  Layout = "mobile"
)

func ParseLayout(s string) Layout {
	if Layout(s) == LayoutMobile {
		return LayoutMobile
	}
	return LayoutDesktop
}

// NavState 单一的当前页选择器，Epoch 在页面切换时递增
type NavState struct {
	ActivePage  Page   `json:"activePage"`
	Layout      Layout `json:"layout"`
	SidebarOpen bool   `json:"sidebarOpen"`
	Epoch       uint64 `json:"epoch"`
}
