package shell

import "eduassist_backend/internal/model"

// Router is the single active-page selector. There is no history and no
// URL sync.
type Router struct {
	state *model.NavState
}

func NewRouter(state *model.NavState) *Router {
	if state.ActivePage == "" {
		state.ActivePage = model.DefaultPage
	}
	if state.Layout == "" {
		state.Layout = model.LayoutDesktop
	}
	return &Router{state: state}
}

func (r *Router) ActivePage() model.Page { return r.state.ActivePage }

// SetActivePage selects page, falling back to the default page for an
// unknown identifier. Reselecting the active page changes nothing but
// still closes the mobile sidebar.
func (r *Router) SetActivePage(page string) model.Page {
	target := model.ParsePage(page)
	if r.state.Layout == model.LayoutMobile {
		r.state.SidebarOpen = false
	}
	if target != r.state.ActivePage {
		r.state.ActivePage = target
		r.state.Epoch++
	}
	return target
}

func (r *Router) SetLayout(layout model.Layout) {
	r.state.Layout = layout
	if layout == model.LayoutDesktop {
		r.state.SidebarOpen = false
	}
}

func (r *Router) OpenSidebar() { r.state.SidebarOpen = true }

func (r *Router) CloseSidebar() { r.state.SidebarOpen = false }

func (r *Router) Reset() {
	if r.state.ActivePage != model.DefaultPage {
		r.state.Epoch++
	}
	r.state.ActivePage = model.DefaultPage
	r.state.SidebarOpen = false
}
