// Package shell holds the session gate and the navigation router that
// decide what a signed-in or signed-out client is shown.
package shell

import (
	"context"
	"sync"

	"eduassist_backend/internal/model"
	"eduassist_backend/pkg/logger"

	"go.uber.org/zap"
)

type GateState int

const (
	GateUnknown GateState = iota
	GateSignedOut
	GateSignedIn
)

type View string

const (
	ViewLoading View = "loading"
	ViewAuth    View = "auth"
	ViewShell   View = "shell"
)

// Gate follows the identity provider's auth-state stream. Until the first
// event arrives nothing but the loading view is composed.
type Gate struct {
	mu       sync.RWMutex
	state    GateState
	identity *model.Identity
}

func NewGate() *Gate {
	return &Gate{}
}

// OnAuthStateChanged is the provider subscription callback; nil means
// signed out.
func (g *Gate) OnAuthStateChanged(identity *model.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.identity = identity
	if identity == nil {
		g.state = GateSignedOut
		return
	}
	g.state = GateSignedIn
}

func (g *Gate) State() GateState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) Identity() *model.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.identity
}

func (g *Gate) View() View {
	switch g.State() {
	case GateSignedIn:
		return ViewShell
	case GateSignedOut:
		return ViewAuth
	default:
		return ViewLoading
	}
}

type SignOuter interface {
	SignOut(ctx context.Context, sessionID string) error
}

// Logout signs out through the provider and resets navigation. Sign-out is
// best effort: a failure is logged and the reset still happens.
func Logout(ctx context.Context, provider SignOuter, sessionID string, router *Router) {
	if err := provider.SignOut(ctx, sessionID); err != nil {
		logger.Log.Warn("Sign out failed", zap.String("session", sessionID), zap.Error(err))
	}
	router.Reset()
}
