package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/config"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/repository"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	cfg        *config.Config
	cat        *catalog.Catalog
	users      *repository.MemoryUserRepository
	store      *repository.MemoryWorkspaceStore
	auth       *AuthService
	workspaces *WorkspaceService
	clock      *testClock
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Mode: "test"},
		JWT:    config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		AI: config.AIConfig{Models: config.AIModels{
			Advice:    "advice-model",
			Timetable: "timetable-model",
			Roadmap:   "roadmap-model",
		}},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	env := &testEnv{
		cfg:   testConfig(),
		cat:   cat,
		users: repository.NewMemoryUserRepository(),
		// TTL 为 0 时不过期，测试时钟与存储时钟互不影响
		store: repository.NewMemoryWorkspaceStore(0),
		clock: &testClock{t: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
	}
	env.auth = NewAuthService(env.users, env.cfg)
	env.workspaces = NewWorkspaceService(env.store, cat)
	env.workspaces.now = env.clock.Now
	unsubscribe := env.auth.Subscribe(env.workspaces.HandleAuthEvent)
	t.Cleanup(unsubscribe)
	return env
}

func (e *testEnv) signUp(t *testing.T) *Session {
	t.Helper()
	sess, err := e.auth.SignUpWithCredentials(context.Background(), "ada@example.com", "secret1", "Ada Lovelace")
	require.NoError(t, err)
	return sess
}

func (e *testEnv) workspace(t *testing.T, sessionID string) *model.Workspace {
	t.Helper()
	ws, err := e.workspaces.Get(context.Background(), sessionID)
	require.NoError(t, err)
	return ws
}

// failingStore 模拟会话存储暂时不可用
type failingStore struct {
	repository.WorkspaceStore
}

var errStoreDown = errors.New("store down")

func (failingStore) Get(ctx context.Context, sessionID string) (*model.Workspace, error) {
	return nil, errStoreDown
}

type fakeGenerator struct {
	mu     sync.Mutex
	text   string
	err    error
	calls  int
	last   GenerateRequest
	during func()
}

func (g *fakeGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	g.mu.Lock()
	g.calls++
	g.last = req
	during := g.during
	g.mu.Unlock()
	if during != nil {
		during()
	}
	return g.text, g.err
}
