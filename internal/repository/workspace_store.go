package repository

import (
	"context"
	"eduassist_backend/internal/model"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

const workspaceKeyPrefix = "eduassist:workspace:"

// WorkspaceStore 会话工作区存储，同时充当会话登记表：工作区存在即会话有效
type WorkspaceStore interface {
	Get(ctx context.Context, sessionID string) (*model.Workspace, error)
	Save(ctx context.Context, ws *model.Workspace) error
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

type RedisWorkspaceStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisWorkspaceStore(rdb *redis.Client, ttl time.Duration) *RedisWorkspaceStore {
	return &RedisWorkspaceStore{rdb: rdb, ttl: ttl}
}

func (s *RedisWorkspaceStore) Get(ctx context.Context, sessionID string) (*model.Workspace, error) {
	data, err := s.rdb.Get(ctx, workspaceKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, err
	}
	var ws model.Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Save 过期时间从会话创建算起，活跃操作不续期
func (s *RedisWorkspaceStore) Save(ctx context.Context, ws *model.Workspace) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return err
	}
	ttl := s.ttl - time.Since(ws.CreatedAt)
	if ttl <= 0 {
		return s.Delete(ctx, ws.SessionID)
	}
	return s.rdb.Set(ctx, workspaceKeyPrefix+ws.SessionID, data, ttl).Err()
}

func (s *RedisWorkspaceStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, workspaceKeyPrefix+sessionID).Err()
}

func (s *RedisWorkspaceStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryWorkspaceStore 单实例部署与测试使用，存 JSON 以隔离调用方的修改
type MemoryWorkspaceStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryWorkspaceStore(ttl time.Duration) *MemoryWorkspaceStore {
	return &MemoryWorkspaceStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (s *MemoryWorkspaceStore) Get(ctx context.Context, sessionID string) (*model.Workspace, error) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if ok && s.ttl > 0 && !s.now().Before(entry.expiresAt) {
		delete(s.entries, sessionID)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	var ws model.Workspace
	if err := json.Unmarshal(entry.data, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *MemoryWorkspaceStore) Save(ctx context.Context, ws *model.Workspace) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ws.SessionID] = memoryEntry{data: data, expiresAt: ws.CreatedAt.Add(s.ttl)}
	return nil
}

func (s *MemoryWorkspaceStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

func (s *MemoryWorkspaceStore) Ping(ctx context.Context) error { return nil }
