package service

import (
	"context"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/logger"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FirstContributionBadgeID 首次上传资源解锁
const FirstContributionBadgeID = 2

const thumbnailOffset = "00:00:01"

type UploadInput struct {
	Title       string
	Description string
	Type        model.ResourceType
	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

type UploadResult struct {
	Resource model.Resource `json:"resource"`
	Unlocked *model.Badge   `json:"unlocked,omitempty"`
}

// ResourceDetail Viewable 为真时在站内预览，否则直接打开链接
type ResourceDetail struct {
	model.Resource
	Viewable bool `json:"viewable"`
}

type ResourceService struct {
	Workspaces *WorkspaceService
	Storage    *StorageService

	// ThumbnailsEnabled 为假时视频也使用占位缩略图
	ThumbnailsEnabled bool
	TempDir           string
}

func NewResourceService(workspaces *WorkspaceService, storage *StorageService) *ResourceService {
	return &ResourceService{
		Workspaces:        workspaces,
		Storage:           storage,
		ThumbnailsEnabled: util.FFmpegAvailable(),
		TempDir:           os.TempDir(),
	}
}

// FilterResources 按标题、描述、上传者做不区分大小写的子串匹配
func FilterResources(resources []model.Resource, query string) []model.Resource {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return resources
	}
	out := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q) ||
			strings.Contains(strings.ToLower(r.Uploader), q) {
			out = append(out, r)
		}
	}
	return out
}

func (s *ResourceService) List(ctx context.Context, sessionID, query string) ([]model.Resource, error) {
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return FilterResources(ws.Resources, query), nil
}

func (s *ResourceService) Get(ctx context.Context, sessionID string, id int) (*ResourceDetail, error) {
	ws, err := s.Workspaces.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, r := range ws.Resources {
		if r.ID == id {
			return &ResourceDetail{Resource: r, Viewable: r.Type.Viewable()}, nil
		}
	}
	return nil, util.ErrResourceNotFound
}

// Upload 保存文件并把资源插到会话列表最前面
func (s *ResourceService) Upload(ctx context.Context, sessionID, uploader string, in UploadInput) (*UploadResult, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || in.File == nil {
		return nil, util.ErrResourceIncomplete
	}
	if in.Type == "" {
		in.Type = model.ResourceFile
	}
	if !in.Type.Valid() {
		return nil, util.ErrUnknownResourceType
	}
	if strings.TrimSpace(uploader) == "" {
		uploader = "Anonymous"
	}

	key := model.ObjectKey("resources", in.FileName)
	url, thumbnail, err := s.store(ctx, key, in)
	if err != nil {
		return nil, fmt.Errorf("store resource file: %w", err)
	}

	var result UploadResult
	_, err = s.Workspaces.Update(ctx, sessionID, func(ws *model.Workspace) error {
		id := len(ws.Resources) + 1
		r := model.Resource{
			ID:          id,
			Type:        in.Type,
			Title:       in.Title,
			Description: in.Description,
			Uploader:    uploader,
			Thumbnail:   thumbnail,
			URL:         url,
		}
		if r.Thumbnail == "" {
			r.Thumbnail = fmt.Sprintf("https://picsum.photos/seed/new%d/300/200", id)
		}
		if r.URL == "" {
			r.URL = fmt.Sprintf("https://picsum.photos/seed/new%d/800/600", id)
		}
		ws.Resources = append([]model.Resource{r}, ws.Resources...)
		result.Resource = r
		result.Unlocked = unlockBadge(s.Workspaces.Catalog, ws, FirstContributionBadgeID)
		return nil
	})
	if err != nil {
		if delErr := s.Storage.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return &result, nil
}

// store 上传文件；视频在 ffmpeg 可用时额外生成缩略图
func (s *ResourceService) store(ctx context.Context, key string, in UploadInput) (url, thumbnail string, err error) {
	contentType := in.ContentType
	if contentType == "" {
		contentType = util.MimeOctetStream
	}
	if in.Type != model.ResourceVideo || !s.ThumbnailsEnabled {
		url, err = s.Storage.Upload(ctx, key, in.File, in.Size, contentType)
		return url, "", err
	}

	tmp, err := os.CreateTemp(s.TempDir, "upload-*"+filepath.Ext(key))
	if err != nil {
		return "", "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, in.File); err != nil {
		tmp.Close()
		return "", "", err
	}
	if err := tmp.Close(); err != nil {
		return "", "", err
	}

	url, err = s.Storage.UploadFile(ctx, key, tmp.Name(), contentType)
	if err != nil {
		return "", "", err
	}

	thumbPath := tmp.Name() + ".jpg"
	defer os.Remove(thumbPath)
	if err := util.GenerateThumbnail(tmp.Name(), thumbPath, thumbnailOffset); err != nil {
		logger.Log.Warn("Failed to generate thumbnail", zap.String("key", key), zap.Error(err))
		return url, "", nil
	}
	thumbnail, err = s.Storage.UploadFile(ctx, strings.TrimSuffix(key, filepath.Ext(key))+"_thumb.jpg", thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("Failed to store thumbnail", zap.String("key", key), zap.Error(err))
		return url, "", nil
	}
	return url, thumbnail, nil
}
