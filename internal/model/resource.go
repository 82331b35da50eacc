package model

type ResourceType string

const (
	ResourcePDF   ResourceType = "PDF"
	ResourceVideo ResourceType = "Video"
	ResourceImage ResourceType = "Image"
	ResourceFile  ResourceType = "File"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourcePDF, ResourceVideo, ResourceImage, ResourceFile:
		return true
	}
	return false
}

// Viewable 视频与图片可在站内直接预览
func (t ResourceType) Viewable() bool {
	return t == ResourceVideo || t == ResourceImage
}

// swagger:model Resource
type Resource struct {
	ID          int          `json:"id" yaml:"id"`
	Type        ResourceType `json:"type" yaml:"type"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Uploader    string       `json:"uploader" yaml:"uploader"`
	Thumbnail   string       `json:"thumbnail" yaml:"thumbnail"`
	URL         string       `json:"url" yaml:"url"`
}
