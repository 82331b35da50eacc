package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// 主题偏好，沿用前端 localStorage 的键名
const (
	ThemeCookie       = "isDarkMode"
	ThemeHintHeader   = "Sec-CH-Prefers-Color-Scheme"
	ThemeCookieMaxAge = 365 * 24 * 60 * 60
)

const LayoutHeader = "X-Layout"

const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

// MaxUploadSize 资源上传上限
const MaxUploadSize = 64 << 20
