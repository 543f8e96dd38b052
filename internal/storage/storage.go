package storage

import (
	"fmt"
	"mime/multipart"

	"github.com/NasirNS45/momento-backend/config"
)

// Uploader 统一的文件上传接口，返回可访问的文件地址
type Uploader interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

// NewUploader 根据配置选择存储后端
func NewUploader(cfg *config.Config) (Uploader, error) {
	switch cfg.StorageBackend {
	case "s3":
		return NewS3Client(cfg.AWSRegion, cfg.AWSBucket)
	case "gcs":
		return NewGCSClient(cfg.GCSBucket, cfg.GCSCredentialsFile)
	case "local", "":
		return NewLocalStorage(cfg.LocalStoragePath)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", cfg.StorageBackend)
	}
}
