package util

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/NasirNS45/momento-backend/internal/model"
)

// GenerateUniqueFilename 生成唯一的文件名
func GenerateUniqueFilename(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	name := filepath.Base(originalFilename)
	name = name[:len(name)-len(ext)]

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return name + "_" + timestamp + ext
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "svg": true, "ico": true, "webp": true,
}

var videoExtensions = map[string]bool{
	"avi": true, "mpg": true, "mpeg": true, "mpv": true,
	"ogv": true, "mkv": true, "flv": true, "wmv": true,
	"webm": true, "mp4": true, "mov": true,
}

// MediaTypeFromFilename 根据文件扩展名推断媒体类型（大小写不敏感）；
// 无法识别时返回 false
func MediaTypeFromFilename(filename string) (model.MediaType, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch {
	case imageExtensions[ext]:
		return model.MediaTypeImage, true
	case videoExtensions[ext]:
		return model.MediaTypeVideo, true
	default:
		return "", false
	}
}
