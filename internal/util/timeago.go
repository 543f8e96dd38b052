package util

import (
	"time"

	"github.com/dustin/go-humanize"
)

// TimeAgo 返回相对于当前时间的人性化描述，如 "3 minutes ago"
func TimeAgo(t time.Time) string {
	return humanize.Time(t)
}
