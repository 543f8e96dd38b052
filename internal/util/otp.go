package util

import (
	"fmt"
	"math/rand"
)

// GenerateOTPCode 生成 6 位数字验证码
func GenerateOTPCode() string {
	return fmt.Sprintf("%d", rand.Intn(900000)+100000)
}
