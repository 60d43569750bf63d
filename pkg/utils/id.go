package utils

import "github.com/google/uuid"

// NewID 生成资源主键（UUID v4 字符串）
func NewID() string { return uuid.NewString() }

// IsValidID 只接受规范的 36 位 UUID 形式
func IsValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
