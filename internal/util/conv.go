package util

import (
	"math"
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// UintToID renders a numeric user id in the string id space every relation
// is resolved in.
func UintToID(v uint) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(v), 10)
}

// Round2 rounds to two decimals the way scores and percentages are stored.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
