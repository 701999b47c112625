package server

import "strings"

const (
	// DefaultRoomID 房间号净化为空时的兜底房间
	DefaultRoomID = "public"
	// DefaultName 展示名净化为空时的占位名
	DefaultName = "Guest"

	maxRoomIDLen = 24
	maxNameLen   = 16
)

// SanitizeRoomID 归一化房间号：小写、仅保留 [a-z0-9_-]、截断 24 字符
// 纯函数且永不失败；空结果回退默认房间，保证产出可直接做查表键
func SanitizeRoomID(raw string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(raw) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteRune(c)
		}
	}
	id := b.String()
	if len(id) > maxRoomIDLen {
		id = id[:maxRoomIDLen]
	}
	if id == "" {
		return DefaultRoomID
	}
	return id
}

// SanitizeName 归一化展示名：去首尾空白、连续空白折叠为单个空格、截断 16 字符
func SanitizeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return DefaultName
	}
	if r := []rune(name); len(r) > maxNameLen {
		// 截断后可能留下尾部空格，去掉以保持幂等
		name = strings.TrimRight(string(r[:maxNameLen]), " ")
	}
	return name
}

// SanitizeSkin 校验外观标识：不在枚举内一律回退默认外观
func SanitizeSkin(raw string) string {
	if validSkins[raw] {
		return raw
	}
	return DefaultSkin
}
