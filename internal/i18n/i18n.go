package i18n

import (
	"fmt"
	"strings"

	"github.com/bazaar-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// ResolveLocale 解析请求语言：lang 参数优先，其次 Accept-Language，最后回退默认语言。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleEnUS
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		if normalized := normalizeLocale(lang); normalized != "" {
			return normalized
		}
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if normalized := normalizeLocale(tag); normalized != "" {
			return normalized
		}
	}
	return constants.LocaleEnUS
}

func normalizeLocale(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return ""
	}
	for _, locale := range constants.SupportedLocales {
		if strings.EqualFold(tag, locale) {
			return locale
		}
	}
	switch {
	case strings.HasPrefix(tag, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(tag, "en"):
		return constants.LocaleEnUS
	}
	return ""
}

// T 按语言翻译消息键，未命中时回退英文，再回退键本身。
func T(locale, key string) string {
	if catalog, ok := messages[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleEnUS][key]; ok {
		return msg
	}
	return key
}

// Sprintf 按语言翻译消息键并格式化参数。
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// NormalizeLocale 统一语言标签，未识别时返回默认语言。
func NormalizeLocale(tag string) string {
	if normalized := normalizeLocale(tag); normalized != "" {
		return normalized
	}
	return constants.LocaleEnUS
}
