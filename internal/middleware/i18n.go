// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/listing-intake/internal/i18n"
	"github.com/javajoker/listing-intake/internal/utils"
)

// I18nMiddleware picks the response language from Accept-Language.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return func(c *gin.Context) {
		c.Set(utils.LangKey, parseLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// languageAliases maps tags that do not reduce to a catalog name.
var languageAliases = map[string]string{
	"zh-Hant":    "zh_TW",
	"zh-Hant-TW": "zh_TW",
}

// parseLanguage returns the first Accept-Language preference that has a
// catalog, trying the full tag and then its primary subtag.
func parseLanguage(header, defaultLang string) string {
	if header == "" {
		return defaultLang
	}

	supported := make(map[string]bool)
	for _, lang := range i18n.GetSupportedLanguages() {
		supported[lang] = true
	}

	// Handle cases like "zh-TW,zh;q=0.9,en;q=0.8"
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		if alias, ok := languageAliases[tag]; ok {
			tag = alias
		}
		tag = strings.ReplaceAll(tag, "-", "_")
		if supported[tag] {
			return tag
		}
		if base := strings.SplitN(tag, "_", 2)[0]; supported[base] {
			return base
		}
	}
	return defaultLang
}
