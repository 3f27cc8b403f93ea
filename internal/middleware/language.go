package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/i18n"
)

// LanguageContextKey is the key used to store the negotiated language in context
const LanguageContextKey = "nexa_lang"

// LanguageMiddleware picks the response language from ?lang= or
// Accept-Language, falling back to def
func LanguageMiddleware(def i18n.Lang) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.FromAcceptLanguage(c.GetHeader("Accept-Language"), def)
		if q := c.Query("lang"); q != "" {
			lang = i18n.Parse(q, lang)
		}

		c.Set(LanguageContextKey, lang)
		c.Header("Content-Language", string(lang))
		c.Next()
	}
}

// GetLanguage returns the negotiated language, or the default when the
// middleware did not run
func GetLanguage(c *gin.Context) i18n.Lang {
	if v, ok := c.Get(LanguageContextKey); ok {
		if lang, ok := v.(i18n.Lang); ok {
			return lang
		}
	}
	return i18n.Default
}
