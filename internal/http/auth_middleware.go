package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pix-api/internal/service"
)

const authUserIDKey = "auth_user_id"

// SessionAuthMiddleware valida el token de sesión de la cookie y guarda el
// identificador de usuario en el contexto. Es una compuerta pura: no hace
// lecturas de base de datos, el identificador se confia tal como viene del token.
func SessionAuthMiddleware(tokenSvc *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token service not configured"})
			c.Abort()
			return
		}

		cookie, err := c.Request.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		// Expirado, adulterado o malformado responden igual: 401 uniforme.
		userID, err := tokenSvc.Verify(cookie.Value)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(authUserIDKey, userID)
		c.Next()
	}
}

// AuthUserID obtiene el identificador de usuario autenticado desde el contexto.
func AuthUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(authUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
