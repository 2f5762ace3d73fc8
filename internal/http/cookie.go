package http

import (
	"net/http"
	"time"
)

// SessionCookieName es el nombre de la cookie que transporta el token de sesión.
const SessionCookieName = "access_token"

// Los atributos de emision y borrado deben coincidir exactamente o el
// navegador no elimina la cookie. SameSite=None + Secure habilita el uso
// desde el frontend en otro origen.
var sessionCookieTemplate = http.Cookie{
	Name:     SessionCookieName,
	Path:     "/",
	HttpOnly: true,
	Secure:   true,
	SameSite: http.SameSiteNoneMode,
}

// setSessionCookie adjunta el token de sesión a la respuesta.
func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	cookie := sessionCookieTemplate
	cookie.Value = token
	cookie.MaxAge = int(ttl.Seconds())
	http.SetCookie(w, &cookie)
}

// clearSessionCookie emite la directiva de expiracion con los mismos atributos.
func clearSessionCookie(w http.ResponseWriter) {
	cookie := sessionCookieTemplate
	cookie.Value = ""
	cookie.MaxAge = -1
	http.SetCookie(w, &cookie)
}
