package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/utils"
)

type ctxKey string

const (
	CtxComercianteID ctxKey = "comercianteID"
	CtxRol           ctxKey = "rol"
	CtxEsProveedor   ctxKey = "esProveedor"
)

// CookieSesion es la cookie HttpOnly que transporta el token de sesión.
const CookieSesion = "sesion"

// Roles del sistema.
const (
	RolComerciante = "COMERCIANTE"
	RolProveedor   = "PROVEEDOR"
	RolAdmin       = "ADMIN"
	RolTecnico     = "TECNICO"
)

// tokenDeRequest busca el token primero en Authorization: Bearer y luego en la cookie.
func tokenDeRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(CookieSesion); err == nil {
		return c.Value
	}
	return ""
}

// LimpiarCookieSesion invalida la cookie de sesión en el navegador.
func LimpiarCookieSesion(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieSesion,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Identificacion resuelve el comerciante autenticado al inicio de cada request y
// lo deja en el contexto. Un token ausente o inválido deja la request como
// anónima; el token inválido además limpia la cookie vencida.
func (e *Emisor) Identificacion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenDeRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := e.ValidarToken(token)
		if err != nil {
			LimpiarCookieSesion(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), CtxComercianteID, claims.ComercianteID)
		ctx = context.WithValue(ctx, CtxRol, claims.Rol)
		ctx = context.WithValue(ctx, CtxEsProveedor, claims.EsProveedor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ComercianteID devuelve el id autenticado del contexto, si existe.
func ComercianteID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(CtxComercianteID).(uint)
	return id, ok
}

// Rol devuelve el rol autenticado del contexto.
func Rol(r *http.Request) string {
	rol, _ := r.Context().Value(CtxRol).(string)
	return rol
}

// EsProveedor indica si la sesión corresponde a un comerciante con perfil de proveedor.
func EsProveedor(r *http.Request) bool {
	es, _ := r.Context().Value(CtxEsProveedor).(bool)
	return es
}

// RequireAutenticado exige una sesión válida.
func RequireAutenticado(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ComercianteID(r); !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin exige rol ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRol(RolAdmin, next)
}

// RequireTecnico exige rol TECNICO.
func RequireTecnico(next http.Handler) http.Handler {
	return requireRol(RolTecnico, next)
}

func requireRol(rol string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ComercianteID(r); !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Debes iniciar sesión para acceder.")
			return
		}
		if Rol(r) != rol {
			utils.RespondError(w, http.StatusForbidden, "Acceso denegado.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
