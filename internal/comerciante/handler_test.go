package comerciante

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Comerciante{}))
	return db
}

func nuevoHandlerPrueba(t *testing.T) *Handler {
	t.Helper()
	emisor := auth.NewEmisor("secreto-de-prueba", time.Hour)
	return NewHandler(abrirDB(t), nil, emisor, zap.NewNop(), time.Hour, 5<<20)
}

func peticionJSON(t *testing.T, metodo, ruta string, cuerpo interface{}) *http.Request {
	t.Helper()
	datos, err := json.Marshal(cuerpo)
	require.NoError(t, err)
	return httptest.NewRequest(metodo, ruta, bytes.NewReader(datos))
}

func registroValido() RegistroRequest {
	return RegistroRequest{
		NombreApellido:    "María Pérez",
		Email:             "maria@almacen.cl",
		Whatsapp:          "+56912345678",
		Password:          "clave-segura",
		ConfirmarPassword: "clave-segura",
		TipoNegocio:       "ALMACEN",
		Comuna:            "Santiago",
	}
}

func TestRegistroExitoso(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	rec := httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", registroValido()))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SesionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "/foro", resp.Redirect)
	assert.Equal(t, NivelBronce, resp.Comerciante.Progreso.NivelCodigo)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieSesion, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRegistroEmailDuplicado(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	rec := httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", registroValido()))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", registroValido()))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp utils.RespuestaError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "ya está registrado")
}

func TestRegistroWhatsappInvalido(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	req := registroValido()
	req.Whatsapp = "912345678"
	rec := httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegistroPasswordsNoCoinciden(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	req := registroValido()
	req.ConfirmarPassword = "otra-clave"
	rec := httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginDistingueCorreoDeContrasena(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	rec := httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", registroValido()))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, peticionJSON(t, http.MethodPost, "/login", LoginRequest{
		Email: "nadie@almacen.cl", Password: "clave-segura",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp utils.RespuestaError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "no está registrado")

	rec = httptest.NewRecorder()
	h.Login(rec, peticionJSON(t, http.MethodPost, "/login", LoginRequest{
		Email: "maria@almacen.cl", Password: "clave-incorrecta",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "Contraseña incorrecta")
}

func TestLoginEstampaUltimaConexion(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	rec := httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", registroValido()))
	require.Equal(t, http.StatusCreated, rec.Code)

	// el login fallido no debe tocar la última conexión
	antes, err := h.Repository.BuscarPorEmail(h.DB, "maria@almacen.cl")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	h.Login(rec, peticionJSON(t, http.MethodPost, "/login", LoginRequest{
		Email: "maria@almacen.cl", Password: "clave-incorrecta",
	}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	despues, err := h.Repository.BuscarPorEmail(h.DB, "maria@almacen.cl")
	require.NoError(t, err)
	assert.Equal(t, antes.UltimaConexion.Unix(), despues.UltimaConexion.Unix())

	rec = httptest.NewRecorder()
	h.Login(rec, peticionJSON(t, http.MethodPost, "/login", LoginRequest{
		Email: "maria@almacen.cl", Password: "clave-segura",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	conectado, err := h.Repository.BuscarPorEmail(h.DB, "maria@almacen.cl")
	require.NoError(t, err)
	require.NotNil(t, conectado.UltimaConexion)
	assert.True(t, EstaOnline(conectado.UltimaConexion))
}

func TestRedirectPorRol(t *testing.T) {
	assert.Equal(t, "/admin/panel", RedirectPorRol(RolAdmin, false))
	assert.Equal(t, "/soporte/panel", RedirectPorRol(RolTecnico, false))
	assert.Equal(t, "/proveedores/perfil", RedirectPorRol(RolComerciante, true))
	assert.Equal(t, "/foro", RedirectPorRol(RolComerciante, false))
}

func TestActualizarInteresesYPerfil(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	rec := httptest.NewRecorder()
	h.Registro(rec, peticionJSON(t, http.MethodPost, "/registro", registroValido()))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, err := h.Repository.BuscarPorEmail(h.DB, "maria@almacen.cl")
	require.NoError(t, err)

	req := peticionJSON(t, http.MethodPut, "/perfil/intereses", InteresesRequest{
		Intereses: []string{"ALIMENTOS", "BEBIDAS"},
	})
	req = req.WithContext(context.WithValue(req.Context(), auth.CtxComercianteID, c.ID))

	rec = httptest.NewRecorder()
	h.ActualizarIntereses(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var perfil PerfilResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&perfil))
	assert.Equal(t, []string{"ALIMENTOS", "BEBIDAS"}, perfil.Intereses)
}
