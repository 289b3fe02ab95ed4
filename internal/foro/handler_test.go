package foro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clubalmacen/api-comunidad/internal/auth"
	"github.com/clubalmacen/api-comunidad/internal/comerciante"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
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

	require.NoError(t, db.AutoMigrate(&comerciante.Comerciante{}, &Publicacion{}, &Comentario{}, &Like{}))
	return db
}

func crearComerciante(t *testing.T, db *gorm.DB, email, rol string) comerciante.Comerciante {
	t.Helper()
	c := comerciante.Comerciante{
		NombreApellido: "Socio " + email,
		Email:          email,
		PasswordHash:   "x",
		Rol:            rol,
		NivelActual:    comerciante.NivelBronce,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func sesionDe(r *http.Request, c comerciante.Comerciante) *http.Request {
	ctx := context.WithValue(r.Context(), auth.CtxComercianteID, c.ID)
	ctx = context.WithValue(ctx, auth.CtxRol, c.Rol)
	return r.WithContext(ctx)
}

func peticionJSON(t *testing.T, metodo, ruta string, cuerpo interface{}) *http.Request {
	t.Helper()
	datos, err := json.Marshal(cuerpo)
	require.NoError(t, err)
	return httptest.NewRequest(metodo, ruta, bytes.NewReader(datos))
}

func TestCrearPublicacionRespetaParticion(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, nil, nil, zap.NewNop(), 5<<20)

	socio := crearComerciante(t, db, "socio@almacen.cl", comerciante.RolComerciante)
	admin := crearComerciante(t, db, "admin@almacen.cl", comerciante.RolAdmin)

	// un comerciante no puede usar una categoría oficial
	req := sesionDe(peticionJSON(t, http.MethodPost, "/foro/publicaciones", PublicacionRequest{
		Contenido: "Anuncio pirata", Categoria: "NOTICIAS_CA",
	}), socio)
	rec := httptest.NewRecorder()
	h.CrearPublicacion(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// un ADMIN no puede usar una categoría de la comunidad
	req = sesionDe(peticionJSON(t, http.MethodPost, "/foro/publicaciones", PublicacionRequest{
		Contenido: "Hola a todos", Categoria: "DUDA",
	}), admin)
	rec = httptest.NewRecorder()
	h.CrearPublicacion(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// ninguno de los rechazos dejó filas
	var total int64
	require.NoError(t, db.Model(&Publicacion{}).Count(&total).Error)
	assert.Zero(t, total)

	// los casos permitidos sí crean
	req = sesionDe(peticionJSON(t, http.MethodPost, "/foro/publicaciones", PublicacionRequest{
		Contenido: "¿Dónde compro balanzas?", Categoria: "duda",
	}), socio)
	rec = httptest.NewRecorder()
	h.CrearPublicacion(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = sesionDe(peticionJSON(t, http.MethodPost, "/foro/publicaciones", PublicacionRequest{
		Contenido: "Nuevo calendario de despachos", Categoria: "DESPACHOS",
	}), admin)
	rec = httptest.NewRecorder()
	h.CrearPublicacion(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestListarSeparaParticiones(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, nil, nil, zap.NewNop(), 5<<20)

	socio := crearComerciante(t, db, "socio@almacen.cl", comerciante.RolComerciante)
	require.NoError(t, db.Create(&Publicacion{ComercianteID: socio.ID, Contenido: "duda", Categoria: "DUDA"}).Error)
	require.NoError(t, db.Create(&Publicacion{ComercianteID: socio.ID, Contenido: "opinión", Categoria: "OPINION"}).Error)
	require.NoError(t, db.Create(&Publicacion{ComercianteID: socio.ID, Contenido: "oficial", Categoria: "NOTICIAS_CA"}).Error)

	rec := httptest.NewRecorder()
	h.Listar(rec, httptest.NewRequest(http.MethodGet, "/foro", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ForoResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, FiltroComunidad, resp.TipoFiltro)
	assert.Len(t, resp.Publicaciones, 2)

	rec = httptest.NewRecorder()
	h.Listar(rec, httptest.NewRequest(http.MethodGet, "/foro?tipo_filtro=admin", nil))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Publicaciones, 1)
	assert.Equal(t, "NOTICIAS_CA", resp.Publicaciones[0].Categoria)

	// una categoría fuera de la partición activa entrega la partición completa
	rec = httptest.NewRecorder()
	h.Listar(rec, httptest.NewRequest(http.MethodGet, "/foro?categoria=NOTICIAS_CA", nil))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Publicaciones, 2)
	assert.Empty(t, resp.Categoria)

	rec = httptest.NewRecorder()
	h.Listar(rec, httptest.NewRequest(http.MethodGet, "/foro?categoria=DUDA", nil))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Publicaciones, 1)
	assert.Equal(t, "DUDA", resp.Categoria)
}

func TestToggleLikeAlterna(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, nil, nil, zap.NewNop(), 5<<20)

	socio := crearComerciante(t, db, "socio@almacen.cl", comerciante.RolComerciante)
	p := Publicacion{ComercianteID: socio.ID, Contenido: "hola", Categoria: "GENERAL"}
	require.NoError(t, db.Create(&p).Error)

	dar := func() map[string]interface{} {
		req := sesionDe(httptest.NewRequest(http.MethodPost, "/foro/publicaciones/1/like", nil), socio)
		req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(p.ID)})
		rec := httptest.NewRecorder()
		h.ToggleLike(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp
	}

	primera := dar()
	assert.Equal(t, true, primera["meGusta"])
	assert.EqualValues(t, 1, primera["totalLikes"])

	segunda := dar()
	assert.Equal(t, false, segunda["meGusta"])
	assert.EqualValues(t, 0, segunda["totalLikes"])

	tercera := dar()
	assert.Equal(t, true, tercera["meGusta"])
}

func TestComentarYContar(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, nil, nil, zap.NewNop(), 5<<20)

	socio := crearComerciante(t, db, "socio@almacen.cl", comerciante.RolComerciante)
	p := Publicacion{ComercianteID: socio.ID, Contenido: "hola", Categoria: "GENERAL"}
	require.NoError(t, db.Create(&p).Error)

	req := sesionDe(peticionJSON(t, http.MethodPost, "/x", ComentarioRequest{Contenido: "¡Bienvenida!"}), socio)
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(p.ID)})
	rec := httptest.NewRecorder()
	h.Comentar(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// comentario vacío rechazado
	req = sesionDe(peticionJSON(t, http.MethodPost, "/x", ComentarioRequest{Contenido: "   "}), socio)
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(p.ID)})
	rec = httptest.NewRecorder()
	h.Comentar(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Listar(rec, httptest.NewRequest(http.MethodGet, "/foro", nil))
	var resp ForoResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Publicaciones, 1)
	assert.EqualValues(t, 1, resp.Publicaciones[0].TotalComentarios)
}

func TestEliminarPublicacionSoloAutorOAdmin(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, nil, nil, zap.NewNop(), 5<<20)

	autor := crearComerciante(t, db, "autor@almacen.cl", comerciante.RolComerciante)
	otro := crearComerciante(t, db, "otro@almacen.cl", comerciante.RolComerciante)
	admin := crearComerciante(t, db, "admin@almacen.cl", comerciante.RolAdmin)

	p := Publicacion{ComercianteID: autor.ID, Contenido: "hola", Categoria: "GENERAL"}
	require.NoError(t, db.Create(&p).Error)

	eliminar := func(c comerciante.Comerciante) *httptest.ResponseRecorder {
		req := sesionDe(httptest.NewRequest(http.MethodDelete, "/x", nil), c)
		req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(p.ID)})
		rec := httptest.NewRecorder()
		h.EliminarPublicacion(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, eliminar(otro).Code)

	var total int64
	require.NoError(t, db.Model(&Publicacion{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)

	assert.Equal(t, http.StatusOK, eliminar(admin).Code)
	require.NoError(t, db.Model(&Publicacion{}).Count(&total).Error)
	assert.Zero(t, total)
}
