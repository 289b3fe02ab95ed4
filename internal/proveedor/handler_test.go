package proveedor

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
	"github.com/clubalmacen/api-comunidad/internal/producto"
	"github.com/clubalmacen/api-comunidad/internal/promocion"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type solicitudesFijas struct{ pendientes int64 }

func (s solicitudesFijas) ContarPendientes(*gorm.DB, uint) (int64, error) {
	return s.pendientes, nil
}

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&comerciante.Comerciante{},
		&CategoriaProveedor{},
		&Proveedor{},
		&producto.Producto{},
		&promocion.Promocion{},
	))
	return db
}

func nuevoHandlerPrueba(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(abrirDB(t), solicitudesFijas{pendientes: 2}, nil, zap.NewNop(), 5<<20)
}

func crearComerciante(t *testing.T, db *gorm.DB, email string) comerciante.Comerciante {
	t.Helper()
	c := comerciante.Comerciante{
		NombreApellido: "Socio",
		Email:          email,
		PasswordHash:   "x",
		Whatsapp:       "+56911112222",
		Rol:            comerciante.RolComerciante,
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

func TestCrearPerfilMarcaProveedorYNoDuplica(t *testing.T) {
	h := nuevoHandlerPrueba(t)
	socio := crearComerciante(t, h.DB, "socio@almacen.cl")

	req := sesionDe(peticionJSON(t, http.MethodPost, "/proveedores", PerfilRequest{
		NombreEmpresa: "Distribuidora El Sol",
		Categorias:    []string{"Abarrotes", "Bebidas"},
		Region:        "CL-RM",
		Comuna:        "Santiago",
		Cobertura:     "regional",
	}), socio)
	rec := httptest.NewRecorder()
	h.CrearPerfil(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// el comerciante quedó marcado como proveedor
	duenio, err := h.Comerciantes.BuscarPorID(h.DB, socio.ID)
	require.NoError(t, err)
	assert.True(t, duenio.EsProveedor)

	// el email vacío hereda el del comerciante
	p, err := h.Repository.BuscarPorComerciante(h.DB, socio.ID)
	require.NoError(t, err)
	assert.Equal(t, "socio@almacen.cl", p.Email)
	assert.Len(t, p.Categorias, 2)

	// un segundo intento no crea otro perfil
	req = sesionDe(peticionJSON(t, http.MethodPost, "/proveedores", PerfilRequest{
		NombreEmpresa: "Otra Empresa",
	}), socio)
	rec = httptest.NewRecorder()
	h.CrearPerfil(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "/proveedores/perfil", resp["redirect"])

	var total int64
	require.NoError(t, h.DB.Model(&Proveedor{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func sembrarDirectorio(t *testing.T, h *Handler) {
	t.Helper()
	for i := 0; i < 15; i++ {
		socio := crearComerciante(t, h.DB, fmt.Sprintf("socio%d@almacen.cl", i))
		p := Proveedor{
			ComercianteID: socio.ID,
			NombreEmpresa: fmt.Sprintf("Proveedor %02d", i),
			Email:         socio.Email,
			Region:        "CL-RM",
			Comuna:        "Santiago",
			Cobertura:     "regional",
			Activo:        true,
			Destacado:     i == 5,
		}
		if i == 0 {
			p.Activo = false
		}
		if i == 1 {
			p.Region = "CL-VS"
			p.Comuna = "Valparaíso"
			p.NombreEmpresa = "Pescados del Puerto"
		}
		require.NoError(t, h.DB.Create(&p).Error)
	}
}

func directorio(t *testing.T, h *Handler, ruta string) DirectorioResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Directorio(rec, httptest.NewRequest(http.MethodGet, ruta, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp DirectorioResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestDirectorioPaginaYOrdena(t *testing.T) {
	h := nuevoHandlerPrueba(t)
	sembrarDirectorio(t, h)

	resp := directorio(t, h, "/proveedores")
	assert.EqualValues(t, 14, resp.Total) // el inactivo no aparece
	assert.Equal(t, 2, resp.TotalPaginas)
	require.Len(t, resp.Proveedores, TamanoPagina)
	// el destacado encabeza aunque no sea el más nuevo
	assert.Equal(t, "Proveedor 05", resp.Proveedores[0].NombreEmpresa)

	segunda := directorio(t, h, "/proveedores?page=2")
	assert.Len(t, segunda.Proveedores, 2)
}

func TestDirectorioFiltros(t *testing.T) {
	h := nuevoHandlerPrueba(t)
	sembrarDirectorio(t, h)

	porRegion := directorio(t, h, "/proveedores?region=CL-VS")
	require.Len(t, porRegion.Proveedores, 1)
	assert.Equal(t, "Pescados del Puerto", porRegion.Proveedores[0].NombreEmpresa)

	porTexto := directorio(t, h, "/proveedores?q=pescados")
	require.Len(t, porTexto.Proveedores, 1)
	assert.Equal(t, "Pescados del Puerto", porTexto.Proveedores[0].NombreEmpresa)

	vacio := directorio(t, h, "/proveedores?cobertura=internacional")
	assert.Empty(t, vacio.Proveedores)
}

func TestDetalleCuentaVisitasYOcultaInactivos(t *testing.T) {
	h := nuevoHandlerPrueba(t)
	socio := crearComerciante(t, h.DB, "socio@almacen.cl")
	p := Proveedor{
		ComercianteID: socio.ID,
		NombreEmpresa: "Distribuidora El Sol",
		Email:         socio.Email,
		Activo:        true,
	}
	require.NoError(t, h.DB.Create(&p).Error)

	ver := func(id uint) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/proveedores/1", nil)
		req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(id)})
		rec := httptest.NewRecorder()
		h.Detalle(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, ver(p.ID).Code)
	require.Equal(t, http.StatusOK, ver(p.ID).Code)

	guardado, err := h.Repository.BuscarPorID(h.DB, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, guardado.Visitas)

	require.NoError(t, h.Repository.ActualizarCampos(h.DB, p.ID, map[string]interface{}{"activo": false}))
	assert.Equal(t, http.StatusNotFound, ver(p.ID).Code)
}

func TestComunasAjax(t *testing.T) {
	h := nuevoHandlerPrueba(t)

	rec := httptest.NewRecorder()
	h.Comunas(rec, httptest.NewRequest(http.MethodGet, "/ubicaciones/comunas?region=CL-BI", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Comunas []string `json:"comunas"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"Concepción", "Talcahuano", "Los Ángeles"}, resp.Comunas)

	rec = httptest.NewRecorder()
	h.Comunas(rec, httptest.NewRequest(http.MethodGet, "/ubicaciones/comunas", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Comunas(rec, httptest.NewRequest(http.MethodGet, "/ubicaciones/comunas?region=CL-XX", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasaAceptacion(t *testing.T) {
	assert.Equal(t, 0, Proveedor{}.TasaAceptacion())
	assert.Equal(t, 50, Proveedor{ContactosEnviados: 4, ContactosAceptados: 2}.TasaAceptacion())
	assert.Equal(t, 100, Proveedor{ContactosEnviados: 3, ContactosAceptados: 3}.TasaAceptacion())
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "articulos-de-aseo", Slug("Artículos de Aseo"))
	assert.Equal(t, "panaderia", Slug(" Panadería "))
}
