package aviso

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clubalmacen/api-comunidad/internal/auth"
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

	require.NoError(t, db.AutoMigrate(&Aviso{}, &AvisoLeido{}))
	return db
}

func sembrarAvisos(t *testing.T, db *gorm.DB) {
	t.Helper()
	manana := time.Now().AddDate(0, 0, 1)
	ayer := time.Now().AddDate(0, 0, -1)

	require.NoError(t, db.Create(&Aviso{Titulo: "Permanente", Contenido: "sin vencimiento"}).Error)
	require.NoError(t, db.Create(&Aviso{Titulo: "Por vencer", Contenido: "vence mañana", Vence: &manana}).Error)
	require.NoError(t, db.Create(&Aviso{Titulo: "Vencido", Contenido: "venció ayer", Vence: &ayer}).Error)
}

func sesion(r *http.Request, comercianteID uint) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), auth.CtxComercianteID, comercianteID))
}

func noLeidos(t *testing.T, h *Handler, comercianteID uint) int64 {
	t.Helper()
	rec := httptest.NewRecorder()
	h.NoLeidos(rec, sesion(httptest.NewRequest(http.MethodGet, "/avisos/no-leidos", nil), comercianteID))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		NoLeidos int64 `json:"noLeidos"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.NoLeidos
}

func TestListarMarcaLeidosYElContadorSePoneEnCero(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, zap.NewNop())
	sembrarAvisos(t, db)

	// el vencido no cuenta como pendiente
	assert.EqualValues(t, 2, noLeidos(t, h, 1))

	rec := httptest.NewRecorder()
	h.Listar(rec, sesion(httptest.NewRequest(http.MethodGet, "/avisos", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Avisos []Aviso `json:"avisos"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Avisos, 2)

	assert.Zero(t, noLeidos(t, h, 1))

	// listar de nuevo es idempotente
	rec = httptest.NewRecorder()
	h.Listar(rec, sesion(httptest.NewRequest(http.MethodGet, "/avisos", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)

	var lecturas int64
	require.NoError(t, db.Model(&AvisoLeido{}).Where("comerciante_id = ?", 1).Count(&lecturas).Error)
	assert.EqualValues(t, 2, lecturas)

	// otro comerciante mantiene sus pendientes
	assert.EqualValues(t, 2, noLeidos(t, h, 2))
}

func TestAvisoNuevoVuelveASumar(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, zap.NewNop())
	sembrarAvisos(t, db)

	rec := httptest.NewRecorder()
	h.Listar(rec, sesion(httptest.NewRequest(http.MethodGet, "/avisos", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, noLeidos(t, h, 1))

	require.NoError(t, db.Create(&Aviso{Titulo: "Recién publicado", Contenido: "nuevo"}).Error)
	assert.EqualValues(t, 1, noLeidos(t, h, 1))
}

func TestEstaVigente(t *testing.T) {
	hoy := time.Now()
	assert.True(t, Aviso{}.EstaVigente(hoy))

	mismoDia := hoy
	assert.True(t, Aviso{Vence: &mismoDia}.EstaVigente(hoy))

	ayer := hoy.AddDate(0, 0, -1)
	assert.False(t, Aviso{Vence: &ayer}.EstaVigente(hoy))
}

// El vencimiento se guarda como medianoche UTC; el aviso rige su último día
// completo aunque el servidor corra al oeste de UTC.
func TestAvisoVigenteSuUltimoDiaEnZonaLocal(t *testing.T) {
	vence, err := time.Parse("2006-01-02", "2026-03-20")
	require.NoError(t, err)
	santiago := time.FixedZone("-03", -3*60*60)

	a := Aviso{Vence: &vence}
	assert.True(t, a.EstaVigente(time.Date(2026, 3, 20, 12, 0, 0, 0, santiago)))
	assert.False(t, a.EstaVigente(time.Date(2026, 3, 21, 0, 30, 0, 0, santiago)))
}

func TestListarVigentesYContarEnZonaLocal(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	vence, err := time.Parse("2006-01-02", "2026-03-20")
	require.NoError(t, err)
	require.NoError(t, db.Create(&Aviso{Titulo: "Cierra hoy", Contenido: "último día", Vence: &vence}).Error)

	santiago := time.FixedZone("-03", -3*60*60)
	mediodia := time.Date(2026, 3, 20, 12, 0, 0, 0, santiago)

	avisos, err := repo.ListarVigentes(db, mediodia)
	require.NoError(t, err)
	assert.Len(t, avisos, 1)

	total, err := repo.ContarNoLeidos(db, 1, mediodia)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	diaSiguiente := time.Date(2026, 3, 21, 0, 30, 0, 0, santiago)
	avisos, err = repo.ListarVigentes(db, diaSiguiente)
	require.NoError(t, err)
	assert.Empty(t, avisos)
}
