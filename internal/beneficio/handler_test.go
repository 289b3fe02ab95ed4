package beneficio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Beneficio{}))
	return db
}

func sembrar(t *testing.T, db *gorm.DB) {
	t.Helper()
	vencePronto := time.Now().AddDate(0, 0, 7)
	venceLejos := time.Now().AddDate(0, 3, 0)

	beneficios := []Beneficio{
		{Titulo: "Descuento mayorista", Categoria: "DESCUENTOS", PuntosRequeridos: 50, Vence: &venceLejos},
		{Titulo: "Curso de inventario", Categoria: "CAPACITACIONES", PuntosRequeridos: 200, Vence: &vencePronto},
		{Titulo: "Beneficio apagado", Categoria: "DESCUENTOS", Activo: false},
	}
	for i := range beneficios {
		if beneficios[i].Titulo != "Beneficio apagado" {
			beneficios[i].Activo = true
		}
		require.NoError(t, db.Create(&beneficios[i]).Error)
		time.Sleep(2 * time.Millisecond)
	}
}

func listar(t *testing.T, h *Handler, ruta string) []Beneficio {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Listar(rec, httptest.NewRequest(http.MethodGet, ruta, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Beneficios []Beneficio `json:"beneficios"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Beneficios
}

func TestListarExcluyeInactivosYFiltraCategoria(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db)
	sembrar(t, db)

	todos := listar(t, h, "/beneficios")
	assert.Len(t, todos, 2)

	todosExplicito := listar(t, h, "/beneficios?categoria=TODOS")
	assert.Len(t, todosExplicito, 2)

	descuentos := listar(t, h, "/beneficios?categoria=descuentos")
	require.Len(t, descuentos, 1)
	assert.Equal(t, "Descuento mayorista", descuentos[0].Titulo)
}

func TestOrdenConListaBlanca(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db)
	sembrar(t, db)

	porPuntos := listar(t, h, "/beneficios?orden=puntos_requeridos")
	require.Len(t, porPuntos, 2)
	assert.Equal(t, 50, porPuntos[0].PuntosRequeridos)

	porPuntosDesc := listar(t, h, "/beneficios?orden=-puntos_requeridos")
	assert.Equal(t, 200, porPuntosDesc[0].PuntosRequeridos)

	porVencimiento := listar(t, h, "/beneficios?orden=vence")
	assert.Equal(t, "Curso de inventario", porVencimiento[0].Titulo)

	// una clave fuera de la lista blanca cae en "más recientes primero"
	desconocida := listar(t, h, "/beneficios?orden=titulo;DROP")
	recientes := listar(t, h, "/beneficios?orden=-fecha_creacion")
	require.Len(t, desconocida, 2)
	assert.Equal(t, recientes[0].Titulo, desconocida[0].Titulo)
	assert.Equal(t, "Curso de inventario", desconocida[0].Titulo)
}
