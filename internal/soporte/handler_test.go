package soporte

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

	require.NoError(t, db.AutoMigrate(&comerciante.Comerciante{}, &TicketSoporte{}))
	return db
}

func sesion(r *http.Request, id uint) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), auth.CtxComercianteID, id))
}

func crearTicket(t *testing.T, h *Handler, comercianteID uint) TicketSoporte {
	t.Helper()
	datos, err := json.Marshal(TicketRequest{
		Asunto:      "No puedo subir mi foto",
		Descripcion: "Al subir la foto de perfil aparece un error de tamaño.",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Crear(rec, sesion(httptest.NewRequest(http.MethodPost, "/soporte/tickets", bytes.NewReader(datos)), comercianteID))
	require.Equal(t, http.StatusCreated, rec.Code)

	var ticket TicketSoporte
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ticket))
	assert.Equal(t, EstadoAbierto, ticket.Estado)
	return ticket
}

func accionar(t *testing.T, h *Handler, ticketID, tecnicoID uint, accion string) *httptest.ResponseRecorder {
	t.Helper()
	datos, err := json.Marshal(AccionRequest{Accion: accion})
	require.NoError(t, err)

	req := sesion(httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(datos)), tecnicoID)
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(ticketID)})
	rec := httptest.NewRecorder()
	h.Accion(rec, req)
	return rec
}

func TestFlujoDeAcciones(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, zap.NewNop())
	ticket := crearTicket(t, h, 1)

	const tecnico = 9

	require.Equal(t, http.StatusOK, accionar(t, h, ticket.ID, tecnico, "tomar").Code)
	guardado, err := h.Repository.BuscarPorID(h.DB, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoEnProceso, guardado.Estado)
	require.NotNil(t, guardado.TecnicoID)
	assert.EqualValues(t, tecnico, *guardado.TecnicoID)

	require.Equal(t, http.StatusOK, accionar(t, h, ticket.ID, tecnico, "resolver").Code)
	guardado, _ = h.Repository.BuscarPorID(h.DB, ticket.ID)
	assert.Equal(t, EstadoResuelto, guardado.Estado)

	require.Equal(t, http.StatusOK, accionar(t, h, ticket.ID, tecnico, "cerrar").Code)
	guardado, _ = h.Repository.BuscarPorID(h.DB, ticket.ID)
	assert.Equal(t, EstadoCerrado, guardado.Estado)
}

func TestAccionesPermisivasDesdeCualquierEstado(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, zap.NewNop())
	ticket := crearTicket(t, h, 1)

	// cerrar directamente desde ABIERTO está permitido
	require.Equal(t, http.StatusOK, accionar(t, h, ticket.ID, 9, "cerrar").Code)

	// y se puede retomar un ticket cerrado; el técnico que actúa queda estampado
	require.Equal(t, http.StatusOK, accionar(t, h, ticket.ID, 10, "tomar").Code)
	guardado, err := h.Repository.BuscarPorID(h.DB, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoEnProceso, guardado.Estado)
	assert.EqualValues(t, 10, *guardado.TecnicoID)
}

func TestAccionDesconocidaNoCambiaNada(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, zap.NewNop())
	ticket := crearTicket(t, h, 1)

	rec := accionar(t, h, ticket.ID, 9, "archivar")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	guardado, err := h.Repository.BuscarPorID(h.DB, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoAbierto, guardado.Estado)
	assert.Nil(t, guardado.TecnicoID)
}

func TestPanelYMisTickets(t *testing.T) {
	db := abrirDB(t)
	h := NewHandler(db, zap.NewNop())
	crearTicket(t, h, 1)
	crearTicket(t, h, 2)

	rec := httptest.NewRecorder()
	h.Panel(rec, httptest.NewRequest(http.MethodGet, "/soporte/panel", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var panel struct {
		Tickets []TicketSoporte `json:"tickets"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&panel))
	assert.Len(t, panel.Tickets, 2)

	rec = httptest.NewRecorder()
	h.MisTickets(rec, sesion(httptest.NewRequest(http.MethodGet, "/soporte/tickets", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)
	var mios struct {
		Tickets []TicketSoporte `json:"tickets"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&mios))
	assert.Len(t, mios.Tickets, 1)
}
