package promocion

import (
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

	require.NoError(t, db.AutoMigrate(&Promocion{}))
	return db
}

func fecha(t *testing.T, valor string) time.Time {
	t.Helper()
	f, err := time.Parse(formatoFecha, valor)
	require.NoError(t, err)
	return f
}

// Los filtros de vigencia comparan contra fechas guardadas como medianoche
// UTC; el día de consulta debe resolverse por calendario, no por instante.
func TestFiltroVigentesEnZonaLocal(t *testing.T) {
	db := abrirDB(t)
	repo := NewRepository()

	require.NoError(t, repo.Crear(db, &Promocion{
		ProveedorID: 7,
		Titulo:      "Liquidación de temporada",
		FechaInicio: fecha(t, "2026-03-10"),
		FechaFin:    fecha(t, "2026-03-20"),
		Activo:      true,
	}))

	santiago := time.FixedZone("-03", -3*60*60)
	ultimoDia := time.Date(2026, 3, 20, 12, 0, 0, 0, santiago)

	promociones, err := repo.ListarDelProveedor(db, 7, Filtro{Vigencia: "vigentes"}, ultimoDia)
	require.NoError(t, err)
	assert.Len(t, promociones, 1)

	vigentes, err := repo.VigentesDeProveedor(db, 7, ultimoDia)
	require.NoError(t, err)
	assert.Len(t, vigentes, 1)

	total, err := repo.ContarVigentes(db, 7, ultimoDia)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	diaSiguiente := time.Date(2026, 3, 21, 0, 30, 0, 0, santiago)
	vencidas, err := repo.ListarDelProveedor(db, 7, Filtro{Vigencia: "vencidas"}, diaSiguiente)
	require.NoError(t, err)
	assert.Len(t, vencidas, 1)

	total, err = repo.ContarVigentes(db, 7, diaSiguiente)
	require.NoError(t, err)
	assert.Zero(t, total)
}
