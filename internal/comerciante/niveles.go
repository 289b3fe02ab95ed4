package comerciante

import "time"

// Niveles de gamificación, en orden ascendente. Cada nivel se alcanza cada
// UmbralPuntos puntos; DIAMANTE es terminal.
const (
	NivelBronce   = "BRONCE"
	NivelPlata    = "PLATA"
	NivelOro      = "ORO"
	NivelDiamante = "DIAMANTE"
)

var Niveles = []string{NivelBronce, NivelPlata, NivelOro, NivelDiamante}

var nombresNiveles = map[string]string{
	NivelBronce:   "Bronce",
	NivelPlata:    "Plata",
	NivelOro:      "Oro",
	NivelDiamante: "Diamante",
}

const UmbralPuntos = 100

// Progreso resume el estado de gamificación de un comerciante.
type Progreso struct {
	NivelCodigo          string `json:"nivelCodigo"`
	PuntosRestantes      int    `json:"puntosRestantes"`
	PuntosSiguienteNivel int    `json:"puntosSiguienteNivel"`
	ProgresoPorcentaje   int    `json:"progresoPorcentaje"`
	ProximoNivel         string `json:"proximoNivel"`
}

// CalcularNivelYProgreso deriva el nivel y el avance hacia el siguiente a partir
// de los puntos acumulados.
func CalcularNivelYProgreso(puntos int) Progreso {
	maxIndex := len(Niveles) - 1
	nivelIndex := puntos / UmbralPuntos
	if nivelIndex > maxIndex {
		nivelIndex = maxIndex
	}
	codigo := Niveles[nivelIndex]

	if codigo == NivelDiamante {
		return Progreso{
			NivelCodigo:          codigo,
			PuntosRestantes:      0,
			PuntosSiguienteNivel: puntos,
			ProgresoPorcentaje:   100,
			ProximoNivel:         "Máximo",
		}
	}

	umbralActual := nivelIndex * UmbralPuntos
	umbralSiguiente := (nivelIndex + 1) * UmbralPuntos
	puntosEnNivel := puntos - umbralActual

	return Progreso{
		NivelCodigo:          codigo,
		PuntosRestantes:      umbralSiguiente - puntos,
		PuntosSiguienteNivel: umbralSiguiente,
		ProgresoPorcentaje:   puntosEnNivel * 100 / UmbralPuntos,
		ProximoNivel:         nombresNiveles[Niveles[nivelIndex+1]],
	}
}

// NombreNivel devuelve el nombre legible de un código de nivel.
func NombreNivel(codigo string) string {
	if nombre, ok := nombresNiveles[codigo]; ok {
		return nombre
	}
	return "Desconocido"
}

// EstaOnline considera conectado a quien registró actividad hace menos de 5 minutos.
func EstaOnline(ultimaConexion *time.Time) bool {
	if ultimaConexion == nil {
		return false
	}
	return time.Since(*ultimaConexion) < 5*time.Minute
}
