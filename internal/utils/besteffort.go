package utils

import "go.uber.org/zap"

// BestEffort ejecuta una operación secundaria cuyo fallo no debe interrumpir la
// respuesta principal (contadores de visitas, borrado de fotos, feeds externos).
// El error se registra y se descarta.
func BestEffort(logger *zap.Logger, operacion string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("operación best-effort falló",
			zap.String("operacion", operacion),
			zap.Error(err),
		)
	}
}
