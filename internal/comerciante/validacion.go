package comerciante

import (
	"errors"
	"strings"
)

// ValidarWhatsapp acepta únicamente números chilenos con la forma exacta
// +569XXXXXXXX (12 caracteres en total).
func ValidarWhatsapp(whatsapp string) error {
	if whatsapp == "" {
		return errors.New("El número de WhatsApp es obligatorio.")
	}
	if !strings.HasPrefix(whatsapp, "+569") {
		return errors.New("El WhatsApp debe comenzar con +569 seguido de 8 dígitos.")
	}
	if len(whatsapp) != 12 {
		return errors.New("El formato debe ser +569XXXXXXXX (12 caracteres).")
	}
	for _, c := range whatsapp[4:] {
		if c < '0' || c > '9' {
			return errors.New("Los últimos 8 caracteres deben ser números.")
		}
	}
	return nil
}
