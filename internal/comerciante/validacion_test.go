package comerciante

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidarWhatsapp(t *testing.T) {
	casos := []struct {
		nombre   string
		whatsapp string
		valido   bool
	}{
		{"valido", "+56912345678", true},
		{"vacio", "", false},
		{"sin prefijo chileno", "+57912345678", false},
		{"prefijo movil incorrecto", "+56812345678", false},
		{"muy corto", "+5691234567", false},
		{"muy largo", "+569123456789", false},
		{"con letras al final", "+5691234567a", false},
		{"con espacios", "+569 1234567", false},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			err := ValidarWhatsapp(c.whatsapp)
			if c.valido {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
