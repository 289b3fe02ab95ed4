package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims del token de sesión (incluye RBAC simple: rol + bandera de proveedor).
type Claims struct {
	ComercianteID uint   `json:"comercianteId"`
	Rol           string `json:"rol"`
	EsProveedor   bool   `json:"esProveedor"`
	jwt.RegisteredClaims
}

type Emisor struct {
	secreto []byte
	ttl     time.Duration
}

// NewEmisor crea el emisor/validador de tokens de sesión HS256.
func NewEmisor(secreto string, ttl time.Duration) *Emisor {
	return &Emisor{secreto: []byte(secreto), ttl: ttl}
}

// GenerarToken firma un JWT de sesión para el comerciante autenticado.
func (e *Emisor) GenerarToken(comercianteID uint, rol string, esProveedor bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		ComercianteID: comercianteID,
		Rol:           rol,
		EsProveedor:   esProveedor,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(e.secreto)
}

// ValidarToken valida firma y expiración, y devuelve las claims.
func (e *Emisor) ValidarToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return e.secreto, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("token inválido o expirado")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("no fue posible extraer las claims")
	}
	return claims, nil
}
