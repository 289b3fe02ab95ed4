package comerciante

import "strings"

type RegistroRequest struct {
	NombreApellido    string `json:"nombreApellido" validate:"required,min=3,max=100"`
	Email             string `json:"email" validate:"required,email"`
	Whatsapp          string `json:"whatsapp" validate:"required"`
	Password          string `json:"password" validate:"required,min=8"`
	ConfirmarPassword string `json:"confirmarPassword" validate:"required"`
	RelacionNegocio   string `json:"relacionNegocio" validate:"max=50"`
	TipoNegocio       string `json:"tipoNegocio" validate:"max=50"`
	Comuna            string `json:"comuna" validate:"max=50"`
	NombreNegocio     string `json:"nombreNegocio" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ContactoRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Whatsapp string `json:"whatsapp" validate:"required"`
}

type NegocioRequest struct {
	RelacionNegocio string `json:"relacionNegocio" validate:"max=50"`
	TipoNegocio     string `json:"tipoNegocio" validate:"max=50"`
	Comuna          string `json:"comuna" validate:"max=50"`
	NombreNegocio   string `json:"nombreNegocio" validate:"max=100"`
}

type InteresesRequest struct {
	Intereses []string `json:"intereses" validate:"max=10,dive,max=50"`
}

// PerfilResponse es la vista pública de un comerciante, con su progreso de
// gamificación ya calculado.
type PerfilResponse struct {
	ID              uint     `json:"id"`
	NombreApellido  string   `json:"nombreApellido"`
	Email           string   `json:"email"`
	Whatsapp        string   `json:"whatsapp"`
	Rol             string   `json:"rol"`
	RelacionNegocio string   `json:"relacionNegocio"`
	TipoNegocio     string   `json:"tipoNegocio"`
	Comuna          string   `json:"comuna"`
	NombreNegocio   string   `json:"nombreNegocio"`
	FotoPerfil      string   `json:"fotoPerfil"`
	EsProveedor     bool     `json:"esProveedor"`
	Intereses       []string `json:"intereses"`
	Puntos          int      `json:"puntos"`
	Progreso        Progreso `json:"progreso"`
	Online          bool     `json:"online"`
}

type SesionResponse struct {
	Success     bool           `json:"success"`
	Token       string         `json:"token"`
	Redirect    string         `json:"redirect"`
	Comerciante PerfilResponse `json:"comerciante"`
}

func NuevoPerfilResponse(c Comerciante) PerfilResponse {
	return PerfilResponse{
		ID:              c.ID,
		NombreApellido:  c.NombreApellido,
		Email:           c.Email,
		Whatsapp:        c.Whatsapp,
		Rol:             c.Rol,
		RelacionNegocio: c.RelacionNegocio,
		TipoNegocio:     c.TipoNegocio,
		Comuna:          c.Comuna,
		NombreNegocio:   c.NombreNegocio,
		FotoPerfil:      c.FotoPerfil,
		EsProveedor:     c.EsProveedor,
		Intereses:       SepararIntereses(c.Intereses),
		Puntos:          c.Puntos,
		Progreso:        CalcularNivelYProgreso(c.Puntos),
		Online:          EstaOnline(c.UltimaConexion),
	}
}

// SepararIntereses convierte el CSV persistido en la lista de códigos.
func SepararIntereses(csv string) []string {
	intereses := []string{}
	for _, parte := range strings.Split(csv, ",") {
		if s := strings.TrimSpace(parte); s != "" {
			intereses = append(intereses, s)
		}
	}
	return intereses
}

// UnirIntereses serializa la lista de códigos al CSV persistido.
func UnirIntereses(intereses []string) string {
	limpios := make([]string, 0, len(intereses))
	for _, i := range intereses {
		if s := strings.TrimSpace(i); s != "" {
			limpios = append(limpios, s)
		}
	}
	return strings.Join(limpios, ",")
}
