package notificacion

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Webhook avisa a un canal externo (Slack, Discord, etc.) cuando se abre un
// ticket de soporte. Con la URL vacía queda deshabilitado.
type Webhook struct {
	url     string
	cliente *http.Client
	log     *zap.Logger
}

func NewWebhook(url string, log *zap.Logger) *Webhook {
	return &Webhook{
		url:     url,
		cliente: &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

// TicketAbierto envía la alerta de nuevo ticket. Es best-effort: un webhook
// caído nunca debe impedir la creación del ticket.
func (w *Webhook) TicketAbierto(ticketID uint, asunto string) {
	if w.url == "" {
		return
	}

	payload := map[string]interface{}{
		"mensaje":  "Nuevo ticket de soporte abierto",
		"ticketId": ticketID,
		"asunto":   asunto,
	}
	cuerpo, err := json.Marshal(payload)
	if err != nil {
		return
	}

	resp, err := w.cliente.Post(w.url, "application/json", bytes.NewReader(cuerpo))
	if err != nil {
		w.log.Warn("error al enviar webhook de soporte", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		w.log.Warn("el webhook de soporte respondió con error",
			zap.Int("status", resp.StatusCode))
	}
}
