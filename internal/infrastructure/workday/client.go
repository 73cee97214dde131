package workday

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

const deliveryTimeout = 30 * time.Second

// Client notifica a la integración Workday (simulada) que los artefactos de
// un pago están disponibles. Workday responde luego con el callback de
// confirmación sobre la API.
type Client struct {
	callbackURL string
	log         *logger.Logger
}

// NewClient construye el cliente apuntando a la URL de callback configurada.
func NewClient(callbackURL string, log *logger.Logger) *Client {
	return &Client{callbackURL: callbackURL, log: log}
}

// Deliver envía la notificación de entrega de un pago. Cualquier respuesta
// fuera de 2xx se reporta como domain.ErrDependencyFailure para que el
// monitor la cuente como fallo de entrega sin abortar el ciclo.
func (c *Client) Deliver(ctx context.Context, p *entity.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(c.callbackURL)
	agent.Timeout(deliveryTimeout)
	agent.JSON(fiber.Map{
		"payment_id": p.ID,
		"status":     "sent",
	})

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("deliver payment %s: %v: %w", p.ID, errs[0], domain.ErrDependencyFailure)
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("deliver payment %s: unexpected status %d: %w", p.ID, code, domain.ErrDependencyFailure)
	}

	c.log.Debug().
		Str("payment_id", p.ID).
		Int("status_code", code).
		Msg("entrega notificada a workday")
	return nil
}
