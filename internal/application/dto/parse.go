package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// ParseAmount convierte un monto decimal recibido como string.
// Envuelve domain.ErrInvalidInput ante formato inválido o valor no positivo.
func ParseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a valid amount: %w", field, value, domain.ErrInvalidInput)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%s must be positive, got %s: %w", field, value, domain.ErrInvalidInput)
	}
	return d, nil
}

// ParseLineItems valida y convierte las líneas de una petición. Si una línea
// no trae total se calcula como cantidad por precio unitario; si lo trae,
// debe coincidir con ese producto.
func ParseLineItems(items []LineItemRequest) ([]entity.LineItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one line item is required: %w", domain.ErrInvalidInput)
	}

	out := make([]entity.LineItem, 0, len(items))
	for i, it := range items {
		if it.Description == "" {
			return nil, fmt.Errorf("line %d: description is required: %w", i+1, domain.ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be positive: %w", i+1, domain.ErrInvalidInput)
		}
		price, err := ParseAmount(fmt.Sprintf("line %d unit_price", i+1), it.UnitPrice)
		if err != nil {
			return nil, err
		}

		computed := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total := computed
		if it.TotalAmount != "" {
			total, err = ParseAmount(fmt.Sprintf("line %d total_amount", i+1), it.TotalAmount)
			if err != nil {
				return nil, err
			}
			if !total.Equal(computed) {
				return nil, fmt.Errorf("line %d: total %s does not equal quantity * unit_price (%s): %w",
					i+1, total, computed, domain.ErrInvalidInput)
			}
		}

		out = append(out, entity.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			TotalAmount: total,
		})
	}
	return out, nil
}
