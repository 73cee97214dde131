package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Moneda fija del alcance actual.
const CurrencyUSD = "USD"

// Payment es el registro de pago creado al aprobar una factura conciliada.
// Se crea exactamente una vez por factura (InvoiceID es clave de unicidad).
type Payment struct {
	ID        string
	InvoiceID string
	VendorID  string
	Amount    decimal.Decimal // > 0
	Currency  string          // "USD"
	Status    PaymentStatus
	ApprovedAt time.Time

	// Claves de los artefactos generados en el blob store (vacías hasta
	// que la generación/subida complete; un pago approved sin claves es
	// un estado parcial recuperable, no un error fatal).
	XMLKey  string
	JSONKey string

	// Confirmación del sistema externo (Workday simulado).
	WorkdayConfirmedAt      *time.Time
	WorkdayCallbackReceived bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
