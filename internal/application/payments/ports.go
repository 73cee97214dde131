package payments

import "github.com/tu-usuario/p2p-automation/internal/domain/entity"

// FileBuilder genera el par de artefactos (XML y espejo JSON) de un pago.
type FileBuilder interface {
	Build(p *entity.Payment) (xmlData, jsonData []byte, err error)
}

// KeyPrefix es la raíz de todos los artefactos de pago en el blob store.
const KeyPrefix = "payments/"

// XMLKeyFor devuelve la clave del artefacto XML de un pago.
func XMLKeyFor(paymentID string) string { return KeyPrefix + paymentID + "/payment.xml" }

// JSONKeyFor devuelve la clave del espejo JSON de un pago.
func JSONKeyFor(paymentID string) string { return KeyPrefix + paymentID + "/payment.json" }
