// Package workday genera los artefactos de pago en el formato que consume
// la integración Workday (simulada) y entrega las notificaciones de envío.
package workday

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// paymentFile son los campos del artefacto, idénticos en XML y JSON.
// El espejo JSON envuelve estos campos bajo la clave raíz "Payment".
type paymentFile struct {
	ID        string `json:"ID"`
	InvoiceID string `json:"InvoiceID"`
	VendorID  string `json:"VendorID"`
	Amount    string `json:"Amount"`
	Currency  string `json:"Currency"`
	Status    string `json:"Status"`
	Timestamp string `json:"Timestamp"`
}

// FileBuilder construye el par XML/JSON de un pago. El timestamp se toma del
// reloj en cada invocación (dos renders del mismo pago difieren solo en eso).
type FileBuilder struct {
	now func() time.Time
}

// NewFileBuilder construye el generador con el reloj del sistema.
func NewFileBuilder() *FileBuilder {
	return &FileBuilder{now: func() time.Time { return time.Now().UTC() }}
}

// NewFileBuilderWithClock permite fijar el reloj (tests).
func NewFileBuilderWithClock(now func() time.Time) *FileBuilder {
	return &FileBuilder{now: now}
}

// Build genera el XML y su espejo JSON para un pago. Ambos artefactos llevan
// exactamente los mismos valores, monto con dos decimales.
func (b *FileBuilder) Build(p *entity.Payment) (xmlData, jsonData []byte, err error) {
	file := paymentFile{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		VendorID:  p.VendorID,
		Amount:    p.Amount.StringFixed(2),
		Currency:  p.Currency,
		Status:    string(p.Status),
		Timestamp: b.now().Format(time.RFC3339),
	}

	xmlData, err = buildXML(file)
	if err != nil {
		return nil, nil, fmt.Errorf("build payment xml: %w", err)
	}

	jsonData, err = json.MarshalIndent(map[string]paymentFile{"Payment": file}, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("build payment json: %w", err)
	}
	return xmlData, jsonData, nil
}

func buildXML(file paymentFile) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Payment")
	root.CreateElement("ID").SetText(file.ID)
	root.CreateElement("InvoiceID").SetText(file.InvoiceID)
	root.CreateElement("VendorID").SetText(file.VendorID)
	root.CreateElement("Amount").SetText(file.Amount)
	root.CreateElement("Currency").SetText(file.Currency)
	root.CreateElement("Status").SetText(file.Status)
	root.CreateElement("Timestamp").SetText(file.Timestamp)

	doc.Indent(2)
	return doc.WriteToBytes()
}
