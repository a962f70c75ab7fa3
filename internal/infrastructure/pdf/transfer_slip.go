// Package pdf genera la nota de traslado que acompaña físicamente a la mercancía.
//
// Layout de la página A4:
//
//	┌────────────────────────────────────────────────┐
//	│  HEADER: Negocio            │  N° Nota + Fecha │
//	│  ──────────────────────────────────────────────│
//	│  RUTA: Origen → Destino + Estado               │
//	│  TABLA: Cant | Referencia | P.Unit | Valor     │
//	│  ──────────────────────────────────────────────│
//	│  FIRMAS: Entrega / Recibe   │  QR del traslado  │
//	└────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	appinventory "github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/inventory"
)

var _ appinventory.SlipGenerator = (*SlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var locationNames = map[entity.Location]string{
	entity.LocationManufacturing: "taller de producción",
	entity.LocationTransit:       "en tránsito",
	entity.LocationWholesale:     "bodega mayorista",
	entity.LocationRetail:        "tienda al detal",
}

var statusNames = map[entity.TransferStatus]string{
	entity.TransferStatusPending:   "PENDIENTE DE RECIBO",
	entity.TransferStatusCompleted: "RECIBIDO",
	entity.TransferStatusCancelled: "ANULADO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// SlipGenerator implementa inventory.SlipGenerator usando Maroto v2.
type SlipGenerator struct{}

// NewSlipGenerator construye el generador.
func NewSlipGenerator() *SlipGenerator { return &SlipGenerator{} }

// GenerateTransferSlip genera el PDF y devuelve sus bytes.
func (g *SlipGenerator) GenerateTransferSlip(ctx context.Context, data appinventory.SlipData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if data.Transfer == nil || data.Product == nil {
		return nil, fmt.Errorf("pdf: traslado y producto son obligatorios")
	}
	t := data.Transfer

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de traslado "+slipNumber(t.ID), true).
		WithAuthor(data.BusinessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(t, data.Product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if t.Notes != nil && *t.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Observaciones: "+*t.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(signatureRow(t))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y N° de nota + fecha (der).
func headerRow(data appinventory.SlipData) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(data.BusinessName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitida: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NOTA DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(slipNumber(data.Transfer.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+data.Transfer.TransferDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// routeRow: origen → destino y estado actual.
func routeRow(t *entity.TransferRecord) core.Row {
	// cases.Caser no es seguro entre goroutines; uno por documento.
	title := cases.Title(language.Spanish)
	return row.New(14).Add(
		col.New(8).Add(
			text.New("RUTA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  →  %s", locationLabel(title, t.FromLocation), locationLabel(title, t.ToLocation)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New(statusNames[t.Status], props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Referencia", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Valor", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func detailRow(t *entity.TransferRecord, p *entity.Product) core.Row {
	value := inventory.DeclaredValue(t.Quantity, p.UnitPrice)
	return row.New(10).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", t.Quantity), props.Text{Size: 9, Align: align.Center, Top: 2})),
		col.New(5).Add(
			text.New(p.SKU, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1}),
			text.New(p.Name, props.Text{Size: 8, Top: 5, Left: 1}),
		),
		col.New(2).Add(text.New("$"+formatMoney(p.UnitPrice.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 2, Right: 1})),
		col.New(3).Add(text.New("$"+formatMoney(value.StringFixed(0)), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1})),
	)
}

// signatureRow: espacios de firma y QR con el ID del traslado para confirmarlo al recibir.
func signatureRow(t *entity.TransferRecord) core.Row {
	return row.New(36).Add(
		col.New(4).Add(
			text.New("______________________", props.Text{Size: 8, Top: 20, Align: align.Center}),
			text.New("Entrega", props.Text{Size: 8, Top: 25, Align: align.Center, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("______________________", props.Text{Size: 8, Top: 20, Align: align.Center}),
			text.New("Recibe", props.Text{Size: 8, Top: 25, Align: align.Center, Color: colorGray}),
		),
		col.New(4).Add(code.NewQr(t.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func locationLabel(title cases.Caser, l entity.Location) string {
	if name, ok := locationNames[l]; ok {
		return title.String(name)
	}
	return l.String()
}

// slipNumber número corto visible en la nota: TR-<primeros 8 del ID>.
func slipNumber(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "TR-" + id
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
