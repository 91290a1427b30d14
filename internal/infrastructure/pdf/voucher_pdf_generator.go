// Package pdf implementa la generación del comprobante de dispensación en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hospital + título  │  N° Comprobante + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DISPENSADO POR: nombre, rol, departamento                  │
//	│  DESTINO: departamento, propósito, prioridad                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | SKU | Lote | P.Unit | Subtotal    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: items / unidades / VALOR TOTAL                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: notas + leyenda de auditoría                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	appcart "github.com/medicore/inventario-medico-api/internal/application/cart"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoVoucherGenerator implementa cart.VoucherPDFGenerator usando Maroto v2.
type MarotoVoucherGenerator struct {
	hospitalName string
}

// NewMarotoVoucherGenerator construye el generador con el nombre del hospital
// que encabeza cada comprobante.
func NewMarotoVoucherGenerator(hospitalName string) *MarotoVoucherGenerator {
	return &MarotoVoucherGenerator{hospitalName: hospitalName}
}

var _ appcart.VoucherPDFGenerator = (*MarotoVoucherGenerator)(nil)

// GenerateVoucherPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateVoucherPDF(
	_ context.Context,
	cart *entity.Cart,
	user *entity.User,
	lines []appcart.VoucherLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Dispensación", true).
		WithAuthor(g.hospitalName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.hospitalName, cart))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(dispenserRow(user))
	m.AddRows(destinationRow(cart))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(lines))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(cart) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: hospital + título (izq) y N° de comprobante + fecha (der).
func headerRow(hospitalName string, cart *entity.Cart) core.Row {
	fecha := cart.LastModifiedAt.Format("02/01/2006 15:04")
	if cart.ConfirmedAt != nil {
		fecha = cart.ConfirmedAt.Format("02/01/2006 15:04")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(hospitalName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Suministro de Insumos Médicos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE DISPENSACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("#"+shortID(cart.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// dispenserRow: quién dispensó.
func dispenserRow(user *entity.User) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DISPENSADO POR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(user.FullName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Rol: %s   |   Departamento: %s   |   N° Empleado: %s",
				entity.RoleDescription(user.Role),
				nonEmpty(user.Department, "—"),
				nonEmpty(user.EmployeeID, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// destinationRow: destino y propósito de la dispensación.
func destinationRow(cart *entity.Cart) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Departamento: %s   |   Propósito: %s   |   Prioridad: %s",
				nonEmpty(cart.TargetDepartment, "—"),
				nonEmpty(cart.Purpose, "—"),
				cart.PriorityDescription(),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas dispensadas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("SKU", 2, align.Left),
		h("Lote", 2, align.Left),
		h("P.Unit.", 1, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea dispensada.
func tableDetailRows(lines []appcart.VoucherLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.ProductSKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(l.BatchNumber, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				"$"+l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+l.TotalPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(lines []appcart.VoucherLine) core.Row {
	totalItems := len(lines)
	totalUnits := 0
	total := linesTotal(lines)
	for _, l := range lines {
		totalUnits += l.Quantity
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Productos:"),
			label("Unidades:"),
			grandLabel("VALOR TOTAL:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", totalItems)),
			value(fmt.Sprintf("%d", totalUnits)),
			grandValue("$"+total),
		),
		col.New(3),
	)
}

// footerRows: notas de la dispensación + leyenda de auditoría.
func footerRows(cart *entity.Cart) []core.Row {
	rows := []core.Row{}

	if cart.Notes != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New("Notas:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
			)),
			row.New(6).Add(col.New(12).Add(
				text.New(cart.Notes, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
			)),
		)
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Cada producto de este comprobante generó un movimiento de salida en el "+
				"registro de auditoría de inventario. Conserve este documento como soporte "+
				"de la dispensación.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID primeros 8 caracteres de un UUID, para encabezados legibles.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func linesTotal(lines []appcart.VoucherLine) string {
	if len(lines) == 0 {
		return "0.00"
	}
	total := lines[0].TotalPrice
	for _, l := range lines[1:] {
		total = total.Add(l.TotalPrice)
	}
	return total.StringFixed(2)
}
