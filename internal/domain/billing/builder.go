// Package billing contiene el servicio de dominio que valida y totaliza facturas.
package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

// OverpaymentPolicy qué hacer cuando el pagado supera el total de la factura.
type OverpaymentPolicy string

const (
	// OverpaymentClamp acepta la factura con crédito 0 y registra el excedente.
	OverpaymentClamp OverpaymentPolicy = "clamp"
	// OverpaymentReject rechaza la factura con ErrBillOverpaid.
	OverpaymentReject OverpaymentPolicy = "reject"
)

// ParseOverpaymentPolicy interpreta el valor de configuración; vacío equivale a clamp.
func ParseOverpaymentPolicy(s string) (OverpaymentPolicy, error) {
	switch OverpaymentPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OverpaymentClamp:
		return OverpaymentClamp, nil
	case OverpaymentReject:
		return OverpaymentReject, nil
	}
	return "", fmt.Errorf("política de sobrepago desconocida %q", s)
}

// ItemInput línea cruda tal como llega del formulario.
type ItemInput struct {
	Name     string
	Quantity decimal.Decimal
	Price    money.Money
}

// Draft factura validada y totalizada, aún sin ID ni fecha.
type Draft struct {
	Items    []entity.LineItem
	Subtotal money.Money
	Discount money.Money
	Total    money.Money
	Paid     money.Money
	Credit   money.Money
	Excess   money.Money
}

// Builder valida y totaliza líneas de factura.
type Builder struct {
	policy OverpaymentPolicy
}

// NewBuilder construye el servicio; una política vacía equivale a clamp.
func NewBuilder(policy OverpaymentPolicy) *Builder {
	if policy == "" {
		policy = OverpaymentClamp
	}
	return &Builder{policy: policy}
}

// Policy política de sobrepago vigente.
func (b *Builder) Policy() OverpaymentPolicy { return b.policy }

// Build descarta líneas sin nombre, cantidad o precio positivos y calcula:
// subtotal = Σ cantidad×precio, total = subtotal − descuento,
// crédito = max(total − pagado, 0).
func (b *Builder) Build(items []ItemInput, discount, paid money.Money) (Draft, error) {
	lines := make([]entity.LineItem, 0, len(items))
	subtotal := money.Zero
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" || !it.Quantity.IsPositive() || !it.Price.IsPositive() {
			continue
		}
		total := it.Price.Mul(it.Quantity)
		lines = append(lines, entity.LineItem{
			Name:     name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    total,
		})
		subtotal = subtotal.Add(total)
	}
	if len(lines) == 0 {
		return Draft{}, domain.ErrInvalidBill
	}
	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return Draft{}, domain.ErrInvalidDiscount
	}
	if paid.IsNegative() {
		return Draft{}, domain.ErrInvalidPayment
	}

	total := subtotal.Sub(discount)
	excess := money.Zero
	if paid.GreaterThan(total) {
		if b.policy == OverpaymentReject {
			return Draft{}, domain.ErrBillOverpaid
		}
		excess = paid.Sub(total)
	}

	return Draft{
		Items:    lines,
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
		Paid:     paid,
		Credit:   total.Sub(paid).ClampZero(),
		Excess:   excess,
	}, nil
}
