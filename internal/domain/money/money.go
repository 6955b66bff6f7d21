// Package money implementa importes con dos decimales fijos sobre shopspring/decimal.
// Todos los campos monetarios de clientes, facturas y pagos pasan por aquí; el
// núcleo nunca opera con float64.
package money

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Scale número de decimales de todo importe.
const Scale = 2

// DefaultSymbol prefijo usado por Format.
const DefaultSymbol = "Rs."

var printer = message.NewPrinter(language.English)

// Money importe redondeado a Scale decimales (mitad hacia arriba).
// El valor cero es un importe válido de 0.00.
type Money struct {
	d decimal.Decimal
}

// Zero importe 0.00.
var Zero = Money{}

// New redondea d a dos decimales.
func New(d decimal.Decimal) Money { return Money{d: d.Round(Scale)} }

// FromInt importe entero (sin centavos).
func FromInt(v int64) Money { return Money{d: decimal.NewFromInt(v)} }

// FromCents importe a partir de centavos.
func FromCents(cents int64) Money { return Money{d: decimal.New(cents, -Scale)} }

// Parse interpreta un texto decimal ("12.5", "-3", "100.005").
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("money: importe inválido %q: %w", s, err)
	}
	return New(d), nil
}

// MustParse como Parse pero entra en pánico; solo para constantes y tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Sum suma todos los importes.
func Sum(values ...Money) Money {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func (m Money) Add(o Money) Money { return New(m.d.Add(o.d)) }

func (m Money) Sub(o Money) Money { return New(m.d.Sub(o.d)) }

// Mul multiplica por una cantidad (admite cantidades fraccionarias).
func (m Money) Mul(qty decimal.Decimal) Money { return New(m.d.Mul(qty)) }

// Round2 vuelve a aplicar el redondeo; útil para importes construidos a mano.
func (m Money) Round2() Money { return New(m.d) }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

// Cmp devuelve -1, 0 o 1.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

// ClampZero devuelve 0 si el importe es negativo.
func (m Money) ClampZero() Money {
	if m.d.IsNegative() {
		return Zero
	}
	return m
}

// Decimal expone el valor para adaptadores (pgx, sqlite).
func (m Money) Decimal() decimal.Decimal { return m.d }

// String formato fijo "1234.50".
func (m Money) String() string { return m.d.StringFixed(Scale) }

// Format con separador de miles y símbolo por defecto: "Rs. 1,234.50".
func (m Money) Format() string { return m.FormatWith(DefaultSymbol) }

// FormatWith como Format con otro símbolo.
func (m Money) FormatWith(symbol string) string {
	fixed := m.d.Abs().StringFixed(Scale)
	intPart, frac, _ := strings.Cut(fixed, ".")
	grouped := intPart
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = printer.Sprintf("%d", n)
	}
	sign := ""
	if m.d.IsNegative() {
		sign = "-"
	}
	if symbol == "" {
		return sign + grouped + "." + frac
	}
	return symbol + " " + sign + grouped + "." + frac
}

// MarshalJSON número con dos decimales.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON acepta número o texto entre comillas.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = New(d)
	return nil
}

// Value guarda el importe como texto fijo (database/sql).
func (m Money) Value() (driver.Value, error) { return m.String(), nil }

// Scan lee NUMERIC, TEXT, enteros o reales.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = New(d)
	return nil
}

// Percent round(100 × part / whole); 0 si whole es cero.
func Percent(part, whole Money) int64 {
	if whole.IsZero() {
		return 0
	}
	return part.d.Mul(decimal.NewFromInt(100)).Div(whole.d).Round(0).IntPart()
}

// Avg promedio de total entre n elementos; 0 si n es 0.
func Avg(total Money, n int) Money {
	if n <= 0 {
		return Zero
	}
	return New(total.d.Div(decimal.NewFromInt(int64(n))))
}
