package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

func TestMoney_RedondeoMitadHaciaArriba(t *testing.T) {
	assert.Equal(t, "100.01", money.MustParse("100.005").String())
	assert.Equal(t, "100.00", money.MustParse("100.004").String())
	assert.Equal(t, "0.10", money.MustParse("0.1").String())
	assert.Equal(t, "12.00", money.FromInt(12).String())
	assert.Equal(t, "1.25", money.FromCents(125).String())
}

func TestMoney_Aritmetica(t *testing.T) {
	a := money.MustParse("10.10")
	b := money.MustParse("0.20")

	assert.Equal(t, "10.30", a.Add(b).String())
	assert.Equal(t, "9.90", a.Sub(b).String())
	assert.Equal(t, "25.25", a.Mul(decimal.RequireFromString("2.5")).String())
	assert.Equal(t, "0.33", money.MustParse("1").Mul(decimal.RequireFromString("0.333")).String())
	assert.Equal(t, "30.50", money.Sum(a, a, b, a).String())
}

func TestMoney_Comparaciones(t *testing.T) {
	a := money.MustParse("5")
	b := money.MustParse("5.00")
	c := money.MustParse("-1")

	assert.Equal(t, 0, a.Cmp(b))
	assert.True(t, a.Equal(b))
	assert.True(t, a.GreaterThan(c))
	assert.True(t, c.LessThan(a))
	assert.True(t, c.IsNegative())
	assert.True(t, a.IsPositive())
	assert.True(t, money.Zero.IsZero())
	assert.True(t, c.ClampZero().IsZero())
	assert.Equal(t, "5.00", a.ClampZero().String())
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "Rs. 1,234.50", money.MustParse("1234.5").Format())
	assert.Equal(t, "Rs. 0.00", money.Zero.Format())
	assert.Equal(t, "Rs. 1,000,000.00", money.FromInt(1_000_000).Format())
	assert.Equal(t, "Rs. -12.30", money.MustParse("-12.3").Format())
	assert.Equal(t, "999.99", money.MustParse("999.99").FormatWith(""))
}

func TestMoney_ParseInvalido(t *testing.T) {
	_, err := money.Parse("abc")
	require.Error(t, err)
}

func TestMoney_JSON(t *testing.T) {
	type wrapper struct {
		Amount money.Money `json:"amount"`
	}

	out, err := json.Marshal(wrapper{Amount: money.MustParse("40")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":40.00}`, string(out))

	var fromNumber wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"amount":12.345}`), &fromNumber))
	assert.Equal(t, "12.35", fromNumber.Amount.String())

	var fromString wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"7.5"}`), &fromString))
	assert.Equal(t, "7.50", fromString.Amount.String())
}

func TestMoney_ScanYValue(t *testing.T) {
	var m money.Money
	require.NoError(t, m.Scan("19.999"))
	assert.Equal(t, "20.00", m.String())

	require.NoError(t, m.Scan(int64(3)))
	assert.Equal(t, "3.00", m.String())

	v, err := money.MustParse("8.1").Value()
	require.NoError(t, err)
	assert.Equal(t, "8.10", v)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(0), money.Percent(money.FromInt(10), money.Zero))
	assert.Equal(t, int64(60), money.Percent(money.FromInt(60), money.FromInt(100)))
	assert.Equal(t, int64(67), money.Percent(money.FromInt(2), money.FromInt(3)))
	assert.Equal(t, int64(150), money.Percent(money.FromInt(150), money.FromInt(100)))
}

func TestAvg(t *testing.T) {
	assert.True(t, money.Avg(money.FromInt(10), 0).IsZero())
	assert.Equal(t, "3.33", money.Avg(money.FromInt(10), 3).String())
}
