package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSD(decimal.NewFromFloat(100.00))
	b := NewMoneyUSD(decimal.NewFromFloat(50.00))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(150.00)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(50.00)))

	assert.True(t, b.MulInt(3).Amount().Equal(decimal.NewFromFloat(150.00)))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	usd := NewMoneyUSD(decimal.NewFromInt(10))
	eur, err := NewMoney(decimal.NewFromInt(10), EUR)
	require.NoError(t, err)

	_, err = usd.Add(eur)
	assert.Error(t, err)

	_, err = usd.Sub(eur)
	assert.Error(t, err)
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(1)).IsPositive())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(-1)).IsNegative())
}

func TestMoney_FromString(t *testing.T) {
	m, err := NewMoneyUSDFromString("19.99")
	require.NoError(t, err)
	assert.Equal(t, "USD 19.99", m.String())

	_, err = NewMoneyUSDFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(42.50))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("12.34"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.34)))
	assert.Equal(t, DefaultCurrency, m.Currency())
}
