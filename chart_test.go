package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryForCode(t *testing.T) {
	tests := []struct {
		code    string
		want    Category
		wantErr bool
	}{
		{"1010", Asset, false},
		{"2010", Liability, false},
		{"3010", Equity, false},
		{"4010", Revenue, false},
		{"6010", Expense, false},
		{"5010", 0, true}, // 5 is not a category
		{"101", 0, true},
		{"10100", 0, true},
		{"1a10", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := CategoryForCode(tc.code)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrBadFundCode, "code %q", tc.code)
			continue
		}
		require.NoError(t, err, "code %q", tc.code)
		assert.Equal(t, tc.want, got, "code %q", tc.code)
	}
}

func TestChartAddFund(t *testing.T) {
	c := NewChart("UAH")

	cash, err := c.AddFund("1010", "Cash", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, Asset, cash.Category)
	assert.Equal(t, "UAH", cash.Currency)
	assert.NotNil(t, cash.Lots)
	assert.Equal(t, "1010 Cash", cash.FullName())

	_, err = c.AddFund("1010", "Cash Again", decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrDuplicateFund)

	_, err = c.AddFund("1020", "Cash USD", decimal.NewFromInt(10), decimal.Zero)
	assert.Error(t, err, "asset funds take no allocation settings")

	general, err := c.AddFund("3020", "General Fund", decimal.NewFromInt(80), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, Equity, general.Category)
	assert.Nil(t, general.Lots)
	assert.Equal(t, "80", general.Percent.String())
}

func TestChartLookup(t *testing.T) {
	c := NewChart("UAH")
	c.AddFund("1010", "Cash", decimal.Zero, decimal.Zero)

	f, err := c.Fund("1010")
	require.NoError(t, err)
	assert.Equal(t, "Cash", f.Name)

	_, err = c.Fund("1999")
	assert.ErrorIs(t, err, ErrNotAFund)
	_, err = c.Fund("garbage")
	assert.ErrorIs(t, err, ErrNotAFund)

	assert.Equal(t, "1010 Cash", c.FullName("1010"))
	assert.Equal(t, "1999", c.FullName("1999"))
}

func TestChartCatalogOrder(t *testing.T) {
	c := NewChart("UAH")
	c.AddFund("6010", "Utilities", decimal.Zero, decimal.NewFromInt(5))
	c.AddFund("3020", "General", decimal.NewFromInt(50), decimal.Zero)
	c.AddFund("3010", "WEF", decimal.NewFromInt(10), decimal.Zero)
	c.AddFund("2010", "Payable", decimal.Zero, decimal.NewFromInt(20))
	c.AddFund("4010", "Tithes", decimal.NewFromInt(30), decimal.Zero)

	var amountCodes []string
	for _, f := range c.FundsWithAmount() {
		amountCodes = append(amountCodes, f.Code)
	}
	assert.Equal(t, []string{"2010", "6010"}, amountCodes)

	var percentCodes []string
	for _, f := range c.FundsWithPercent() {
		percentCodes = append(percentCodes, f.Code)
	}
	assert.Equal(t, []string{"3010", "3020", "4010"}, percentCodes)
}

func TestRateLots(t *testing.T) {
	c := NewChart("UAH")
	c.AddFund("1020", "Cash USD", decimal.Zero, decimal.Zero)
	rate := decimal.NewFromFloat(1.20)

	require.NoError(t, c.CreditLot("1020", decimal.NewFromInt(50), rate))
	f, _ := c.Fund("1020")
	assert.Equal(t, "50.00", f.Lots[RateKey(rate)].StringFixed(2))

	// same numeric rate written differently lands in the same lot
	require.NoError(t, c.CreditLot("1020", decimal.NewFromInt(10), decimal.RequireFromString("1.2")))
	assert.Equal(t, "60.00", f.Lots[RateKey(rate)].StringFixed(2))

	ok, err := c.DebitLot("1020", decimal.NewFromInt(80), rate, false)
	require.NoError(t, err)
	assert.False(t, ok, "60 cannot cover 80 without force")
	assert.Equal(t, "60.00", f.Lots[RateKey(rate)].StringFixed(2))

	ok, err = c.DebitLot("1020", decimal.NewFromInt(80), rate, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "-20.00", f.Lots[RateKey(rate)].StringFixed(2))

	// a rate never seen has no lot to draw from
	other := decimal.NewFromFloat(2.50)
	ok, err = c.DebitLot("1020", decimal.NewFromInt(1), other, false)
	require.NoError(t, err)
	assert.False(t, ok)

	err = c.CreditLot("1010", decimal.NewFromInt(1), rate)
	assert.ErrorIs(t, err, ErrNotAFund)
	c.AddFund("3020", "General", decimal.Zero, decimal.Zero)
	err = c.CreditLot("3020", decimal.NewFromInt(1), rate)
	assert.ErrorIs(t, err, ErrNotAssetFund)
}
