package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFundSigns(t *testing.T) {
	b := testBook(t)
	fundBookWith(t, b, "3020", "100.00")

	// asset: debit raises the balance
	rows, err := b.LoadFund("1010")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100.00", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "100.00", rows[0].Balance.StringFixed(2))

	// equity: credit raises the balance
	rows, err = b.LoadFund("3020")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100.00", rows[0].Balance.StringFixed(2))

	_, err = b.AddExpense(testDate,
		[]Posting{{Fund: "3020", Amount: BaseAmount(dec("30.00"))}},
		[]Posting{{Fund: "1010", Amount: BaseAmount(dec("30.00"))}},
		"supplies", "store", false)
	require.NoError(t, err)

	rows, err = b.LoadFund("1010")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "-30.00", rows[1].Amount.StringFixed(2))
	assert.Equal(t, "70.00", rows[1].Balance.StringFixed(2))
	assert.Equal(t, "store", rows[1].Payee)

	rows, err = b.LoadFund("3020")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "-30.00", rows[1].Amount.StringFixed(2))
	assert.Equal(t, "70.00", rows[1].Balance.StringFixed(2))
}

func TestLoadFundUnknown(t *testing.T) {
	b := testBook(t)
	_, err := b.LoadFund("1999")
	assert.ErrorIs(t, err, ErrNotAFund)
	_, err = b.LoadFund("xyz")
	assert.ErrorIs(t, err, ErrNotAFund)
}

func TestBalanceSheet(t *testing.T) {
	b := testBook(t)
	fundBookWith(t, b, "3020", "500.00")
	rate := dec("40")
	_, err := b.AddIncome(testDate,
		[]Posting{{Fund: "1020", Amount: ForeignAmount(dec("10"), rate)}},
		[]Posting{{Fund: "4010", Amount: BaseAmount(dec("400.00"))}},
		"foreign gift", "")
	require.NoError(t, err)

	sheet, err := b.BalanceSheet()
	require.NoError(t, err)

	require.Len(t, sheet.Assets, 2)
	assert.Equal(t, "1010", sheet.Assets[0].Code)
	assert.Equal(t, "500.00", sheet.Assets[0].Balance.StringFixed(2))
	assert.Equal(t, "UAH", sheet.Assets[0].Currency)

	// foreign fund: own-currency balance plus base equivalent
	assert.Equal(t, "1020", sheet.Assets[1].Code)
	assert.Equal(t, "USD", sheet.Assets[1].Currency)
	assert.Equal(t, "10.00", sheet.Assets[1].Balance.StringFixed(2))
	assert.Equal(t, "400.00", sheet.Assets[1].BaseBalance.StringFixed(2))
	assert.Equal(t, testDate, sheet.Assets[1].LastDate)

	// funds with no entries still get a zero line
	require.Len(t, sheet.Liabilities, 1)
	assert.Equal(t, "2010", sheet.Liabilities[0].Code)
	assert.True(t, sheet.Liabilities[0].Balance.IsZero())
	assert.True(t, sheet.Liabilities[0].LastDate.IsZero())

	assert.Equal(t, "900.00", sheet.AssetsTotal().StringFixed(2))
	assert.True(t, sheet.AssetsTotal().Equal(sheet.LiabilitiesAndEquityTotal()))
}
