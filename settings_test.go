package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "UAH", s.Chart.BaseCurrency)
	assert.True(t, s.Config.AllocationsEnabled)
	require.Len(t, s.Config.Allocations, 3)
	assert.Equal(t, "WEF", s.Config.Allocations[0].Name)
	assert.Equal(t, "10", s.Config.Allocations[0].Percent.String())

	// every allocation target exists in the chart
	for _, a := range s.Config.Allocations {
		_, err := s.Chart.Fund(a.Fund)
		assert.NoError(t, err, "allocation %s", a.Name)
	}
	_, err := s.Chart.Fund("1010")
	assert.NoError(t, err)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)
	assert.Equal(t, "UAH", s.Chart.BaseCurrency)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Config.OrganizationName = "Good News Church"
	s.Config.User = "treasurer"
	s.RecordPayee("Ivan Petrenko")
	s.RecordPayee("Ivan Petrenko") // once
	s.RecordPayee("Olena")

	usd, err := s.Chart.AddFund("1020", "Cash USD", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	usd.Currency = "USD"
	usd.Lots["41.5"] = decimal.RequireFromString("25.00")
	_, err = s.Chart.AddFund("3020", "General Fund", decimal.RequireFromString("80"), decimal.Zero)
	require.NoError(t, err)
	_, err = s.Chart.AddFund("2010", "Rent Payable", decimal.Zero, decimal.RequireFromString("400"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, s.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "Good News Church", loaded.Config.OrganizationName)
	assert.Equal(t, "treasurer", loaded.Config.User)
	assert.Equal(t, []string{"Ivan Petrenko", "Olena"}, loaded.Config.PayeeNames)
	assert.True(t, loaded.Config.AllocationsEnabled)
	require.Len(t, loaded.Config.Allocations, 3)
	assert.Equal(t, "3011", loaded.Config.Allocations[1].Fund)
	assert.Equal(t, "5", loaded.Config.Allocations[1].Percent.String())

	f, err := loaded.Chart.Fund("1020")
	require.NoError(t, err)
	assert.Equal(t, "USD", f.Currency)
	assert.Equal(t, "25.00", f.Lots["41.5"].StringFixed(2))

	f, err = loaded.Chart.Fund("3020")
	require.NoError(t, err)
	assert.Equal(t, "80", f.Percent.String())

	f, err = loaded.Chart.Fund("2010")
	require.NoError(t, err)
	assert.Equal(t, "400", f.Amount.String())
}

func TestLoadSettingsBadValues(t *testing.T) {
	dir := t.TempDir()

	write := func(body string) string {
		path := filepath.Join(dir, "settings.toml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	_, err := LoadSettings(write(`
[organization]
name = "Church"
base_currency = "UAH"

[funds.equities.3020]
name = "General"
percent = "eighty"
`))
	assert.ErrorContains(t, err, "bad percent")

	_, err = LoadSettings(write(`
[organization]
base_currency = "UAH"

[funds.assets.3020]
name = "Mislabeled"
`))
	assert.ErrorContains(t, err, "listed under")

	_, err = LoadSettings(write("not toml at ="))
	assert.ErrorContains(t, err, "unable to parse settings")
}
