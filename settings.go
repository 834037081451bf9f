package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

// Config is the non-chart portion of the settings document.
type Config struct {
	OrganizationName   string
	User               string
	Language           string
	BaseCurrency       string
	Font               string
	Colors             []string
	PayeeNames         []string
	AllocationsEnabled bool
	Allocations        []Allocation
}

// Settings is the whole settings document: configuration plus the chart
// of accounts. Persistence is an explicit Save; nothing writes the file
// as a side effect.
type Settings struct {
	Config Config
	Chart  *Chart
}

// NewBook builds a transaction engine over this chart and the given
// ledger, carrying the allocation configuration.
func (s *Settings) NewBook(l *Ledger) *Book {
	b := NewBook(s.Chart, l)
	b.AllocationsEnabled = s.Config.AllocationsEnabled
	b.Allocations = s.Config.Allocations
	return b
}

// RecordPayee adds a payee name to the history once.
func (s *Settings) RecordPayee(name string) {
	if name == "" {
		return
	}
	for _, p := range s.Config.PayeeNames {
		if p == name {
			return
		}
	}
	s.Config.PayeeNames = append(s.Config.PayeeNames, name)
}

// DefaultSettings is the template used when no settings file exists yet.
func DefaultSettings() *Settings {
	chart := NewChart("UAH")
	cash, _ := chart.AddFund("1010", "Cash", decimal.Zero, decimal.Zero)
	cash.Description = "Cash on hand, base currency"
	chart.AddFund("3010", "WEF Allocations", decimal.Zero, decimal.Zero)
	chart.AddFund("3011", "District Allocations", decimal.Zero, decimal.Zero)
	chart.AddFund("3012", "Education Allocations", decimal.Zero, decimal.Zero)
	chart.AddFund("4010", "Tithes & Offerings", decimal.Zero, decimal.Zero)

	ten := decimal.NewFromInt(10)
	five := decimal.NewFromInt(5)
	return &Settings{
		Config: Config{
			Language:           "en",
			BaseCurrency:       "UAH",
			AllocationsEnabled: true,
			Allocations: []Allocation{
				{Name: "WEF", Fund: "3010", Percent: ten},
				{Name: "District", Fund: "3011", Percent: five},
				{Name: "Education", Fund: "3012", Percent: five},
			},
		},
		Chart: chart,
	}
}

// File layout. Monetary values are kept as strings so the document never
// goes through binary floating point.

type settingsFile struct {
	Organization orgSection                        `toml:"organization"`
	Display      displaySection                    `toml:"display"`
	Allocations  allocSection                      `toml:"allocations"`
	Payees       []string                          `toml:"payees,omitempty"`
	Funds        map[string]map[string]fundSection `toml:"funds"`
}

type orgSection struct {
	Name         string `toml:"name"`
	User         string `toml:"user,omitempty"`
	Language     string `toml:"language"`
	BaseCurrency string `toml:"base_currency"`
}

type displaySection struct {
	Font   string   `toml:"font,omitempty"`
	Colors []string `toml:"colors,omitempty"`
}

type allocSection struct {
	Enabled bool         `toml:"enabled"`
	Split   []allocEntry `toml:"split,omitempty"`
}

type allocEntry struct {
	Name    string `toml:"name"`
	Fund    string `toml:"fund"`
	Percent string `toml:"percent"`
}

type fundSection struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description,omitempty"`
	Percent     string            `toml:"percent,omitempty"`
	Amount      string            `toml:"amount,omitempty"`
	Currency    string            `toml:"currency,omitempty"`
	Lots        map[string]string `toml:"lots,omitempty"`
}

var categoryKeys = map[Category]string{
	Asset:     "assets",
	Liability: "liabilities",
	Equity:    "equities",
	Revenue:   "revenues",
	Expense:   "expenses",
}

// LoadSettings reads the settings document at path. A missing file is
// not an error on first run; it yields the template defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}

	var doc settingsFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse settings: %w", err)
	}
	return settingsFromFile(&doc)
}

func settingsFromFile(doc *settingsFile) (*Settings, error) {
	s := &Settings{
		Config: Config{
			OrganizationName:   doc.Organization.Name,
			User:               doc.Organization.User,
			Language:           doc.Organization.Language,
			BaseCurrency:       doc.Organization.BaseCurrency,
			Font:               doc.Display.Font,
			Colors:             doc.Display.Colors,
			PayeeNames:         doc.Payees,
			AllocationsEnabled: doc.Allocations.Enabled,
		},
		Chart: NewChart(doc.Organization.BaseCurrency),
	}

	for _, a := range doc.Allocations.Split {
		percent, err := decimal.NewFromString(a.Percent)
		if err != nil {
			return nil, fmt.Errorf("allocation %s: bad percent %q", a.Name, a.Percent)
		}
		s.Config.Allocations = append(s.Config.Allocations,
			Allocation{Name: a.Name, Fund: a.Fund, Percent: percent})
	}

	for _, cat := range categories {
		for code, sec := range doc.Funds[categoryKeys[cat]] {
			if err := s.addFundSection(cat, code, sec); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Settings) addFundSection(cat Category, code string, sec fundSection) error {
	percent := decimal.Zero
	amount := decimal.Zero
	var err error
	if sec.Percent != "" {
		if percent, err = decimal.NewFromString(sec.Percent); err != nil {
			return fmt.Errorf("fund %s: bad percent %q", code, sec.Percent)
		}
	}
	if sec.Amount != "" {
		if amount, err = decimal.NewFromString(sec.Amount); err != nil {
			return fmt.Errorf("fund %s: bad amount %q", code, sec.Amount)
		}
	}

	f, err := s.Chart.AddFund(code, sec.Name, percent, amount)
	if err != nil {
		return err
	}
	if f.Category != cat {
		return fmt.Errorf("fund %s listed under %s but its code says %s",
			code, categoryKeys[cat], f.Category)
	}
	f.Description = sec.Description
	if f.Category == Asset {
		if sec.Currency != "" {
			f.Currency = sec.Currency
		}
		for rate, lot := range sec.Lots {
			v, lerr := decimal.NewFromString(lot)
			if lerr != nil {
				return fmt.Errorf("fund %s: bad lot value %q at rate %s", code, lot, rate)
			}
			f.Lots[rate] = v
		}
	}
	return nil
}

// Save overwrites the settings document wholesale.
func (s *Settings) Save(path string) error {
	doc := settingsFile{
		Organization: orgSection{
			Name:         s.Config.OrganizationName,
			User:         s.Config.User,
			Language:     s.Config.Language,
			BaseCurrency: s.Config.BaseCurrency,
		},
		Display: displaySection{Font: s.Config.Font, Colors: s.Config.Colors},
		Allocations: allocSection{
			Enabled: s.Config.AllocationsEnabled,
		},
		Payees: s.Config.PayeeNames,
		Funds:  make(map[string]map[string]fundSection, len(categories)),
	}
	for _, a := range s.Config.Allocations {
		doc.Allocations.Split = append(doc.Allocations.Split,
			allocEntry{Name: a.Name, Fund: a.Fund, Percent: a.Percent.String()})
	}

	for _, cat := range categories {
		section := make(map[string]fundSection)
		for _, f := range s.Chart.Funds(cat) {
			sec := fundSection{Name: f.Name, Description: f.Description}
			if cat == Asset {
				sec.Currency = f.Currency
				if len(f.Lots) > 0 {
					sec.Lots = make(map[string]string, len(f.Lots))
					for rate, lot := range f.Lots {
						sec.Lots[rate] = lot.String()
					}
				}
			} else {
				if !f.Percent.IsZero() {
					sec.Percent = f.Percent.String()
				}
				if !f.Amount.IsZero() {
					sec.Amount = f.Amount.String()
				}
			}
			section[f.Code] = sec
		}
		doc.Funds[categoryKeys[cat]] = section
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("unable to serialize settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
