package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterLoader_Default(t *testing.T) {
	pl := NewParameterLoader()

	set, err := pl.Default()
	require.NoError(t, err)

	params, ok := set[DefaultFinancialYear]
	require.True(t, ok, "embedded parameters should include %s", DefaultFinancialYear)

	assert.Len(t, params.Brackets, 5)
	assert.Nil(t, params.Brackets[4].Max)
	assert.True(t, params.Brackets[2].Base.Equal(decimal.NewFromInt(4288)))
	assert.True(t, params.WfhFixedRatePerHour.Equal(decimal.RequireFromString("0.70")))
	assert.True(t, params.LowIncomeOffset.MaxOffset.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, []string{"base", "tier1", "tier2", "tier3"}, params.InsuranceRebate.TierNames)
	assert.Len(t, params.InsuranceRebate.Periods, 2)
	assert.True(t, params.InsuranceRebate.Periods[1].Rates["65to69"]["tier2"].Equal(decimal.RequireFromString("0.12143")))
	assert.True(t, params.LowValueThreshold.IsZero())
	assert.Equal(t, []string{"65to69", "70plus", "under65"}, AgeBrackets(params))
}

func TestParameterLoader_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	data := strings.Replace(string(defaultParameters), "low_value_threshold: 0", "low_value_threshold: 300", 1)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	pl := NewParameterLoader()
	set, err := pl.LoadFromFile(path)

	require.NoError(t, err)
	assert.True(t, set[DefaultFinancialYear].LowValueThreshold.Equal(decimal.NewFromInt(300)))
}

func TestParameterLoader_LoadFromFileMissing(t *testing.T) {
	pl := NewParameterLoader()

	_, err := pl.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParameterLoader_ParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		wantErr string
	}{
		{
			name:    "gap between brackets",
			old:     "{ min: 45001,  max: 135000",
			new:     "{ min: 45002,  max: 135000",
			wantErr: "brackets[2]: next entry must start at 45001",
		},
		{
			name:    "first bracket above zero",
			old:     "{ min: 0,      max: 18200",
			new:     "{ min: 1,      max: 18200",
			wantErr: "first entry must start at 0",
		},
		{
			name:    "open-ended middle tier",
			old:     "{ min: 97001,  max: 113000, rate: 0.01 }",
			new:     "{ min: 97001,  rate: 0.01 }",
			wantErr: "only the last entry may be open-ended",
		},
		{
			name:    "base out of line",
			old:     "base: 31288",
			new:     "base: 30000",
			wantErr: "does not continue from previous bracket",
		},
		{
			name:    "rate above one",
			old:     "rate: 0.45",
			new:     "rate: 45",
			wantErr: "Rate",
		},
		{
			name:    "missing rebate tier",
			old:     "70plus:  { base: 0.32385, tier1: 0.24288, tier2: 0.16192, tier3: 0 }",
			new:     "70plus:  { base: 0.32385, tier1: 0.24288, tier2: 0.16192 }",
			wantErr: "missing tiers tier3",
		},
		{
			name:    "period outside year",
			old:     `end: "2025-06-30"`,
			new:     `end: "2025-07-31"`,
			wantErr: "must lie within 2024-2025",
		},
		{
			name:    "bad year label",
			old:     `"2024-2025":`,
			new:     `"2024-2026":`,
			wantErr: "consecutive years",
		},
		{
			name:    "malformed yaml",
			old:     "brackets:",
			new:     "brackets: [",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := string(defaultParameters)
			require.Contains(t, src, tt.old)
			data := strings.Replace(src, tt.old, tt.new, 1)

			_, err := NewParameterLoader().Parse([]byte(data))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParameterLoader_ParseEmpty(t *testing.T) {
	_, err := NewParameterLoader().Parse([]byte("financial_years: {}\n"))

	assert.EqualError(t, err, "no financial years defined")
}
