package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculationRecord_Validate(t *testing.T) {
	sip := NewSIPRecord(SIPInput{MonthlyInvestment: 5000, ReturnRate: 12, Duration: 10}, SIPSummary{})
	require.NoError(t, sip.Validate())

	swp := NewSWPRecord(SWPInput{InitialInvestment: 100000, MonthlyWithdrawal: 1000, ReturnRate: 8, Duration: 5}, SWPSummary{})
	require.NoError(t, swp.Validate())

	t.Run("type tag must match payload", func(t *testing.T) {
		bad := sip
		bad.Type = CalculationSWP
		assert.Error(t, bad.Validate())
	})

	t.Run("payloads are mutually exclusive", func(t *testing.T) {
		bad := sip
		bad.SWP = swp.SWP
		assert.Error(t, bad.Validate())
	})

	t.Run("unknown type", func(t *testing.T) {
		bad := sip
		bad.Type = "FD"
		assert.Error(t, bad.Validate())
	})
}

func TestCalculationRecord_JSONOmitsOtherVariant(t *testing.T) {
	record := NewSIPRecord(SIPInput{MonthlyInvestment: 5000, ReturnRate: 12, Duration: 10, InflationRate: 6}, SIPSummary{TotalValue: 1150193})
	record.ID = "1741964966000"
	record.Date = "2025-03-14T15:09:26Z"

	payload, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Contains(t, decoded, "sip")
	assert.NotContains(t, decoded, "swp")
	assert.Equal(t, "SIP", decoded["type"])
}
