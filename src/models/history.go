package models

import (
	"errors"
	"fmt"
)

// CalculationType discriminates the two calculator variants.
type CalculationType string

const (
	CalculationSIP CalculationType = "SIP"
	CalculationSWP CalculationType = "SWP"
)

// SIPCalculation is the persisted shape of one SIP run: the inputs used and
// the summary the user saw.
type SIPCalculation struct {
	Params  SIPInput   `json:"params"`
	Results SIPSummary `json:"results"`
}

// SWPCalculation is the persisted shape of one SWP run.
type SWPCalculation struct {
	Params  SWPInput   `json:"params"`
	Results SWPSummary `json:"results"`
}

// CalculationRecord is one entry of the calculation history log. It is a
// tagged union over the two calculator variants: exactly one of SIP or SWP
// is set, matching Type. Records are immutable once created; ID and Date
// are assigned by the history service at append time.
type CalculationRecord struct {
	ID   string          `json:"id"`
	Type CalculationType `json:"type"`
	Date string          `json:"date"`

	SIP *SIPCalculation `json:"sip,omitempty"`
	SWP *SWPCalculation `json:"swp,omitempty"`
}

var errMalformedRecord = errors.New("malformed calculation record")

// Validate checks that the record's payload matches its type tag.
func (r CalculationRecord) Validate() error {
	switch r.Type {
	case CalculationSIP:
		if r.SIP == nil || r.SWP != nil {
			return fmt.Errorf("%w: SIP record must carry exactly the SIP payload", errMalformedRecord)
		}
	case CalculationSWP:
		if r.SWP == nil || r.SIP != nil {
			return fmt.Errorf("%w: SWP record must carry exactly the SWP payload", errMalformedRecord)
		}
	default:
		return fmt.Errorf("%w: unknown calculation type %q", errMalformedRecord, r.Type)
	}
	return nil
}

// NewSIPRecord builds an unsaved SIP record. The history service fills in
// ID and Date when the record is appended.
func NewSIPRecord(params SIPInput, results SIPSummary) CalculationRecord {
	return CalculationRecord{
		Type: CalculationSIP,
		SIP:  &SIPCalculation{Params: params, Results: results},
	}
}

// NewSWPRecord builds an unsaved SWP record.
func NewSWPRecord(params SWPInput, results SWPSummary) CalculationRecord {
	return CalculationRecord{
		Type: CalculationSWP,
		SWP:  &SWPCalculation{Params: params, Results: results},
	}
}
