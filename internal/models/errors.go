package models

import (
	"fmt"
	"strings"
)

// DataMissingOrInvalid is the message carried by every DataIntegrityError.
const DataMissingOrInvalid = "Data is Missing or Invalid"

// ConfigurationError reports missing credentials or scope identifiers.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s required", strings.Join(e.Missing, ", "))
}

// InvalidFormatError is returned when a timestamp does not match the required layout.
type InvalidFormatError struct {
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("Invalid date format %q. Expected format: YYYY-MM-DDTHH:MM:SSZ", e.Value)
}

// WindowTooOldError is returned when the window starts before the analytics retention boundary.
type WindowTooOldError struct {
	Start string
}

func (e *WindowTooOldError) Error() string {
	return fmt.Sprintf("start_date cannot be more than 2,764,800 seconds (32 days) ago. Given: %s", e.Start)
}

// PlanUnsupportedError is returned when zone traffic analytics are requested on a tier
// that does not expose them.
type PlanUnsupportedError struct {
	ZoneID string
	Plan   string
}

func (e *PlanUnsupportedError) Error() string {
	return fmt.Sprintf("zone %s is on plan %q which does not expose traffic analytics, move to Business to use this feature", e.ZoneID, e.Plan)
}

// QueryFailedError carries the diagnostics of a failed analytics query.
type QueryFailedError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *QueryFailedError) Error() string {
	msg := fmt.Sprintf("request to %s got response %d == %s", e.Endpoint, e.Status, e.Body)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *QueryFailedError) Unwrap() error {
	return e.Err
}

// DataIntegrityError is returned when a provider response lacks the keys the merge needs.
type DataIntegrityError struct {
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Reason == "" {
		return DataMissingOrInvalid
	}
	return DataMissingOrInvalid + ": " + e.Reason
}
