package models

import "strings"

// NamedValue is the nested {"name": ...} object the availability endpoint
// uses for location, status, transactionStatus and media.
type NamedValue struct {
	Name string `json:"name"`
}

// Item is one raw copy entry from the GetAvailabilityInfo response.
// Every nested object may be missing or empty.
type Item struct {
	Location          *NamedValue `json:"location"`
	Status            *NamedValue `json:"status"`
	TransactionStatus *NamedValue `json:"transactionStatus"`
	Media             *NamedValue `json:"media"`
	CallNumber        string      `json:"callNumber"`
}

// CopyInfo describes a single physical copy at a library branch.
type CopyInfo struct {
	Location    string `json:"location"`
	Status      string `json:"status"`      // e.g. "On Loan", "Not on Loan"
	Transaction string `json:"transaction"` // e.g. "Available for loan", "In Reference Collection"
	Media       string `json:"media"`       // e.g. "Book", "DVD"
	CallNumber  string `json:"callNumber,omitempty"`
}

// IsAvailable reports whether this copy can be borrowed right now.
// The API encodes availability only in free text, so this checks for the
// substring "available" across the transaction and status fields.
func (c CopyInfo) IsAvailable() bool {
	combined := strings.ToLower(c.Transaction + " " + c.Status)
	return strings.Contains(combined, "available")
}

// ToCopy converts a raw Item into a CopyInfo, substituting placeholders
// for any missing or empty field. It never fails, whatever the shape of
// the input.
func (it Item) ToCopy() CopyInfo {
	return CopyInfo{
		Location:    nameOr(it.Location, "Unknown Location"),
		Status:      nameOr(it.Status, "Unknown Status"),
		Transaction: nameOr(it.TransactionStatus, "Unknown Transaction Status"),
		Media:       nameOr(it.Media, "Unknown Media"),
		CallNumber:  it.CallNumber,
	}
}

func nameOr(v *NamedValue, fallback string) string {
	if v == nil || v.Name == "" {
		return fallback
	}
	return v.Name
}
