package domain

import "strings"

// ComplaintType is one of the fixed complaint categories.
type ComplaintType string

const (
	ComplaintMissedCollection ComplaintType = "Missed Collection"
	ComplaintServiceQuality   ComplaintType = "Service Quality"
	ComplaintStaffBehavior    ComplaintType = "Staff Behavior"
	ComplaintPaymentStatus    ComplaintType = "Payment Status"
	ComplaintOther            ComplaintType = "Other"
)

// ComplaintTypes lists the categories in the order the form offers them.
var ComplaintTypes = []ComplaintType{
	ComplaintMissedCollection,
	ComplaintServiceQuality,
	ComplaintStaffBehavior,
	ComplaintPaymentStatus,
	ComplaintOther,
}

// ComplaintDraft is the complaint form as the user fills it in.
type ComplaintDraft struct {
	Type        ComplaintType `json:"type" form:"type" validate:"required,oneof='Missed Collection' 'Service Quality' 'Staff Behavior' 'Payment Status' 'Other'"`
	Description string        `json:"description" form:"description" validate:"required"`
}

// NewComplaintDraft returns an empty draft with the default category.
func NewComplaintDraft() ComplaintDraft {
	return ComplaintDraft{Type: ComplaintMissedCollection}
}

// Normalize trims surrounding whitespace so a blank description fails the
// required check.
func (d ComplaintDraft) Normalize() ComplaintDraft {
	d.Type = ComplaintType(strings.TrimSpace(string(d.Type)))
	d.Description = strings.TrimSpace(d.Description)
	return d
}
