package domain

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "PAID"
	PaymentUnpaid PaymentStatus = "UNPAID"
)

// ComplaintStatus is the handling state of a filed complaint.
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "PENDING"
	ComplaintInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintResolved   ComplaintStatus = "RESOLVED"
)

// ComplaintStatuses lists every complaint status in display order.
var ComplaintStatuses = []ComplaintStatus{ComplaintPending, ComplaintInProgress, ComplaintResolved}

// Payment is a single payment record.
type Payment struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	UserEmail string        `json:"userEmail"`
	Amount    float64       `json:"amount"`
	Date      string        `json:"date"`
	Status    PaymentStatus `json:"status"`
}

// CollectionSchedule is a planned waste collection.
type CollectionSchedule struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Notes    string `json:"notes,omitempty"`
}

// Complaint is a complaint as stored by the backend.
type Complaint struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	UserEmail   string          `json:"userEmail,omitempty"`
	Location    string          `json:"location,omitempty"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   string          `json:"createdAt"`
	LastUpdated string          `json:"lastUpdated,omitempty"`
}

// AdminUser is an account as listed in the admin panel.
type AdminUser struct {
	ID            string        `json:"id" validate:"required"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	Location      string        `json:"location"`
	AccountStatus AccountStatus `json:"accountStatus"`
	Role          Role          `json:"role"`
	CreatedAt     string        `json:"createdAt"`
}

// UserUpdate is the editable subset of an AdminUser.
type UserUpdate struct {
	FullName      string        `json:"fullName" form:"fullName" validate:"required"`
	Email         string        `json:"email" form:"email" validate:"required,email"`
	Location      string        `json:"location" form:"location"`
	AccountStatus AccountStatus `json:"accountStatus" form:"accountStatus" validate:"required,oneof=PENDING APPROVED REJECTED SUSPENDED"`
	Role          Role          `json:"role" form:"role" validate:"required,oneof=ADMIN USER"`
}

// DashboardSnapshot is the read-only projection shown on a dashboard.
// It is fetched fresh on every protected page load.
type DashboardSnapshot struct {
	Message             string               `json:"message"`
	User                *Profile             `json:"user,omitempty" validate:"-"`
	Payments            []Payment            `json:"payments,omitempty"`
	CollectionSchedules []CollectionSchedule `json:"collectionSchedules,omitempty"`
	Complaints          []Complaint          `json:"complaints,omitempty"`
	Users               []AdminUser          `json:"users,omitempty"`
}

// ComplaintsByStatus returns the complaints matching status, or all of them
// when status is empty.
func (s DashboardSnapshot) ComplaintsByStatus(status ComplaintStatus) []Complaint {
	if status == "" {
		return s.Complaints
	}
	out := make([]Complaint, 0, len(s.Complaints))
	for _, c := range s.Complaints {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// UsersByStatus filters users the same way ComplaintsByStatus does.
func UsersByStatus(users []AdminUser, status AccountStatus) []AdminUser {
	if status == "" {
		return users
	}
	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		if u.AccountStatus == status {
			out = append(out, u)
		}
	}
	return out
}
