package bms

// Customer is a customer record as returned by the BMS API.
// Timestamps are kept as the raw RFC3339 strings the API returns;
// consumers that need time values parse them explicitly.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Request is a service request record as returned by the BMS API.
type Request struct {
	ID         string `json:"id"`
	Subject    string `json:"subject,omitempty"`
	Message    string `json:"message,omitempty"`
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// Appointment is an appointment record as returned by the BMS API.
type Appointment struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	CustomerID  string `json:"customerId,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// User is a BMS user account.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// CustomerList is the response envelope for customer listings.
type CustomerList struct {
	Customers []Customer `json:"customers"`
	Total     int        `json:"total,omitempty"`
}

// RequestList is the response envelope for request listings.
type RequestList struct {
	Requests []Request `json:"requests"`
	Total    int       `json:"total,omitempty"`
}

// AppointmentList is the response envelope for appointment listings.
type AppointmentList struct {
	Appointments []Appointment `json:"appointments"`
	Total        int           `json:"total,omitempty"`
}

// UserList is the response envelope for user listings.
type UserList struct {
	Users []User `json:"users"`
	Total int    `json:"total,omitempty"`
}

// Stats is an opaque statistics payload. The BMS stats endpoints return
// shapes that vary per deployment, so they pass through untyped.
type Stats map[string]any

// DashboardStats aggregates the per-class statistics endpoints.
type DashboardStats struct {
	Customers    Stats  `json:"customers"`
	Requests     Stats  `json:"requests"`
	Appointments Stats  `json:"appointments"`
	Timestamp    string `json:"timestamp"`
}

// CustomerListOptions filters customer listings.
type CustomerListOptions struct {
	Limit  int
	Offset int
	Status string
}

// RequestListOptions filters request listings.
type RequestListOptions struct {
	Limit      int
	Offset     int
	Status     string
	Assigned   *bool
	AssignedTo string
}

// AppointmentListOptions filters appointment listings.
type AppointmentListOptions struct {
	Limit    int
	Offset   int
	Status   string
	Upcoming bool
}
