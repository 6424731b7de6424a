package models

// Payload is the creation or update request handed to the staff directory.
// Password is nil when an edit leaves the credential unchanged.
type Payload struct {
	FirstName                string  `json:"first_name"`
	LastName                 string  `json:"last_name"`
	Email                    string  `json:"email"`
	Phone                    string  `json:"phone"`
	AlternatePhone           string  `json:"alternate_phone,omitempty"`
	DateOfBirth              string  `json:"date_of_birth,omitempty"`
	Gender                   string  `json:"gender,omitempty"`
	EmergencyContactName     string  `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    string  `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation string  `json:"emergency_contact_relation,omitempty"`
	AddressLine1             string  `json:"address_line1,omitempty"`
	AddressLine2             string  `json:"address_line2,omitempty"`
	City                     string  `json:"city,omitempty"`
	State                    string  `json:"state,omitempty"`
	PostalCode               string  `json:"postal_code,omitempty"`
	Country                  string  `json:"country,omitempty"`
	PANNumber                string  `json:"pan_number,omitempty"`
	AadhaarNumber            string  `json:"aadhaar_number,omitempty"`
	Role                     string  `json:"role"`
	Designation              string  `json:"designation"`
	Department               string  `json:"department,omitempty"`
	BranchID                 string  `json:"branch_id,omitempty"`
	JoiningDate              string  `json:"joining_date,omitempty"`
	EmploymentType           string  `json:"employment_type,omitempty"`
	Username                 string  `json:"username"`
	Password                 *string `json:"password,omitempty"`
	IsActive                 bool    `json:"is_active"`
	EmailVerified            bool    `json:"email_verified"`
	PhoneVerified            bool    `json:"phone_verified"`
	PANVerified              bool    `json:"pan_verified"`
	AadhaarVerified          bool    `json:"aadhaar_verified"`
	PANHolderName            string  `json:"pan_holder_name,omitempty"`
}

// SubmitResult is the staff directory's answer to a successful submission.
type SubmitResult struct {
	StaffID string `json:"staff_id"`
}
