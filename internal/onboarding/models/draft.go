package models

import (
	dErrors "orgdesk/pkg/domain-errors"
)

// DraftRecord is the in-progress staff profile edited across wizard steps.
// Values are stored as entered; normalization happens at validation and
// verification time.
type DraftRecord struct {
	FirstName                string `json:"first_name"`
	LastName                 string `json:"last_name"`
	Email                    string `json:"email"`
	Phone                    string `json:"phone"`
	AlternatePhone           string `json:"alternate_phone"`
	DateOfBirth              string `json:"date_of_birth"`
	Gender                   string `json:"gender"`
	EmergencyContactName     string `json:"emergency_contact_name"`
	EmergencyContactPhone    string `json:"emergency_contact_phone"`
	EmergencyContactRelation string `json:"emergency_contact_relation"`
	AddressLine1             string `json:"address_line1"`
	AddressLine2             string `json:"address_line2"`
	City                     string `json:"city"`
	State                    string `json:"state"`
	PostalCode               string `json:"postal_code"`
	Country                  string `json:"country"`
	PANNumber                string `json:"pan_number"`
	AadhaarNumber            string `json:"aadhaar_number"`
	Role                     string `json:"role"`
	Designation              string `json:"designation"`
	Department               string `json:"department"`
	BranchID                 string `json:"branch_id"`
	JoiningDate              string `json:"joining_date"`
	EmploymentType           string `json:"employment_type"`
	Username                 string `json:"username"`
	Password                 string `json:"-"`
	IsActive                 bool   `json:"is_active"`
}

// NewDraft returns an empty draft. New staff are active by default.
func NewDraft() DraftRecord {
	return DraftRecord{IsActive: true}
}

func (d *DraftRecord) ref(f Field) *string {
	switch f {
	case FieldFirstName:
		return &d.FirstName
	case FieldLastName:
		return &d.LastName
	case FieldEmail:
		return &d.Email
	case FieldPhone:
		return &d.Phone
	case FieldAlternatePhone:
		return &d.AlternatePhone
	case FieldDateOfBirth:
		return &d.DateOfBirth
	case FieldGender:
		return &d.Gender
	case FieldEmergencyContactName:
		return &d.EmergencyContactName
	case FieldEmergencyContactPhone:
		return &d.EmergencyContactPhone
	case FieldEmergencyContactRelation:
		return &d.EmergencyContactRelation
	case FieldAddressLine1:
		return &d.AddressLine1
	case FieldAddressLine2:
		return &d.AddressLine2
	case FieldCity:
		return &d.City
	case FieldState:
		return &d.State
	case FieldPostalCode:
		return &d.PostalCode
	case FieldCountry:
		return &d.Country
	case FieldPANNumber:
		return &d.PANNumber
	case FieldAadhaarNumber:
		return &d.AadhaarNumber
	case FieldRole:
		return &d.Role
	case FieldDesignation:
		return &d.Designation
	case FieldDepartment:
		return &d.Department
	case FieldBranchID:
		return &d.BranchID
	case FieldJoiningDate:
		return &d.JoiningDate
	case FieldEmploymentType:
		return &d.EmploymentType
	case FieldUsername:
		return &d.Username
	case FieldPassword:
		return &d.Password
	}
	return nil
}

// Get returns the value of f.
func (d *DraftRecord) Get(f Field) (string, error) {
	p := d.ref(f)
	if p == nil {
		return "", dErrors.New(dErrors.CodeValidation, "unknown field: "+string(f))
	}
	return *p, nil
}

// Value is Get for fields known to exist; unknown fields read as empty.
func (d *DraftRecord) Value(f Field) string {
	if p := d.ref(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns f.
func (d *DraftRecord) Set(f Field, value string) error {
	p := d.ref(f)
	if p == nil {
		return dErrors.New(dErrors.CodeValidation, "unknown field: "+string(f))
	}
	*p = value
	return nil
}
