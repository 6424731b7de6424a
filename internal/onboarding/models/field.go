package models

import (
	dErrors "orgdesk/pkg/domain-errors"
)

// Field names a draft record field. The set is closed.
type Field string

const (
	FieldFirstName                Field = "first_name"
	FieldLastName                 Field = "last_name"
	FieldEmail                    Field = "email"
	FieldPhone                    Field = "phone"
	FieldAlternatePhone           Field = "alternate_phone"
	FieldDateOfBirth              Field = "date_of_birth"
	FieldGender                   Field = "gender"
	FieldEmergencyContactName     Field = "emergency_contact_name"
	FieldEmergencyContactPhone    Field = "emergency_contact_phone"
	FieldEmergencyContactRelation Field = "emergency_contact_relation"
	FieldAddressLine1             Field = "address_line1"
	FieldAddressLine2             Field = "address_line2"
	FieldCity                     Field = "city"
	FieldState                    Field = "state"
	FieldPostalCode               Field = "postal_code"
	FieldCountry                  Field = "country"
	FieldPANNumber                Field = "pan_number"
	FieldAadhaarNumber            Field = "aadhaar_number"
	FieldRole                     Field = "role"
	FieldDesignation              Field = "designation"
	FieldDepartment               Field = "department"
	FieldBranchID                 Field = "branch_id"
	FieldJoiningDate              Field = "joining_date"
	FieldEmploymentType           Field = "employment_type"
	FieldUsername                 Field = "username"
	FieldPassword                 Field = "password"
)

// AllFields lists every draft field in form order.
var AllFields = []Field{
	FieldFirstName, FieldLastName, FieldDateOfBirth, FieldGender,
	FieldEmail, FieldPhone, FieldAlternatePhone,
	FieldEmergencyContactName, FieldEmergencyContactPhone, FieldEmergencyContactRelation,
	FieldAddressLine1, FieldAddressLine2, FieldCity, FieldState, FieldPostalCode, FieldCountry,
	FieldPANNumber, FieldAadhaarNumber,
	FieldRole, FieldDesignation, FieldDepartment, FieldBranchID, FieldJoiningDate, FieldEmploymentType,
	FieldUsername, FieldPassword,
}

var knownFields = func() map[Field]struct{} {
	m := make(map[Field]struct{}, len(AllFields))
	for _, f := range AllFields {
		m[f] = struct{}{}
	}
	return m
}()

// ParseField rejects names outside the closed set.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if _, ok := knownFields[f]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown field: "+s)
	}
	return f, nil
}

func (f Field) String() string { return string(f) }

// Label is the human-readable field name used in messages.
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First name"
	case FieldLastName:
		return "Last name"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone number"
	case FieldAlternatePhone:
		return "Alternate phone"
	case FieldDateOfBirth:
		return "Date of birth"
	case FieldEmergencyContactName:
		return "Emergency contact name"
	case FieldEmergencyContactPhone:
		return "Emergency contact phone"
	case FieldPostalCode:
		return "Postal code"
	case FieldPANNumber:
		return "PAN number"
	case FieldAadhaarNumber:
		return "Aadhaar number"
	case FieldRole:
		return "Role"
	case FieldDesignation:
		return "Designation"
	case FieldJoiningDate:
		return "Joining date"
	case FieldUsername:
		return "Username"
	case FieldPassword:
		return "Password"
	}
	return string(f)
}
