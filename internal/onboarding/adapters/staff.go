// Package adapters connects the onboarding ports to the in-process staff
// directory and verification services.
package adapters

import (
	"context"

	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/ports"
	staffmodels "orgdesk/internal/staff/models"
	id "orgdesk/pkg/domain"
)

// StaffService is the subset of the staff service the wizard relies on.
type StaffService interface {
	Create(ctx context.Context, req staffmodels.CreateRequest) (*staffmodels.Staff, error)
	Update(ctx context.Context, req staffmodels.UpdateRequest) (*staffmodels.Staff, error)
	Get(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*staffmodels.Staff, error)
	UsernameAvailable(ctx context.Context, tenantID id.TenantID, candidate string, excludeID id.StaffID) (bool, error)
}

// StaffDirectory serves the UsernameLookup, StaffDirectory and StaffReader
// ports from the staff service.
type StaffDirectory struct {
	service StaffService
}

var (
	_ ports.UsernameLookup = (*StaffDirectory)(nil)
	_ ports.StaffDirectory = (*StaffDirectory)(nil)
	_ ports.StaffReader    = (*StaffDirectory)(nil)
)

func NewStaffDirectory(service StaffService) *StaffDirectory {
	return &StaffDirectory{service: service}
}

func (d *StaffDirectory) UsernameAvailable(ctx context.Context, tenantID id.TenantID, candidate string, excludeID id.StaffID) (bool, error) {
	return d.service.UsernameAvailable(ctx, tenantID, candidate, excludeID)
}

func (d *StaffDirectory) Create(ctx context.Context, payload models.Payload, principal models.Principal) (*models.SubmitResult, error) {
	req := staffmodels.CreateRequest{
		TenantID:     principal.TenantID,
		ActorID:      principal.UserID,
		Username:     payload.Username,
		Profile:      profileFromPayload(payload),
		Verification: verificationFromPayload(payload),
		IsActive:     payload.IsActive,
	}
	if payload.Password != nil {
		req.Password = *payload.Password
	}
	staff, err := d.service.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.SubmitResult{StaffID: staff.ID.String()}, nil
}

func (d *StaffDirectory) Update(ctx context.Context, staffID id.StaffID, payload models.Payload, principal models.Principal) (*models.SubmitResult, error) {
	req := staffmodels.UpdateRequest{
		TenantID:     principal.TenantID,
		ActorID:      principal.UserID,
		StaffID:      staffID,
		Username:     payload.Username,
		Profile:      profileFromPayload(payload),
		Verification: verificationFromPayload(payload),
		IsActive:     payload.IsActive,
	}
	if payload.Password != nil {
		req.Password = *payload.Password
	}
	staff, err := d.service.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.SubmitResult{StaffID: staff.ID.String()}, nil
}

// LoadForEdit maps a stored record to a draft. Channels flagged verified on
// the record are reported verified for the values stored with it.
func (d *StaffDirectory) LoadForEdit(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.EditTarget, error) {
	staff, err := d.service.Get(ctx, tenantID, staffID)
	if err != nil {
		return nil, err
	}
	p := staff.Profile
	draft := models.NewDraft()
	draft.FirstName = p.FirstName
	draft.LastName = p.LastName
	draft.Email = p.Email
	draft.Phone = p.Phone
	draft.AlternatePhone = p.AlternatePhone
	draft.DateOfBirth = p.DateOfBirth
	draft.Gender = p.Gender
	draft.EmergencyContactName = p.EmergencyContactName
	draft.EmergencyContactPhone = p.EmergencyContactPhone
	draft.EmergencyContactRelation = p.EmergencyContactRelation
	draft.AddressLine1 = p.AddressLine1
	draft.AddressLine2 = p.AddressLine2
	draft.City = p.City
	draft.State = p.State
	draft.PostalCode = p.PostalCode
	draft.Country = p.Country
	draft.PANNumber = p.PANNumber
	draft.AadhaarNumber = p.AadhaarNumber
	draft.Role = p.Role
	draft.Designation = p.Designation
	draft.Department = p.Department
	draft.BranchID = p.BranchID
	draft.JoiningDate = p.JoiningDate
	draft.EmploymentType = p.EmploymentType
	draft.Username = staff.Username
	draft.IsActive = staff.IsActive

	v := staff.Verification
	flags := map[models.Channel]bool{
		models.ChannelEmail:   v.EmailVerified,
		models.ChannelPhone:   v.PhoneVerified,
		models.ChannelPAN:     v.PANVerified,
		models.ChannelAadhaar: v.AadhaarVerified,
	}
	verified := make(models.VerificationState, len(flags))
	for ch, ok := range flags {
		if !ok {
			continue
		}
		st := models.ChannelState{
			Verified:   true,
			Value:      ch.Normalize(draft.Value(ch.Field())),
			VerifiedAt: staff.UpdatedAt,
		}
		if ch == models.ChannelPAN {
			st.HolderName = v.PANHolderName
		}
		verified[ch] = st
	}
	return &models.EditTarget{StaffID: staff.ID, Draft: draft, Verified: verified}, nil
}

func profileFromPayload(p models.Payload) staffmodels.Profile {
	return staffmodels.Profile{
		FirstName:                p.FirstName,
		LastName:                 p.LastName,
		Email:                    p.Email,
		Phone:                    p.Phone,
		AlternatePhone:           p.AlternatePhone,
		DateOfBirth:              p.DateOfBirth,
		Gender:                   p.Gender,
		EmergencyContactName:     p.EmergencyContactName,
		EmergencyContactPhone:    p.EmergencyContactPhone,
		EmergencyContactRelation: p.EmergencyContactRelation,
		AddressLine1:             p.AddressLine1,
		AddressLine2:             p.AddressLine2,
		City:                     p.City,
		State:                    p.State,
		PostalCode:               p.PostalCode,
		Country:                  p.Country,
		PANNumber:                p.PANNumber,
		AadhaarNumber:            p.AadhaarNumber,
		Role:                     p.Role,
		Designation:              p.Designation,
		Department:               p.Department,
		BranchID:                 p.BranchID,
		JoiningDate:              p.JoiningDate,
		EmploymentType:           p.EmploymentType,
	}
}

func verificationFromPayload(p models.Payload) staffmodels.Verification {
	return staffmodels.Verification{
		EmailVerified:   p.EmailVerified,
		PhoneVerified:   p.PhoneVerified,
		PANVerified:     p.PANVerified,
		AadhaarVerified: p.AadhaarVerified,
		PANHolderName:   p.PANHolderName,
	}
}
