// Package submission turns a finished draft into the staff directory payload.
package submission

import (
	"orgdesk/internal/onboarding/models"
)

// Assemble copies draft into a Payload. It does not validate: callers run it
// only after the final step's policy has passed.
//
// In edit mode a blank password is omitted so the directory keeps the current
// credential. Verification flags and the PAN holder name come from verified
// as they stand.
func Assemble(mode models.Mode, draft models.DraftRecord, verified models.VerificationState) models.Payload {
	p := models.Payload{
		FirstName:                draft.FirstName,
		LastName:                 draft.LastName,
		Email:                    draft.Email,
		Phone:                    draft.Phone,
		AlternatePhone:           draft.AlternatePhone,
		DateOfBirth:              draft.DateOfBirth,
		Gender:                   draft.Gender,
		EmergencyContactName:     draft.EmergencyContactName,
		EmergencyContactPhone:    draft.EmergencyContactPhone,
		EmergencyContactRelation: draft.EmergencyContactRelation,
		AddressLine1:             draft.AddressLine1,
		AddressLine2:             draft.AddressLine2,
		City:                     draft.City,
		State:                    draft.State,
		PostalCode:               draft.PostalCode,
		Country:                  draft.Country,
		PANNumber:                draft.PANNumber,
		AadhaarNumber:            draft.AadhaarNumber,
		Role:                     draft.Role,
		Designation:              draft.Designation,
		Department:               draft.Department,
		BranchID:                 draft.BranchID,
		JoiningDate:              draft.JoiningDate,
		EmploymentType:           draft.EmploymentType,
		Username:                 draft.Username,
		IsActive:                 draft.IsActive,
		EmailVerified:            verified[models.ChannelEmail].Verified,
		PhoneVerified:            verified[models.ChannelPhone].Verified,
		PANVerified:              verified[models.ChannelPAN].Verified,
		AadhaarVerified:          verified[models.ChannelAadhaar].Verified,
		PANHolderName:            verified[models.ChannelPAN].HolderName,
	}
	if draft.Password != "" || mode != models.ModeEdit {
		password := draft.Password
		p.Password = &password
	}
	return p
}
