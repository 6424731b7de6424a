package handler

import (
	"strings"

	"orgdesk/internal/onboarding/models"
	"orgdesk/internal/onboarding/service"
	id "orgdesk/pkg/domain"
	dErrors "orgdesk/pkg/domain-errors"
	"orgdesk/pkg/platform/validator"
)

// OpenSessionRequest opens a wizard session. An empty mode means create.
type OpenSessionRequest struct {
	Mode    string `json:"mode" validate:"omitempty,oneof=create edit"`
	StaffID string `json:"staff_id" validate:"omitempty,uuid"`
}

func (r *OpenSessionRequest) Validate() error {
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	r.StaffID = strings.TrimSpace(r.StaffID)
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Mode == string(models.ModeEdit) && r.StaffID == "" {
		return dErrors.New(dErrors.CodeValidation, "staff_id is required in edit mode")
	}
	return nil
}

func (r *OpenSessionRequest) toService() (service.OpenRequest, error) {
	mode, err := models.ParseMode(r.Mode)
	if err != nil {
		return service.OpenRequest{}, err
	}
	req := service.OpenRequest{Mode: mode}
	if r.StaffID != "" {
		staffID, err := id.ParseStaffID(r.StaffID)
		if err != nil {
			return service.OpenRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid staff_id")
		}
		req.StaffID = staffID
	}
	return req, nil
}

// UpdateFieldsRequest carries a batch of field edits keyed by field name.
type UpdateFieldsRequest struct {
	Fields   map[string]string `json:"fields" validate:"max=32"`
	IsActive *bool             `json:"is_active"`
}

func (r *UpdateFieldsRequest) Validate() error {
	if len(r.Fields) == 0 && r.IsActive == nil {
		return dErrors.New(dErrors.CodeValidation, "fields or is_active is required")
	}
	return validator.Struct(r)
}

// ConfirmChallengeRequest submits the code delivered to the operator.
type ConfirmChallengeRequest struct {
	Code string `json:"code" validate:"required,numeric,min=4,max=10"`
}

func (r *ConfirmChallengeRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	return validator.Struct(r)
}
