package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
	"github.com/iota-uz/payroll-console/pkg/constants"
	"github.com/iota-uz/payroll-console/pkg/serrors"
)

// TransitionDTO is the request body for POST /runs/{id}/actions.
type TransitionDTO struct {
	Action       string `json:"action" validate:"required"`
	Reason       string `json:"reason" validate:"omitempty,max=1000"`
	FreezeReason string `json:"freezeReason" validate:"omitempty,max=1000"`
	UnlockReason string `json:"unlockReason" validate:"omitempty,max=1000"`
	ApproverID   string `json:"approverId" validate:"omitempty,max=128"`
}

func (d *TransitionDTO) Ok() (serrors.ValidationErrors, bool) {
	return validateDTO(d)
}

func (d *TransitionDTO) Payload() workflow.Payload {
	return workflow.Payload{
		Reason:       d.Reason,
		FreezeReason: d.FreezeReason,
		UnlockReason: d.UnlockReason,
		ApproverID:   d.ApproverID,
	}
}

// ResolveDTO is the request body for resolving one exception.
type ResolveDTO struct {
	ResolutionNote string `json:"resolutionNote" validate:"required,max=2000"`
}

func (d *ResolveDTO) Ok() (serrors.ValidationErrors, bool) {
	return validateDTO(d)
}

// BulkResolveDTO resolves many exceptions with one shared note.
type BulkResolveDTO struct {
	Items          []BulkResolveItemDTO `json:"items" validate:"required,min=1,dive"`
	ResolutionNote string               `json:"resolutionNote" validate:"required,max=2000"`
}

type BulkResolveItemDTO struct {
	RunID      string `json:"runId" validate:"required"`
	EmployeeID string `json:"employeeId" validate:"required"`
}

func (d *BulkResolveDTO) Ok() (serrors.ValidationErrors, bool) {
	return validateDTO(d)
}

func (d *BulkResolveDTO) Requests() []services.ResolveRequest {
	reqs := make([]services.ResolveRequest, 0, len(d.Items))
	for _, item := range d.Items {
		reqs = append(reqs, services.ResolveRequest{
			RunID:      item.RunID,
			EmployeeID: item.EmployeeID,
			Note:       d.ResolutionNote,
		})
	}
	return reqs
}

func validateDTO(dto any) (serrors.ValidationErrors, bool) {
	if err := constants.Validate.Struct(dto); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return serrors.FromValidator(verrs), false
		}
		return serrors.ValidationErrors{"body": "invalid request body"}, false
	}
	return nil, true
}
