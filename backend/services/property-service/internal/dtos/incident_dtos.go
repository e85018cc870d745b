package dtos

type ReportIncidentRequest struct {
	// TenantID defaults to the caller for tenants.
	TenantID     string `json:"tenant_id" validate:"omitempty,uuid"`
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Category     string `json:"category" validate:"required,max=64"`
	Description  string `json:"description" validate:"required,max=2000"`
	Urgency      string `json:"urgency" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

type AdvanceIncidentRequest struct {
	Status     string  `json:"status" validate:"required,oneof=OPEN IN_REVIEW ASSIGNED IN_PROGRESS COMPLETED"`
	ProviderID string  `json:"provider_id" validate:"omitempty,uuid"`
	Category   *string `json:"category" validate:"omitempty,max=64"`
	Urgency    *string `json:"urgency" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

type AttachMessageRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}
