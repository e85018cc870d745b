package dtos

type CreateBuildingRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Address    string `json:"address" validate:"max=255"`
	FloorCount int    `json:"floor_count" validate:"min=0"`
	UnitCount  int    `json:"unit_count" validate:"min=0"`
}

type CreateDepartmentRequest struct {
	BuildingID string `json:"building_id" validate:"required,uuid"`
	Number     string `json:"number" validate:"required,max=16"`
	Floor      int    `json:"floor"`
}

type CreateTenantRequest struct {
	FullName       string  `json:"full_name" validate:"required,max=160"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone" validate:"omitempty,e164"`
	DocumentNumber string  `json:"document_number" validate:"max=20"`
}

type CreateProviderRequest struct {
	Name      string  `json:"name" validate:"required,max=120"`
	Specialty string  `json:"specialty" validate:"required,max=64"`
	Phone     *string `json:"phone" validate:"omitempty,e164"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}
