package routes

const (
	Health = "/health"

	// Occupancy
	OccupancyBindTenant        = "/api/v1/occupancy/bind-tenant"
	OccupancyTerminateContract = "/api/v1/occupancy/terminate-contract"
	OccupancyExpireContract    = "/api/v1/occupancy/contracts/{id}/expire"
	OccupancyMaintenance       = "/api/v1/occupancy/departments/{id}/maintenance"
	OccupancyRetireDepartment  = "/api/v1/occupancy/departments/{id}/retire"

	// Payments
	ContractPayments         = "/api/v1/contracts/{id}/payments"
	ContractPaymentsSchedule = "/api/v1/contracts/{id}/payments/schedule"
	PaymentsCharges          = "/api/v1/payments/charges"
	PaymentsMine             = "/api/v1/payments/mine"
	Payment                  = "/api/v1/payments/{id}"
	PaymentSubmit            = "/api/v1/payments/{id}/submit"
	PaymentVerify            = "/api/v1/payments/{id}/verify"
	PaymentOverdue           = "/api/v1/payments/{id}/overdue"
	PaymentSplit             = "/api/v1/payments/{id}/split"

	// Incidents
	Incidents       = "/api/v1/incidents"
	IncidentsMine   = "/api/v1/incidents/mine"
	Incident        = "/api/v1/incidents/{id}"
	IncidentAdvance = "/api/v1/incidents/{id}/advance"
	IncidentMessage = "/api/v1/incidents/{id}/message"

	// Tenant self-service
	MyUnit = "/api/v1/me/unit"

	// Admin registry
	AdminBuildings           = "/api/v1/admin/buildings"
	AdminBuildingDepartments = "/api/v1/admin/buildings/{id}/departments"
	AdminDepartments         = "/api/v1/admin/departments"
	AdminDepartment          = "/api/v1/admin/departments/{id}"
	AdminTenants             = "/api/v1/admin/tenants"
	AdminTenant              = "/api/v1/admin/tenants/{id}"
	AdminProviders           = "/api/v1/admin/providers"
	AdminScan                = "/api/v1/admin/scan"
	AdminAudit               = "/api/v1/admin/audit/{id}"
)
