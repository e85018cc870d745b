package app

import (
	"net/http"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/controllers"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/routes"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-middleware"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/gorilla/mux"
)

// NewRouter registers every route. Literal paths are registered before
// their {id} siblings so mux matches them first.
func (a *App) NewRouter() *mux.Router {
	healthController := controllers.NewHealthController(a.Store)
	occupancyController := controllers.NewOccupancyController(a.Occupancy)
	paymentController := controllers.NewPaymentController(a.Payments)
	incidentController := controllers.NewIncidentController(a.Incidents)
	registryController := controllers.NewRegistryController(a.Registry)
	scanController := controllers.NewScanController(a.Scan)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Any authenticated caller; managers enforce capabilities.
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(a.Config.RSAPublicKey))

	secured.HandleFunc(routes.OccupancyBindTenant, occupancyController.BindTenantHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OccupancyTerminateContract, occupancyController.TerminateContractHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OccupancyExpireContract, occupancyController.ExpireContractHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OccupancyMaintenance, occupancyController.SetMaintenanceHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OccupancyRetireDepartment, occupancyController.RetireDepartmentHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.ContractPayments, paymentController.ListContractPaymentsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ContractPaymentsSchedule, paymentController.SchedulePaymentsHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PaymentsCharges, paymentController.CreateServiceChargeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PaymentsMine, paymentController.ListMyPaymentsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Payment, paymentController.GetPaymentHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.PaymentSubmit, paymentController.SubmitReceiptHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PaymentVerify, paymentController.VerifyPaymentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PaymentOverdue, paymentController.MarkOverdueHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.PaymentSplit, paymentController.SplitPaymentHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.Incidents, incidentController.ReportIncidentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.IncidentsMine, incidentController.ListMyIncidentsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Incident, incidentController.GetIncidentHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.IncidentAdvance, incidentController.AdvanceIncidentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.IncidentMessage, incidentController.AttachMessageHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.MyUnit, registryController.MyUnitHandler).Methods(http.MethodGet)

	// Admin only
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware(a.Config.RSAPublicKey))
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.HandleFunc(routes.AdminBuildings, registryController.CreateBuildingHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminBuildings, registryController.ListBuildingsHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminBuildingDepartments, registryController.ListDepartmentsHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminDepartments, registryController.CreateDepartmentHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminDepartment, registryController.GetDepartmentHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminTenants, registryController.CreateTenantHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminTenants, registryController.ListTenantsHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminTenant, registryController.GetTenantHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminProviders, registryController.CreateProviderHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminProviders, registryController.ListProvidersHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminScan, scanController.RunScanHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminAudit, registryController.AuditTrailHandler).Methods(http.MethodGet)

	return router
}
