package api

import (
	"net/http"

	"github.com/helioscrm/pipeline/internal/service"
)

// Handler bundles the services the HTTP surface exposes.
type Handler struct {
	deals      *service.DealService
	contracts  *service.ContractService
	customers  *service.CustomerService
	activities *service.ActivityService
	timeline   *service.TimelineService
	pageSize   int
}

// NewHandler wires the HTTP surface. pageSize is the default timeline
// page before the explicit expand action.
func NewHandler(
	deals *service.DealService,
	contracts *service.ContractService,
	customers *service.CustomerService,
	activities *service.ActivityService,
	timeline *service.TimelineService,
	pageSize int,
) *Handler {
	return &Handler{
		deals:      deals,
		contracts:  contracts,
		customers:  customers,
		activities: activities,
		timeline:   timeline,
		pageSize:   pageSize,
	}
}

// Routes mounts every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/customers", h.createCustomer)
	mux.HandleFunc("GET /api/customers/{id}", h.getCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", h.updateCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", h.deleteCustomer)
	mux.HandleFunc("GET /api/customers/{id}/timeline", h.customerTimeline)
	mux.HandleFunc("POST /api/customers/{id}/activities", h.addActivity)

	mux.HandleFunc("POST /api/deals", h.createDeal)
	mux.HandleFunc("GET /api/deals", h.listDeals)
	mux.HandleFunc("GET /api/deals/{id}", h.getDeal)
	mux.HandleFunc("PUT /api/deals/{id}", h.updateDeal)
	mux.HandleFunc("DELETE /api/deals/{id}", h.deleteDeal)
	mux.HandleFunc("GET /api/deals/{id}/transitions", h.dealTransitions)
	mux.HandleFunc("POST /api/deals/{id}/status", h.changeDealStatus)
	mux.HandleFunc("GET /api/deals/{id}/timeline", h.dealTimeline)
	mux.HandleFunc("POST /api/deals/{id}/activities", h.addActivity)

	mux.HandleFunc("POST /api/contracts", h.createContract)
	mux.HandleFunc("GET /api/contracts/{id}", h.getContract)
	mux.HandleFunc("PUT /api/contracts/{id}", h.updateContract)
	mux.HandleFunc("DELETE /api/contracts/{id}", h.deleteContract)
	mux.HandleFunc("GET /api/contracts/{id}/transitions", h.contractTransitions)
	mux.HandleFunc("POST /api/contracts/{id}/status", h.changeContractStatus)
	mux.HandleFunc("GET /api/contracts/{id}/timeline", h.contractTimeline)
	mux.HandleFunc("POST /api/contracts/{id}/activities", h.addActivity)

	mux.HandleFunc("PUT /api/activities/{id}", h.editActivity)
	mux.HandleFunc("DELETE /api/activities/{id}", h.removeActivity)

	return mux
}
