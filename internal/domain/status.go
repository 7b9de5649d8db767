package domain

// DealStatus is one step of the deal pipeline.
type DealStatus string

const (
	DealStatusAppointmentAcquired   DealStatus = "appointment_acquired"
	DealStatusAppointmentScheduled  DealStatus = "appointment_scheduled"
	DealStatusOfferCreated          DealStatus = "offer_created"
	DealStatusOfferDeclined         DealStatus = "offer_declined"
	DealStatusContractTypeSelection DealStatus = "contract_type_selection"
	DealStatusContractSigned        DealStatus = "contract_signed"
	DealStatusInstallationScheduled DealStatus = "installation_scheduled"
	DealStatusInstallationCompleted DealStatus = "installation_completed"
	DealStatusAcceptanceConfirmed   DealStatus = "acceptance_confirmed"
	DealStatusCompleted             DealStatus = "deal_completed"
)

// ContractStatus is one step of the contract lifecycle. Contracts carry
// their own vocabulary, parallel to the deal pipeline.
type ContractStatus string

const (
	ContractStatusIntakeReceived        ContractStatus = "intake_received"
	ContractStatusCreditCheck           ContractStatus = "credit_check"
	ContractStatusDrafted               ContractStatus = "contract_drafted"
	ContractStatusCountersigned         ContractStatus = "contract_countersigned"
	ContractStatusInstallationAssigned  ContractStatus = "installation_assigned"
	ContractStatusInstallationConfirmed ContractStatus = "installation_confirmed"
	ContractStatusFinalInvoiceSent      ContractStatus = "final_invoice_sent"
	ContractStatusClosed                ContractStatus = "contract_closed"
)

// DealStatuses maps the deal vocabulary onto the pipeline phases.
var DealStatuses = NewRegistry(map[Phase][]DealStatus{
	PhaseSales: {
		DealStatusAppointmentAcquired,
		DealStatusAppointmentScheduled,
		DealStatusOfferCreated,
		DealStatusOfferDeclined,
	},
	PhaseContract: {
		DealStatusContractTypeSelection,
		DealStatusContractSigned,
	},
	PhaseInstallation: {
		DealStatusInstallationScheduled,
		DealStatusInstallationCompleted,
	},
	PhaseCompletion: {
		DealStatusAcceptanceConfirmed,
		DealStatusCompleted,
	},
})

// ContractStatuses maps the contract vocabulary onto the pipeline phases.
var ContractStatuses = NewRegistry(map[Phase][]ContractStatus{
	PhaseSales: {
		ContractStatusIntakeReceived,
		ContractStatusCreditCheck,
	},
	PhaseContract: {
		ContractStatusDrafted,
		ContractStatusCountersigned,
	},
	PhaseInstallation: {
		ContractStatusInstallationAssigned,
		ContractStatusInstallationConfirmed,
	},
	PhaseCompletion: {
		ContractStatusFinalInvoiceSent,
		ContractStatusClosed,
	},
})
