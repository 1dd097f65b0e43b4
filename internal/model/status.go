package model

import "strings"

type OrderType string

const (
	OrderTypeMaintenance OrderType = "Manutenção"
	OrderTypeSale        OrderType = "Venda"
)

// OrderTypes lists the known order types in display order.
var OrderTypes = []OrderType{OrderTypeMaintenance, OrderTypeSale}

// ParseOrderType accepts the canonical labels and the aliases used by the quick
// order form ("Serviço") and by API clients ("maintenance", "sale").
func ParseOrderType(raw string) (OrderType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "manutenção", "manutencao", "maintenance", "serviço", "servico", "service":
		return OrderTypeMaintenance, true
	case "venda", "sale":
		return OrderTypeSale, true
	default:
		return "", false
	}
}

func (t OrderType) Valid() bool {
	return t == OrderTypeMaintenance || t == OrderTypeSale
}

// Prefix is the human readable id prefix of the type.
func (t OrderType) Prefix() string {
	switch t {
	case OrderTypeMaintenance:
		return "OS"
	case OrderTypeSale:
		return "VENDA"
	default:
		return ""
	}
}

type Status string

// Maintenance lifecycle.
//
//	AWAITING_EVALUATION → AWAITING_APPROVAL → AWAITING_PARTS → IN_REPAIR → REPAIR_COMPLETED → DELIVERED
//	any state before REPAIR_COMPLETED → NOT_APPROVED
const (
	StatusAwaitingEvaluation Status = "Aguardando Avaliação"
	StatusAwaitingApproval   Status = "Aguardando Aprovação do Cliente"
	StatusAwaitingParts      Status = "Aguardando Peças"
	StatusInRepair           Status = "Em Reparo"
	StatusRepairCompleted    Status = "Reparo Concluído"
	StatusDelivered          Status = "Entregue ao Cliente"
	StatusNotApproved        Status = "Não Aprovado/Cancelado"
)

// Sale lifecycle, linear.
//
//	RESERVED → AWAITING_PAYMENT → PAYMENT_CONFIRMED → READY_FOR_PICKUP → COMPLETED
const (
	StatusReserved         Status = "Reservado"
	StatusAwaitingPayment  Status = "Aguardando Pagamento"
	StatusPaymentConfirmed Status = "Pagamento Confirmado"
	StatusReadyForPickup   Status = "Pronto para Retirada/Envio"
	StatusSaleCompleted    Status = "Concluído"
)

var maintenanceStatuses = []Status{
	StatusAwaitingEvaluation,
	StatusAwaitingApproval,
	StatusAwaitingParts,
	StatusInRepair,
	StatusRepairCompleted,
	StatusDelivered,
	StatusNotApproved,
}

var saleStatuses = []Status{
	StatusReserved,
	StatusAwaitingPayment,
	StatusPaymentConfirmed,
	StatusReadyForPickup,
	StatusSaleCompleted,
}

var transitions = map[OrderType]map[Status][]Status{
	OrderTypeMaintenance: {
		StatusAwaitingEvaluation: {StatusAwaitingApproval, StatusNotApproved},
		StatusAwaitingApproval:   {StatusAwaitingParts, StatusNotApproved},
		StatusAwaitingParts:      {StatusInRepair, StatusNotApproved},
		StatusInRepair:           {StatusRepairCompleted, StatusNotApproved},
		StatusRepairCompleted:    {StatusDelivered},
	},
	OrderTypeSale: {
		StatusReserved:         {StatusAwaitingPayment},
		StatusAwaitingPayment:  {StatusPaymentConfirmed},
		StatusPaymentConfirmed: {StatusReadyForPickup},
		StatusReadyForPickup:   {StatusSaleCompleted},
	},
}

// Statuses returns a copy of the closed status set of the type, in lifecycle order.
func (t OrderType) Statuses() []Status {
	var src []Status
	switch t {
	case OrderTypeMaintenance:
		src = maintenanceStatuses
	case OrderTypeSale:
		src = saleStatuses
	}
	out := make([]Status, len(src))
	copy(out, src)
	return out
}

func (t OrderType) HasStatus(s Status) bool {
	for _, candidate := range t.Statuses() {
		if candidate == s {
			return true
		}
	}
	return false
}

func (t OrderType) InitialStatus() Status {
	switch t {
	case OrderTypeMaintenance:
		return StatusAwaitingEvaluation
	case OrderTypeSale:
		return StatusReserved
	default:
		return ""
	}
}

// NextStatuses returns the statuses reachable in one step from s.
func (t OrderType) NextStatuses(s Status) []Status {
	next := transitions[t][s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from → to is an edge of the type's graph.
// Staying on the same status is always allowed.
func (t OrderType) CanTransition(from, to Status) bool {
	if !t.HasStatus(from) || !t.HasStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[t][from] {
		if next == to {
			return true
		}
	}
	return false
}

// Stage is the coarse status shown on the quick order list.
type Stage string

const (
	StagePending         Stage = "Pendente"
	StageInProgress      Stage = "Em Andamento"
	StageAwaitingPayment Stage = "Aguardando Pagamento"
	StageCompleted       Stage = "Concluído"
	StageCancelled       Stage = "Cancelado"
)

var Stages = []Stage{
	StagePending,
	StageInProgress,
	StageAwaitingPayment,
	StageCompleted,
	StageCancelled,
}

func ParseStage(raw string) (Stage, bool) {
	raw = strings.TrimSpace(raw)
	for _, stage := range Stages {
		if strings.EqualFold(string(stage), raw) {
			return stage, true
		}
	}
	return "", false
}

// ParseStatus matches raw against the statuses of every order type, ignoring case.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, orderType := range OrderTypes {
		for _, status := range orderType.Statuses() {
			if strings.EqualFold(string(status), raw) {
				return status, true
			}
		}
	}
	return "", false
}

var stageByStatus = map[Status]Stage{
	StatusAwaitingEvaluation: StagePending,
	StatusAwaitingApproval:   StagePending,
	StatusAwaitingParts:      StageInProgress,
	StatusInRepair:           StageInProgress,
	StatusRepairCompleted:    StageAwaitingPayment,
	StatusDelivered:          StageCompleted,
	StatusNotApproved:        StageCancelled,

	StatusReserved:         StagePending,
	StatusAwaitingPayment:  StageAwaitingPayment,
	StatusPaymentConfirmed: StageInProgress,
	StatusReadyForPickup:   StageInProgress,
	StatusSaleCompleted:    StageCompleted,
}

// StageOf maps a lifecycle status to its coarse stage.
func StageOf(s Status) Stage {
	return stageByStatus[s]
}

type Priority string

const (
	PriorityLow    Priority = "Baixa"
	PriorityMedium Priority = "Média"
	PriorityHigh   Priority = "Alta"
	PriorityUrgent Priority = "Urgente"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) Valid() bool {
	for _, candidate := range Priorities {
		if candidate == p {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentAwaiting      PaymentStatus = "Aguardando"
	PaymentPartiallyPaid PaymentStatus = "Pago Parcial"
	PaymentFullyPaid     PaymentStatus = "Pago Total"
)

var PaymentStatuses = []PaymentStatus{PaymentAwaiting, PaymentPartiallyPaid, PaymentFullyPaid}

func (p PaymentStatus) Valid() bool {
	for _, candidate := range PaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

type ProductCondition string

const (
	ConditionNew         ProductCondition = "Novo"
	ConditionRefurbished ProductCondition = "Seminovo"
	ConditionUsed        ProductCondition = "Usado"
)

func (c ProductCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionRefurbished, ConditionUsed:
		return true
	default:
		return false
	}
}
