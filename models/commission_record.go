package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission record statuses. pending -> approved -> paid, pending -> rejected.
// rejected and paid are terminal.
const (
	CommissionStatusPending  = "pending"
	CommissionStatusApproved = "approved"
	CommissionStatusRejected = "rejected"
	CommissionStatusPaid     = "paid"
)

// RequiredStatusFor returns the status a record must currently hold before it
// may move to newStatus. The second return is false when newStatus is not a
// reachable state (pending, or anything unknown).
func RequiredStatusFor(newStatus string) (string, bool) {
	switch newStatus {
	case CommissionStatusApproved, CommissionStatusRejected:
		return CommissionStatusPending, true
	case CommissionStatusPaid:
		return CommissionStatusApproved, true
	}
	return "", false
}

// CanTransition reports whether a record in status current may move to next.
// Rejected and paid records never move again.
func CanTransition(current, next string) bool {
	required, ok := RequiredStatusFor(next)
	return ok && current == required
}

// TransitionSet builds the $set document for a move to newStatus, stamping
// the audit fields that belong to that transition. Paid records carry no
// actor field, only the payment date.
func TransitionSet(newStatus string, actor primitive.ObjectID, now time.Time) bson.M {
	set := bson.M{"status": newStatus, "updatedAt": now}
	switch newStatus {
	case CommissionStatusApproved:
		set["approvedBy"] = actor
		set["approvedDate"] = now
	case CommissionStatusRejected:
		set["rejectedBy"] = actor
		set["rejectedDate"] = now
	case CommissionStatusPaid:
		set["paidDate"] = now
	}
	return set
}

// CommissionRecord is one calculation result plus its approval lifecycle.
// Records are append-only: recalculation inserts a new record, it never
// overwrites an earlier one.
type CommissionRecord struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	SalesExecutive    primitive.ObjectID  `json:"salesExecutive" bson:"salesExecutive"`
	CalculatedBy      primitive.ObjectID  `json:"calculatedBy" bson:"calculatedBy"`
	SalesTotal        float64             `json:"salesTotal" bson:"salesTotal"`
	TargetAchievement float64             `json:"targetAchievement" bson:"targetAchievement"` // percent
	CommissionRate    float64             `json:"commissionRate" bson:"commissionRate"`       // percent
	Amount            float64             `json:"amount" bson:"amount"`
	Status            string              `json:"status" bson:"status"`
	CalculationDate   time.Time           `json:"calculationDate" bson:"calculationDate"`
	ApprovedBy        *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedDate      *time.Time          `json:"approvedDate,omitempty" bson:"approvedDate,omitempty"`
	RejectedBy        *primitive.ObjectID `json:"rejectedBy,omitempty" bson:"rejectedBy,omitempty"`
	RejectedDate      *time.Time          `json:"rejectedDate,omitempty" bson:"rejectedDate,omitempty"`
	PaidDate          *time.Time          `json:"paidDate,omitempty" bson:"paidDate,omitempty"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CalculateRequest is the payload for triggering a calculation
type CalculateRequest struct {
	ExecutiveID string `json:"executiveId" validate:"required"`
}

// CommissionCalculation is the full calculate response: the persisted record
// plus the inputs used, for presentation
type CommissionCalculation struct {
	Executive struct {
		ID         primitive.ObjectID `json:"id"`
		Name       string             `json:"name"`
		EmployeeID string             `json:"employeeId"`
		Target     float64            `json:"target"`
	} `json:"executive"`
	Sales struct {
		Total     float64             `json:"total"`
		Count     int                 `json:"count"`
		Breakdown []SaleBreakdownItem `json:"breakdown"`
	} `json:"sales"`
	Calculation struct {
		Achievement      float64         `json:"achievement"`
		CommissionRate   float64         `json:"commissionRate"`
		CommissionAmount float64         `json:"commissionAmount"`
		ApplicableRule   *CommissionRule `json:"applicableRule"`
	} `json:"calculation"`
	Record CommissionRecord `json:"record"`
}

// CommissionStatement is the downloadable statement for a single record
type CommissionStatement struct {
	Executive struct {
		Name       string  `json:"name"`
		EmployeeID string  `json:"employeeId"`
		Target     float64 `json:"target"`
	} `json:"executive"`
	Period struct {
		StartDate time.Time `json:"startDate"`
		EndDate   time.Time `json:"endDate"`
	} `json:"period"`
	Calculation struct {
		SalesTotal        float64 `json:"salesTotal"`
		TargetAchievement float64 `json:"targetAchievement"`
		CommissionRate    float64 `json:"commissionRate"`
		CommissionAmount  float64 `json:"commissionAmount"`
	} `json:"calculation"`
	SalesBreakdown []SaleBreakdownItem `json:"salesBreakdown"`
	CalculatedBy   struct {
		Name       string `json:"name"`
		EmployeeID string `json:"employeeId"`
	} `json:"calculatedBy"`
	CalculationDate time.Time `json:"calculationDate"`
	Status          string    `json:"status"`
	VerificationQR  string    `json:"verificationQR,omitempty"`
}
