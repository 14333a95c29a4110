package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionRule maps an achievement-percentage band to a commission rate.
// TargetTo is nil for the unbounded top band. Rules are evaluated sorted by
// targetFrom ascending; range contiguity is the operator's responsibility.
type CommissionRule struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TargetFrom     float64            `json:"targetFrom" bson:"targetFrom"`
	TargetTo       *float64           `json:"targetTo" bson:"targetTo"`
	CommissionRate float64            `json:"commissionRate" bson:"commissionRate"` // percent, 0-100
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommissionRuleRequest is the create/update payload for a rule
type CommissionRuleRequest struct {
	TargetFrom     *float64 `json:"targetFrom"`
	TargetTo       *float64 `json:"targetTo"`
	CommissionRate *float64 `json:"commissionRate"`
}
