package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types used for commission lifecycle events
const (
	NotificationTypeCommissionPending  = "commission_pending"
	NotificationTypeCommissionApproved = "commission_approved"
	NotificationTypeCommissionRejected = "commission_rejected"
	NotificationTypeCommissionPaid     = "commission_paid"
)

// Notification is a stored in-app notification
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	Data      interface{}        `json:"data,omitempty" bson:"data,omitempty"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
