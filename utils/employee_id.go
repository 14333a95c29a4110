// utils/employee_id.go
package utils

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salescomm/commission_backend/models"
)

// EmployeeIDPrefix returns the employee-id prefix for a role:
// E for executives, M for managers, A for admins.
func EmployeeIDPrefix(role string) string {
	switch role {
	case models.RoleExecutive:
		return "E"
	case models.RoleManager:
		return "M"
	default:
		return "A"
	}
}

// NextEmployeeID increments the numeric part of the highest existing id.
// lastID is empty when no user with this prefix exists yet.
func NextEmployeeID(prefix, lastID string) string {
	if lastID == "" {
		return prefix + "001"
	}

	lastNumber, err := strconv.Atoi(lastID[1:])
	if err != nil {
		lastNumber = 0
	}
	return fmt.Sprintf("%s%03d", prefix, lastNumber+1)
}

// GenerateEmployeeID produces the next sequential employee id for a role,
// e.g. E001, E002 ... for executives.
func GenerateEmployeeID(db *mongo.Database, role string) (string, error) {
	prefix := EmployeeIDPrefix(role)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Find the highest existing employee ID with this prefix
	var lastUser struct {
		EmployeeID string `bson:"employeeId"`
	}
	opts := options.FindOne().
		SetSort(bson.M{"employeeId": -1}).
		SetProjection(bson.M{"employeeId": 1})
	err := db.Collection("users").FindOne(ctx,
		bson.M{"employeeId": bson.M{"$regex": "^" + prefix}},
		opts,
	).Decode(&lastUser)

	if err == mongo.ErrNoDocuments {
		return NextEmployeeID(prefix, ""), nil
	}
	if err != nil {
		return "", err
	}

	return NextEmployeeID(prefix, lastUser.EmployeeID), nil
}
