package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salescomm/commission_backend/config"
	"github.com/salescomm/commission_backend/middleware"
	"github.com/salescomm/commission_backend/models"
	"github.com/salescomm/commission_backend/utils"
	"github.com/salescomm/commission_backend/websocket"
)

// CommissionController handles the rate table, calculations and the
// approval lifecycle
type CommissionController struct {
	DB     *mongo.Client
	Hub    *websocket.Hub
	logger *log.Logger
}

// NewCommissionController creates a new commission controller
func NewCommissionController(db *mongo.Client, hub *websocket.Hub) *CommissionController {
	return &CommissionController{
		DB:     db,
		Hub:    hub,
		logger: log.New(os.Stdout, "[COMMISSION] ", log.LstdFlags),
	}
}

// GetRules returns the rate table sorted by targetFrom ascending
func (cc *CommissionController) GetRules(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "commission_rules")
	opts := options.Find().SetSort(bson.D{{Key: "targetFrom", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch commission rules",
		})
	}
	defer cursor.Close(ctx)

	var rules []models.CommissionRule
	if err := cursor.All(ctx, &rules); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commission rules",
		})
	}
	if rules == nil {
		rules = []models.CommissionRule{}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission rules retrieved successfully",
		Data:    rules,
	})
}

// CreateRule adds a new rate-table entry
func (cc *CommissionController) CreateRule(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CommissionRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.TargetFrom == nil || req.CommissionRate == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "targetFrom and commissionRate are required",
		})
	}
	if msg := validateRuleValues(*req.TargetFrom, req.TargetTo, *req.CommissionRate); msg != "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: msg,
		})
	}

	now := time.Now()
	rule := models.CommissionRule{
		TargetFrom:     *req.TargetFrom,
		TargetTo:       req.TargetTo,
		CommissionRate: *req.CommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	collection := config.GetCollection(cc.DB, "commission_rules")
	result, err := collection.InsertOne(ctx, rule)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create commission rule",
		})
	}
	rule.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Commission rule created successfully",
		Data:    rule,
	})
}

// UpdateRule modifies an existing rate-table entry
func (cc *CommissionController) UpdateRule(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ruleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid rule ID",
		})
	}

	var req models.CommissionRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	collection := config.GetCollection(cc.DB, "commission_rules")

	var existing models.CommissionRule
	if err := collection.FindOne(ctx, bson.M{"_id": ruleID}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Commission rule not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch commission rule",
		})
	}

	targetFrom := existing.TargetFrom
	if req.TargetFrom != nil {
		targetFrom = *req.TargetFrom
	}
	targetTo := existing.TargetTo
	if req.TargetTo != nil {
		targetTo = req.TargetTo
	}
	rate := existing.CommissionRate
	if req.CommissionRate != nil {
		rate = *req.CommissionRate
	}
	if msg := validateRuleValues(targetFrom, targetTo, rate); msg != "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: msg,
		})
	}

	update := bson.M{"$set": bson.M{
		"targetFrom":     targetFrom,
		"targetTo":       targetTo,
		"commissionRate": rate,
		"updatedAt":      time.Now(),
	}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": ruleID}, update); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update commission rule",
		})
	}

	var updated models.CommissionRule
	if err := collection.FindOne(ctx, bson.M{"_id": ruleID}).Decode(&updated); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch updated rule",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission rule updated successfully",
		Data:    updated,
	})
}

// DeleteRule removes a rate-table entry. Admin only; existing records keep
// their captured rate.
func (cc *CommissionController) DeleteRule(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ruleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid rule ID",
		})
	}

	collection := config.GetCollection(cc.DB, "commission_rules")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": ruleID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete commission rule",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commission rule not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission rule deleted successfully",
	})
}

// Calculate computes the commission for an executive and inserts a pending
// record. Managers may only calculate for executives on their team.
func (cc *CommissionController) Calculate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	calculatorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.CalculateRequest
	if err := c.Bind(&req); err != nil || req.ExecutiveID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Executive ID is required",
		})
	}
	executiveID, err := primitive.ObjectIDFromHex(req.ExecutiveID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid executive ID",
		})
	}

	usersColl := config.GetCollection(cc.DB, "users")

	var executive models.User
	err = usersColl.FindOne(ctx, bson.M{"_id": executiveID, "role": models.RoleExecutive}).Decode(&executive)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Sales executive not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch executive",
		})
	}

	// Managers can only calculate for their own team
	if claims.Role == models.RoleManager {
		if executive.AssignedManager == nil || *executive.AssignedManager != calculatorID {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Executive is not on your team",
			})
		}
	}

	// All recorded sales count toward the total, regardless of status
	salesColl := config.GetCollection(cc.DB, "sales")
	cursor, err := salesColl.Find(ctx, bson.M{"salesExecutive": executiveID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch sales",
		})
	}
	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode sales",
		})
	}

	rulesColl := config.GetCollection(cc.DB, "commission_rules")
	ruleCursor, err := rulesColl.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "targetFrom", Value: 1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch commission rules",
		})
	}
	var rules []models.CommissionRule
	if err := ruleCursor.All(ctx, &rules); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commission rules",
		})
	}

	salesTotal := utils.TotalSales(sales)
	target := utils.ResolveTarget(executive.AssignedTarget)
	achievement := utils.CalculateAchievement(salesTotal, target)
	rule := utils.FindApplicableRule(rules, achievement)

	var rate float64
	if rule != nil {
		rate = rule.CommissionRate
	}
	amount := utils.ComputeCommissionAmount(salesTotal, rate)

	now := time.Now()
	record := models.CommissionRecord{
		SalesExecutive:    executiveID,
		CalculatedBy:      calculatorID,
		SalesTotal:        salesTotal,
		TargetAchievement: achievement,
		CommissionRate:    rate,
		Amount:            amount,
		Status:            models.CommissionStatusPending,
		CalculationDate:   now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	recordsColl := config.GetCollection(cc.DB, "commission_records")
	result, err := recordsColl.InsertOne(ctx, record)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save commission record",
		})
	}
	record.ID = result.InsertedID.(primitive.ObjectID)

	cc.logger.Printf("Commission calculated for %s: total=%.2f achievement=%.2f rate=%.2f amount=%.2f",
		executive.EmployeeID, salesTotal, achievement, rate, amount)

	// Notify admins that a pending record awaits review
	go cc.notifyPendingRecord(executive, record)

	calculation := models.CommissionCalculation{Record: record}
	calculation.Executive.ID = executive.ID
	calculation.Executive.Name = executive.Name
	calculation.Executive.EmployeeID = executive.EmployeeID
	calculation.Executive.Target = target
	calculation.Sales.Total = salesTotal
	calculation.Sales.Count = len(sales)
	calculation.Sales.Breakdown = utils.SalesBreakdown(sales)
	calculation.Calculation.Achievement = achievement
	calculation.Calculation.CommissionRate = rate
	calculation.Calculation.CommissionAmount = amount
	calculation.Calculation.ApplicableRule = rule

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Commission calculated successfully",
		Data:    calculation,
	})
}

// GetRecords lists commission records within the caller's scope, newest first.
// Optional filters: status, executiveId.
func (cc *CommissionController) GetRecords(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	filter, err := cc.recordScopeFilter(ctx, claims.Role, requesterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve access scope",
		})
	}

	if status := c.QueryParam("status"); status != "" {
		switch status {
		case models.CommissionStatusPending, models.CommissionStatusApproved,
			models.CommissionStatusRejected, models.CommissionStatusPaid:
			filter["status"] = status
		default:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid status filter",
			})
		}
	}

	if execParam := c.QueryParam("executiveId"); execParam != "" {
		execID, err := primitive.ObjectIDFromHex(execParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid executive ID",
			})
		}
		allowed, err := cc.executiveInScope(ctx, claims.Role, requesterID, execID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to resolve access scope",
			})
		}
		if !allowed {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for this executive",
			})
		}
		filter["salesExecutive"] = execID
	}

	collection := config.GetCollection(cc.DB, "commission_records")
	opts := options.Find().SetSort(bson.D{{Key: "calculationDate", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch commission records",
		})
	}
	defer cursor.Close(ctx)

	var records []models.CommissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commission records",
		})
	}
	if records == nil {
		records = []models.CommissionRecord{}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission records retrieved successfully",
		Data:    records,
	})
}

// Approve moves a pending record to approved. The status precondition is
// enforced atomically in the update filter so concurrent decisions cannot
// both win.
func (cc *CommissionController) Approve(c echo.Context) error {
	return cc.decideRecord(c, models.CommissionStatusApproved)
}

// Reject moves a pending record to rejected
func (cc *CommissionController) Reject(c echo.Context) error {
	return cc.decideRecord(c, models.CommissionStatusRejected)
}

func (cc *CommissionController) decideRecord(c echo.Context, newStatus string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid record ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	deciderID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	requiredStatus, _ := models.RequiredStatusFor(newStatus)
	set := models.TransitionSet(newStatus, deciderID, time.Now())

	collection := config.GetCollection(cc.DB, "commission_records")
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record models.CommissionRecord
	err = collection.FindOneAndUpdate(ctx,
		bson.M{"_id": recordID, "status": requiredStatus},
		bson.M{"$set": set}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the record does not exist or it already left pending
			count, countErr := collection.CountDocuments(ctx, bson.M{"_id": recordID})
			if countErr == nil && count == 0 {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Commission record not found",
				})
			}
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: fmt.Sprintf("Commission record is not %s", requiredStatus),
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update commission record",
		})
	}

	cc.logger.Printf("Commission record %s %s by %s", recordID.Hex(), newStatus, claims.UserID)

	go cc.notifyDecision(record, newStatus)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Commission record %s successfully", newStatus),
		Data:    record,
	})
}

// Pay moves an approved record to paid. Admin only; the approved precondition
// is enforced in the update filter.
func (cc *CommissionController) Pay(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid record ID",
		})
	}

	requiredStatus, _ := models.RequiredStatusFor(models.CommissionStatusPaid)
	set := models.TransitionSet(models.CommissionStatusPaid, primitive.NilObjectID, time.Now())

	collection := config.GetCollection(cc.DB, "commission_records")
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record models.CommissionRecord
	err = collection.FindOneAndUpdate(ctx,
		bson.M{"_id": recordID, "status": requiredStatus},
		bson.M{"$set": set}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			count, countErr := collection.CountDocuments(ctx, bson.M{"_id": recordID})
			if countErr == nil && count == 0 {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Commission record not found",
				})
			}
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: fmt.Sprintf("Commission record is not %s", requiredStatus),
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update commission record",
		})
	}

	cc.logger.Printf("Commission record %s marked paid", recordID.Hex())

	go cc.notifyDecision(record, models.CommissionStatusPaid)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission record marked as paid",
		Data:    record,
	})
}

// DownloadStatement builds the printable statement for a record, including a
// verification QR code. Access follows the record scope rules.
func (cc *CommissionController) DownloadStatement(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recordID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid record ID",
		})
	}

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}
	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	recordsColl := config.GetCollection(cc.DB, "commission_records")
	var record models.CommissionRecord
	err = recordsColl.FindOne(ctx, bson.M{"_id": recordID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Commission record not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch commission record",
		})
	}

	allowed, err := cc.executiveInScope(ctx, claims.Role, requesterID, record.SalesExecutive)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve access scope",
		})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied for this statement",
		})
	}

	usersColl := config.GetCollection(cc.DB, "users")
	var executive models.User
	if err := usersColl.FindOne(ctx, bson.M{"_id": record.SalesExecutive}).Decode(&executive); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch executive",
		})
	}

	var calculator models.User
	if err := usersColl.FindOne(ctx, bson.M{"_id": record.CalculatedBy}).Decode(&calculator); err != nil {
		// The calculator account may have been deleted; the statement still renders
		cc.logger.Printf("Statement %s: calculator %s not found", recordID.Hex(), record.CalculatedBy.Hex())
	}

	salesColl := config.GetCollection(cc.DB, "sales")
	cursor, err := salesColl.Find(ctx, bson.M{"salesExecutive": record.SalesExecutive})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch sales",
		})
	}
	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode sales",
		})
	}

	start, end := utils.StatementPeriod(record.CalculationDate)

	statement := models.CommissionStatement{
		SalesBreakdown:  utils.SalesBreakdown(sales),
		CalculationDate: record.CalculationDate,
		Status:          record.Status,
	}
	statement.Executive.Name = executive.Name
	statement.Executive.EmployeeID = executive.EmployeeID
	statement.Executive.Target = utils.ResolveTarget(executive.AssignedTarget)
	statement.Period.StartDate = start
	statement.Period.EndDate = end
	statement.Calculation.SalesTotal = record.SalesTotal
	statement.Calculation.TargetAchievement = record.TargetAchievement
	statement.Calculation.CommissionRate = record.CommissionRate
	statement.Calculation.CommissionAmount = record.Amount
	statement.CalculatedBy.Name = calculator.Name
	statement.CalculatedBy.EmployeeID = calculator.EmployeeID

	qrData, err := cc.generateVerificationQR(record)
	if err != nil {
		cc.logger.Printf("Failed to generate statement QR for %s: %v", recordID.Hex(), err)
	} else {
		statement.VerificationQR = qrData
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission statement generated successfully",
		Data:    statement,
	})
}

// generateVerificationQR encodes the record identity into a QR image so a
// printed statement can be checked against the stored record
func (cc *CommissionController) generateVerificationQR(record models.CommissionRecord) (string, error) {
	content := fmt.Sprintf("commission-record:%s:%s:%.2f",
		record.ID.Hex(), record.Status, record.Amount)

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", err
	}

	base64QR := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/png;base64," + base64QR, nil
}

func (cc *CommissionController) recordScopeFilter(ctx context.Context, role string, requesterID primitive.ObjectID) (bson.M, error) {
	switch role {
	case models.RoleAdmin:
		return bson.M{}, nil
	case models.RoleManager:
		teamIDs, err := cc.teamExecutiveIDs(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		return bson.M{"salesExecutive": bson.M{"$in": teamIDs}}, nil
	default:
		return bson.M{"salesExecutive": requesterID}, nil
	}
}

func (cc *CommissionController) executiveInScope(ctx context.Context, role string, requesterID, executiveID primitive.ObjectID) (bool, error) {
	switch role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleManager:
		collection := config.GetCollection(cc.DB, "users")
		count, err := collection.CountDocuments(ctx, bson.M{"_id": executiveID, "assignedManager": requesterID})
		if err != nil {
			return false, err
		}
		return count > 0, nil
	default:
		return requesterID == executiveID, nil
	}
}

func (cc *CommissionController) teamExecutiveIDs(ctx context.Context, managerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	collection := config.GetCollection(cc.DB, "users")
	cursor, err := collection.Find(ctx, bson.M{"assignedManager": managerID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := []primitive.ObjectID{}
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// notifyPendingRecord alerts admins and the executive's manager that a new
// record awaits review
func (cc *CommissionController) notifyPendingRecord(executive models.User, record models.CommissionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	title := "Commission pending approval"
	message := fmt.Sprintf("A commission of %.2f for %s is awaiting approval", record.Amount, executive.Name)

	collection := config.GetCollection(cc.DB, "users")
	cursor, err := collection.Find(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		cc.logger.Printf("Failed to fetch admins for notification: %v", err)
		return
	}
	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		cc.logger.Printf("Failed to decode admins for notification: %v", err)
		return
	}

	for _, admin := range admins {
		utils.NotifyCommissionEvent(cc.DB, admin.ID, models.NotificationTypeCommissionPending, title, message, record)
		if cc.Hub != nil {
			if err := cc.Hub.NotifyPendingCommission(admin.ID, record); err != nil {
				cc.logger.Printf("Websocket notify failed for %s: %v", admin.ID.Hex(), err)
			}
		}
	}

	if executive.AssignedManager != nil {
		utils.NotifyCommissionEvent(cc.DB, *executive.AssignedManager, models.NotificationTypeCommissionPending, title, message, record)
		if cc.Hub != nil {
			if err := cc.Hub.NotifyPendingCommission(*executive.AssignedManager, record); err != nil {
				cc.logger.Printf("Websocket notify failed for %s: %v", executive.AssignedManager.Hex(), err)
			}
		}
	}
}

// notifyDecision informs the executive that their record changed status
func (cc *CommissionController) notifyDecision(record models.CommissionRecord, newStatus string) {
	var notifType, title string
	switch newStatus {
	case models.CommissionStatusApproved:
		notifType = models.NotificationTypeCommissionApproved
		title = "Commission approved"
	case models.CommissionStatusRejected:
		notifType = models.NotificationTypeCommissionRejected
		title = "Commission rejected"
	case models.CommissionStatusPaid:
		notifType = models.NotificationTypeCommissionPaid
		title = "Commission paid"
	default:
		return
	}

	message := fmt.Sprintf("Your commission of %.2f is now %s", record.Amount, newStatus)
	utils.NotifyCommissionEvent(cc.DB, record.SalesExecutive, notifType, title, message, record)

	if cc.Hub != nil {
		if err := cc.Hub.NotifyCommissionStatus(record.SalesExecutive, record); err != nil {
			cc.logger.Printf("Websocket notify failed for %s: %v", record.SalesExecutive.Hex(), err)
		}
	}
}

func validateRuleValues(targetFrom float64, targetTo *float64, rate float64) string {
	if targetFrom < 0 {
		return "targetFrom cannot be negative"
	}
	if targetTo != nil && *targetTo < targetFrom {
		return "targetTo cannot be less than targetFrom"
	}
	if rate < 0 || rate > 100 {
		return "commissionRate must be between 0 and 100"
	}
	return ""
}
