package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/salescomm/commission_backend/config"
	"github.com/salescomm/commission_backend/models"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email via the configured SMTP server
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// SendFCMNotificationToUser sends a Firebase Cloud Messaging notification to a user
func SendFCMNotificationToUser(db *mongo.Client, userID primitive.ObjectID, title, message string, data map[string]interface{}) error {
	// Get user's FCM token from database
	collection := config.GetCollection(db, "users")
	var user models.User
	err := collection.FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.FCMToken == "" {
		return fmt.Errorf("user has no FCM token")
	}

	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		log.Printf("Error getting messaging client: %v", err)
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	notificationData := map[string]string{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	// Override/merge with provided data
	if data != nil {
		for key, value := range data {
			if str, ok := value.(string); ok {
				notificationData[key] = str
			} else {
				notificationData[key] = ""
			}
		}
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: notificationData,
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		log.Printf("Error sending FCM notification to user: %v", err)
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}

	log.Printf("FCM notification sent successfully to user %s: %s", userID.Hex(), response)
	return nil
}

// NotifyCommissionEvent fans a commission lifecycle event out to the affected
// user: stored notification, email, and FCM push. Delivery failures are
// logged, never surfaced to the caller - the status transition has already
// been persisted.
func NotifyCommissionEvent(db *mongo.Client, userID primitive.ObjectID, notifType, title, message string, record models.CommissionRecord) {
	data := map[string]interface{}{
		"recordId": record.ID.Hex(),
		"status":   record.Status,
		"amount":   fmt.Sprintf("%.2f", record.Amount),
	}

	if err := SaveNotification(db, userID, title, message, notifType, data); err != nil {
		log.Printf("Failed to save notification for user %s: %v", userID.Hex(), err)
	}

	var user models.User
	err := config.GetCollection(db, "users").FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		log.Printf("Failed to find user %s for notification: %v", userID.Hex(), err)
		return
	}

	if err := SendEmail(user.Email, title, message); err != nil {
		log.Printf("Failed to send email to %s: %v", user.Email, err)
	}

	if err := SendFCMNotificationToUser(db, userID, title, message, data); err != nil {
		log.Printf("Failed to send push to user %s: %v", userID.Hex(), err)
	}
}
