package entities

import "time"

type NotificationType string

const (
	NotificationOrder   NotificationType = "order"
	NotificationPayment NotificationType = "payment"
	NotificationMessage NotificationType = "message"
)

type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]string
	CreatedAt time.Time
}
