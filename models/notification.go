package models

import "time"

// NotificationType etiqueta o evento que originou a notificação.
type NotificationType string

const (
	NotificationWorkItemCompleted NotificationType = "work_item_completed"
	NotificationWorkItemUpdated   NotificationType = "work_item_updated"
	NotificationWorkItemApproved  NotificationType = "work_item_approved"
	NotificationWorkItemRejected  NotificationType = "work_item_rejected"
)

// NotificationRecord é uma notificação individual de um destinatário,
// gravada no Firestore pelo dispatcher de fan-out. Um registro por
// destinatário por evento; ciclo de vida independente do workflow.
type NotificationRecord struct {
	ID           string           `json:"id" firestore:"-"` // ID do documento
	RecipientUID string           `json:"recipient_uid" firestore:"recipient_uid"`
	Type         NotificationType `json:"type" firestore:"type"`
	Title        string           `json:"title" firestore:"title"`
	Message      string           `json:"message" firestore:"message"`
	Link         string           `json:"link,omitempty" firestore:"link,omitempty"`
	EntityID     string           `json:"entity_id" firestore:"entity_id"`
	EntityKind   string           `json:"entity_kind" firestore:"entity_kind"`
	Read         bool             `json:"read" firestore:"read"`
	CreatedAt    time.Time        `json:"created_at" firestore:"created_at"`
}
