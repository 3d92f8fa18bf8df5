package notifications

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gestor-tarefas/models"
)

var ErrNotificationNotFound = errors.New("notificação não encontrada")

// ListForUser devolve as notificações do usuário, da mais recente para a mais
// antiga.
func (d *Dispatcher) ListForUser(ctx context.Context, uid string, limit int) ([]models.NotificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	iter := d.fs.Collection(notificationsCollection).
		Where("recipient_uid", "==", uid).
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	records := []models.NotificationRecord{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var record models.NotificationRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, err
		}
		record.ID = snap.Ref.ID
		records = append(records, record)
	}
	return records, nil
}

// CountUnread conta as notificações não lidas do usuário.
func (d *Dispatcher) CountUnread(ctx context.Context, uid string) (int, error) {
	iter := d.fs.Collection(notificationsCollection).
		Where("recipient_uid", "==", uid).
		Where("read", "==", false).
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// MarkRead marca como lida uma notificação do próprio usuário.
func (d *Dispatcher) MarkRead(ctx context.Context, uid, notificationID string) error {
	docRef := d.fs.Collection(notificationsCollection).Doc(notificationID)
	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotificationNotFound
		}
		return err
	}
	var record models.NotificationRecord
	if err := snap.DataTo(&record); err != nil {
		return err
	}
	// Ninguém marca notificação dos outros
	if record.RecipientUID != uid {
		return ErrNotificationNotFound
	}
	_, err = docRef.Update(ctx, []firestore.Update{{Path: "read", Value: true}})
	return err
}
