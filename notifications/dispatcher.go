package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
	"gestor-tarefas/workflow"
)

const notificationsCollection = "notifications"

// Prazo de cada despacho; o workflow já foi confirmado ao chamador e não
// espera por isso.
const dispatchTimeout = 15 * time.Second

// Dispatcher resolve os interessados em um evento do workflow e grava um
// registro de notificação independente por destinatário. Falhas são engolidas
// (apenas logadas): uma escrita que falha não bloqueia os demais destinatários
// nem desfaz a transição que originou o evento.
type Dispatcher struct {
	fs *firestore.Client
	db *sql.DB
}

func NewDispatcher(fs *firestore.Client, db *sql.DB) *Dispatcher {
	return &Dispatcher{fs: fs, db: db}
}

// WorkItemCompleted notifica todos os administradores de que um item entrou em
// pending_approval. Sem administradores cadastrados, nenhum registro é criado.
func (d *Dispatcher) WorkItemCompleted(item *models.WorkItem, actor models.Actor) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	admins, err := d.adminUIDs(ctx)
	if err != nil {
		utilities.LogError(err, "Falha ao resolver administradores para notificação de conclusão")
		return
	}
	if len(admins) == 0 {
		utilities.LogDebug("Nenhum administrador cadastrado; conclusão de %s segue sem notificações", item.ID)
		return
	}

	records := CompletionRecords(item, actor, admins, time.Now().UTC())
	d.writeAll(ctx, records)
}

// WorkItemUpdated notifica o gerente do projeto sobre uma atualização de
// progresso, a menos que o gerente seja o próprio autor.
func (d *Dispatcher) WorkItemUpdated(item *models.WorkItem, actor models.Actor, newStatus models.Status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	managerUID, err := d.managerFor(ctx, item)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("Falha ao resolver gerente do item %s", item.ID))
		return
	}

	record := UpdateRecord(item, actor, managerUID, newStatus, message, time.Now().UTC())
	if record == nil {
		return
	}
	d.writeAll(ctx, []models.NotificationRecord{*record})
}

// WorkItemApproved avisa o responsável que a conclusão foi aprovada.
func (d *Dispatcher) WorkItemApproved(item *models.WorkItem, admin models.Actor) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	record := models.NotificationRecord{
		ID:           uuid.NewString(),
		RecipientUID: item.AssigneeUID,
		Type:         models.NotificationWorkItemApproved,
		Title:        "Conclusão aprovada",
		Message:      fmt.Sprintf("%s aprovou a conclusão de %q", admin.DisplayName, item.Title),
		Link:         DeepLink(item),
		EntityID:     item.ID,
		EntityKind:   item.Kind,
		CreatedAt:    time.Now().UTC(),
	}
	d.writeAll(ctx, []models.NotificationRecord{record})
}

// WorkItemRejected propaga o motivo da rejeição ao responsável pelo item.
func (d *Dispatcher) WorkItemRejected(item *models.WorkItem, admin models.Actor, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	record := models.NotificationRecord{
		ID:           uuid.NewString(),
		RecipientUID: item.AssigneeUID,
		Type:         models.NotificationWorkItemRejected,
		Title:        "Conclusão rejeitada",
		Message:      fmt.Sprintf("%s rejeitou a conclusão de %q: %s", admin.DisplayName, item.Title, reason),
		Link:         DeepLink(item),
		EntityID:     item.ID,
		EntityKind:   item.Kind,
		CreatedAt:    time.Now().UTC(),
	}
	d.writeAll(ctx, []models.NotificationRecord{record})
}

// writeAll grava cada registro de forma isolada: o erro de um destinatário é
// logado e não impede a entrega aos demais.
func (d *Dispatcher) writeAll(ctx context.Context, records []models.NotificationRecord) {
	for _, record := range records {
		docRef := d.fs.Collection(notificationsCollection).Doc(record.ID)
		if _, err := docRef.Create(ctx, record); err != nil {
			utilities.LogError(err, fmt.Sprintf("Falha ao gravar notificação para %s (evento %s)", record.RecipientUID, record.Type))
			continue
		}
		utilities.LogDebug("Notificação %s gravada para %s", record.Type, record.RecipientUID)
	}
}

// adminUIDs resolve, na tabela users do PostgreSQL, todos os usuários com
// papel de administrador.
func (d *Dispatcher) adminUIDs(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT firebase_uid FROM users WHERE role = $1", models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar administradores: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

// managerFor descobre o gerente interessado no item: o do próprio projeto, ou,
// para uma tarefa, o gerente do projeto pai.
func (d *Dispatcher) managerFor(ctx context.Context, item *models.WorkItem) (string, error) {
	if item.Kind == models.EntityKindTask && item.ProjectID != "" {
		snap, err := d.fs.Collection(workflow.WorkItemsCollection).Doc(item.ProjectID).Get(ctx)
		if err != nil {
			return "", err
		}
		var project models.WorkItem
		if err := snap.DataTo(&project); err != nil {
			return "", err
		}
		return project.ManagerUID, nil
	}
	return item.ManagerUID, nil
}

// CompletionRecords monta um registro por administrador para o evento de
// entrada em pending_approval.
func CompletionRecords(item *models.WorkItem, actor models.Actor, adminUIDs []string, now time.Time) []models.NotificationRecord {
	records := make([]models.NotificationRecord, 0, len(adminUIDs))
	for _, uid := range adminUIDs {
		records = append(records, models.NotificationRecord{
			ID:           uuid.NewString(),
			RecipientUID: uid,
			Type:         models.NotificationWorkItemCompleted,
			Title:        "Item aguardando aprovação",
			Message:      fmt.Sprintf("%s marcou %q como concluído", actor.DisplayName, item.Title),
			Link:         DeepLink(item),
			EntityID:     item.ID,
			EntityKind:   item.Kind,
			CreatedAt:    now,
		})
	}
	return records
}

// UpdateRecord monta a notificação do gerente para uma atualização de
// progresso. Devolve nil quando não há gerente ou quando o gerente é o próprio
// autor da atualização.
func UpdateRecord(item *models.WorkItem, actor models.Actor, managerUID string, newStatus models.Status, message string, now time.Time) *models.NotificationRecord {
	if managerUID == "" || managerUID == actor.UID {
		return nil
	}
	return &models.NotificationRecord{
		ID:           uuid.NewString(),
		RecipientUID: managerUID,
		Type:         models.NotificationWorkItemUpdated,
		Title:        "Atualização de progresso",
		Message:      fmt.Sprintf("%s atualizou %q para %q: %s", actor.DisplayName, item.Title, newStatus.Label(), message),
		Link:         DeepLink(item),
		EntityID:     item.ID,
		EntityKind:   item.Kind,
		CreatedAt:    now,
	}
}

// DeepLink monta o link da notificação para o item relacionado.
func DeepLink(item *models.WorkItem) string {
	return fmt.Sprintf("/workitem/%s/%s", item.Kind, item.ID)
}
