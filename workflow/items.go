package workflow

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
)

// CreateWorkItemInput são os campos aceitos na criação de um item.
type CreateWorkItemInput struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeUID string `json:"assignee_uid"`
	ManagerUID  string `json:"manager_uid"`
	ProjectID   string `json:"project_id"`
}

// CreateWorkItem cria um item de trabalho no estado inicial (not_started).
// A criação de entidades é um colaborador fino do motor: nenhuma regra do
// ciclo de vida se aplica aqui além do estado inicial.
func (e *Engine) CreateWorkItem(ctx context.Context, input CreateWorkItemInput, creator models.Actor) (*models.WorkItem, error) {
	if input.Title == "" {
		return nil, &ValidationError{Reason: "título é obrigatório"}
	}
	if input.Kind != models.EntityKindTask && input.Kind != models.EntityKindProject {
		return nil, &ValidationError{Reason: "kind deve ser task ou project"}
	}
	if input.Kind == models.EntityKindProject && input.ProjectID != "" {
		return nil, &ValidationError{Reason: "projeto não pode ter projeto pai"}
	}

	assigneeUID := input.AssigneeUID
	assigneeName := ""
	if assigneeUID == "" {
		// Sem responsável explícito, o criador assume
		assigneeUID = creator.UID
		assigneeName = creator.DisplayName
	}

	now := time.Now().UTC()
	item := models.WorkItem{
		Kind:         input.Kind,
		Title:        input.Title,
		Description:  input.Description,
		Status:       models.Status{Kind: models.StatusNotStarted},
		AssigneeUID:  assigneeUID,
		AssigneeName: assigneeName,
		CreatorUID:   creator.UID,
		CreatorName:  creator.DisplayName,
		ManagerUID:   input.ManagerUID,
		ProjectID:    input.ProjectID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	docRef := e.fs.Collection(WorkItemsCollection).NewDoc()
	if _, err := docRef.Create(ctx, &item); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	item.ID = docRef.ID

	utilities.LogInfo("Item de trabalho criado: %s (%s) por %s", item.Title, item.ID, creator.UID)
	return &item, nil
}

// ListWorkItems lista itens com filtros opcionais por responsável e tipo,
// do mais recente para o mais antigo.
func (e *Engine) ListWorkItems(ctx context.Context, assigneeUID, kind string, limit int) ([]models.WorkItem, error) {
	if limit <= 0 {
		limit = 100
	}
	query := e.fs.Collection(WorkItemsCollection).Query
	if assigneeUID != "" {
		query = query.Where("assignee_uid", "==", assigneeUID)
	}
	if kind != "" {
		query = query.Where("kind", "==", kind)
	}
	iter := query.OrderBy("created_at", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	items := []models.WorkItem{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &PersistenceError{Err: err}
		}
		var item models.WorkItem
		if err := snap.DataTo(&item); err != nil {
			return nil, &PersistenceError{Err: err}
		}
		item.ID = snap.Ref.ID
		items = append(items, item)
	}
	return items, nil
}
