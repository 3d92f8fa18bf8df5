package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gestor-tarefas/models"
	"gestor-tarefas/uploads"
	"gestor-tarefas/utilities"
)

// Coleções do Firestore usadas pelo motor de workflow.
const (
	WorkItemsCollection     = "work_items"
	StatusUpdatesCollection = "status_updates"
)

// Limite de tentativas da transação otimista antes de desistir com
// PersistenceError.
const transactionAttempts = 5

// Notifier recebe os eventos do workflow depois que a transação foi
// confirmada. As chamadas são fire-and-forget: o motor não espera nem
// propaga falhas de notificação.
type Notifier interface {
	WorkItemCompleted(item *models.WorkItem, actor models.Actor)
	WorkItemUpdated(item *models.WorkItem, actor models.Actor, newStatus models.Status, message string)
	WorkItemApproved(item *models.WorkItem, admin models.Actor)
	WorkItemRejected(item *models.WorkItem, admin models.Actor, reason string)
}

// BlobUploader é o pipeline de anexos consumido pelo motor.
type BlobUploader interface {
	UploadBatch(ctx context.Context, files []uploads.FileBlob, prefix string, actor models.Actor, onProgress func(percent float64)) ([]models.Attachment, error)
}

// Engine é a máquina de estados do ciclo de vida: valida e aplica transições
// de status gravando, numa única transação, a mutação do item e o registro
// append-only do histórico.
type Engine struct {
	fs       *firestore.Client
	uploader BlobUploader
	notifier Notifier
}

func NewEngine(fs *firestore.Client, uploader BlobUploader, notifier Notifier) *Engine {
	return &Engine{fs: fs, uploader: uploader, notifier: notifier}
}

// SubmitUpdate registra uma atualização de progresso: valida a entrada, envia
// os anexos (pré-requisito bloqueante da transição), aplica a transição e
// dispara as notificações de forma assíncrona.
func (e *Engine) SubmitUpdate(ctx context.Context, ref models.EntityRef, actor models.Actor, newStatus models.Status, message string, files []uploads.FileBlob, onProgress func(percent float64)) error {
	// Validações resolvidas na borda, antes de qualquer efeito de rede
	if message == "" {
		return &ValidationError{Reason: "mensagem de atualização é obrigatória"}
	}
	if newStatus.Kind == models.StatusCustom && newStatus.Custom == "" {
		return &ValidationError{Reason: "status custom exige um rótulo não vazio"}
	}
	if newStatus.Kind == models.StatusPendingApproval {
		return &ValidationError{Reason: "use a ação de conclusão para entrar em pending_approval"}
	}

	// Checagem de permissão antes dos uploads, para não enviar bytes de uma
	// submissão que seria rejeitada de qualquer forma. A transação revalida.
	item, err := e.GetWorkItem(ctx, ref)
	if err != nil {
		return err
	}
	ref.Kind = item.Kind
	if err := validateTransition(item, actor, newStatus, message); err != nil {
		return err
	}

	// Uploads completam antes da escrita: um lote que falha nunca deixa um
	// registro de log apontando para anexos inexistentes.
	var attachments []models.Attachment
	if len(files) > 0 {
		prefix := fmt.Sprintf("anexos/%s/%s", ref.Kind, ref.ID)
		attachments, err = e.uploader.UploadBatch(ctx, files, prefix, actor, onProgress)
		if err != nil {
			utilities.LogError(err, "Lote de anexos abortado; submissão cancelada sem mutação")
			return err
		}
	}

	updated, err := e.applyTransition(ctx, ref, actor, newStatus, message, attachments, false)
	if err != nil {
		return err
	}

	go e.notifier.WorkItemUpdated(updated, actor, newStatus, message)
	return nil
}

// MarkComplete move o item para pending_approval, marca a data de conclusão e
// grava o registro de histórico com is_completed=true — tudo na mesma
// transação. Administradores são notificados em seguida.
func (e *Engine) MarkComplete(ctx context.Context, ref models.EntityRef, actor models.Actor) error {
	newStatus := models.Status{Kind: models.StatusPendingApproval}
	message := "Item marcado como concluído; aguardando aprovação"

	updated, err := e.applyTransition(ctx, ref, actor, newStatus, message, nil, true)
	if err != nil {
		return err
	}

	go e.notifier.WorkItemCompleted(updated, actor)
	return nil
}

// Approve é a aprovação de um administrador: pending_approval -> verified.
func (e *Engine) Approve(ctx context.Context, ref models.EntityRef, admin models.Actor) error {
	if !admin.IsAdmin() {
		return &AuthorizationError{Reason: "somente administradores podem aprovar"}
	}

	newStatus := models.Status{Kind: models.StatusVerified}
	updated, err := e.applyTransition(ctx, ref, admin, newStatus, "Conclusão aprovada", nil, false)
	if err != nil {
		return err
	}

	go e.notifier.WorkItemApproved(updated, admin)
	return nil
}

// Reject é a rejeição de um administrador: pending_approval -> in_progress.
// O motivo é obrigatório e chega ao responsável como notificação.
func (e *Engine) Reject(ctx context.Context, ref models.EntityRef, admin models.Actor, reason string) error {
	if !admin.IsAdmin() {
		return &AuthorizationError{Reason: "somente administradores podem rejeitar"}
	}
	if reason == "" {
		return &ValidationError{Reason: "rejeição exige um motivo"}
	}

	newStatus := models.Status{Kind: models.StatusInProgress}
	updated, err := e.applyTransition(ctx, ref, admin, newStatus, reason, nil, false)
	if err != nil {
		return err
	}

	go e.notifier.WorkItemRejected(updated, admin, reason)
	return nil
}

// GetWorkItem lê o estado atual de um item de trabalho.
func (e *Engine) GetWorkItem(ctx context.Context, ref models.EntityRef) (*models.WorkItem, error) {
	snap, err := e.fs.Collection(WorkItemsCollection).Doc(ref.ID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, &NotFoundError{EntityID: ref.ID}
		}
		return nil, &PersistenceError{Err: err}
	}
	var item models.WorkItem
	if err := snap.DataTo(&item); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	item.ID = snap.Ref.ID
	return &item, nil
}

// applyTransition é o caminho único de mutação do WorkItem. Lê o estado atual,
// valida a transição contra ele e grava o item mutado e o registro de log como
// uma unidade: nenhum leitor observa um sem o outro. Em conflito de escrita
// concorrente, o Firestore reexecuta a função a partir da leitura, com as
// entradas originais do chamador, até transactionAttempts vezes.
func (e *Engine) applyTransition(ctx context.Context, ref models.EntityRef, actor models.Actor, newStatus models.Status, message string, attachments []models.Attachment, isCompleted bool) (*models.WorkItem, error) {
	itemRef := e.fs.Collection(WorkItemsCollection).Doc(ref.ID)

	var result models.WorkItem
	err := e.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(itemRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return &NotFoundError{EntityID: ref.ID}
			}
			return err
		}

		var item models.WorkItem
		if err := snap.DataTo(&item); err != nil {
			return err
		}
		item.ID = snap.Ref.ID

		if err := validateTransition(&item, actor, newStatus, message); err != nil {
			return err
		}

		now := time.Now().UTC()
		item.Status = newStatus
		item.PendingApproval = newStatus.IsPendingApproval()
		item.UpdateSeq++
		item.UpdatedAt = now
		if isCompleted {
			item.CompletedAt = &now
		}

		record := models.StatusUpdateRecord{
			EntityID:    item.ID,
			EntityKind:  item.Kind,
			Status:      newStatus,
			Message:     message,
			Attachments: attachments,
			AuthorUID:   actor.UID,
			AuthorName:  actor.DisplayName,
			IsCompleted: isCompleted,
			Seq:         item.UpdateSeq,
			Timestamp:   now,
		}

		logRef := e.fs.Collection(StatusUpdatesCollection).NewDoc()
		if err := tx.Create(logRef, record); err != nil {
			return err
		}
		if err := tx.Set(itemRef, &item); err != nil {
			return err
		}

		result = item
		return nil
	}, firestore.MaxAttempts(transactionAttempts))

	if err != nil {
		// Erros de domínio atravessam a transação sem virar PersistenceError
		var vErr *ValidationError
		var aErr *AuthorizationError
		var nfErr *NotFoundError
		if errors.As(err, &vErr) || errors.As(err, &aErr) || errors.As(err, &nfErr) {
			return nil, err
		}
		utilities.LogError(err, fmt.Sprintf("Transação de transição falhou para item %s", ref.ID))
		return nil, &PersistenceError{Err: err}
	}

	utilities.LogInfo("Transição aplicada: item %s agora em %q (seq %d)", result.ID, result.Status.Label(), result.UpdateSeq)
	return &result, nil
}
