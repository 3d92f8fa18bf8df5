package models

import (
	"errors"
	"time"
)

// StatusKind enumera os status conhecidos do ciclo de vida de um item de trabalho.
type StatusKind string

const (
	StatusNotStarted       StatusKind = "not_started"
	StatusInProgress       StatusKind = "in_progress"
	StatusOnHold           StatusKind = "on_hold"
	StatusAwaitingFinances StatusKind = "awaiting_finances"
	StatusMaterialsOrdered StatusKind = "materials_ordered"
	StatusTesting          StatusKind = "testing"
	StatusReadyForReview   StatusKind = "ready_for_review"
	StatusPendingApproval  StatusKind = "pending_approval"
	StatusCompleted        StatusKind = "completed"
	StatusVerified         StatusKind = "verified"
	StatusRejected         StatusKind = "rejected"
	StatusCustom           StatusKind = "custom"
)

// Status é uma variante etiquetada: ou um dos status conhecidos, ou um rótulo
// livre quando Kind == StatusCustom. Guardar os dois campos separados mantém
// a máquina de estados exaustiva em vez de uma string aberta.
type Status struct {
	Kind   StatusKind `json:"kind" firestore:"kind"`
	Custom string     `json:"custom,omitempty" firestore:"custom,omitempty"`
}

var knownStatusKinds = map[StatusKind]bool{
	StatusNotStarted:       true,
	StatusInProgress:       true,
	StatusOnHold:           true,
	StatusAwaitingFinances: true,
	StatusMaterialsOrdered: true,
	StatusTesting:          true,
	StatusReadyForReview:   true,
	StatusPendingApproval:  true,
	StatusCompleted:        true,
	StatusVerified:         true,
	StatusRejected:         true,
	StatusCustom:           true,
}

// NewStatus monta um Status a partir do par (kind, custom) recebido do cliente.
func NewStatus(kind StatusKind, custom string) (Status, error) {
	if !knownStatusKinds[kind] {
		return Status{}, errors.New("status desconhecido: " + string(kind))
	}
	if kind == StatusCustom && custom == "" {
		return Status{}, errors.New("status custom exige um rótulo não vazio")
	}
	if kind != StatusCustom && custom != "" {
		// Rótulo só faz sentido junto com o kind custom
		return Status{}, errors.New("rótulo custom só é permitido com kind=custom")
	}
	return Status{Kind: kind, Custom: custom}, nil
}

// Label devolve o texto apresentável do status (o rótulo livre, se houver).
func (s Status) Label() string {
	if s.Kind == StatusCustom {
		return s.Custom
	}
	return string(s.Kind)
}

// IsTerminal indica se o status encerra o ciclo de vida. Apenas "verified" é
// terminal; "rejected" devolve o item para "in_progress" e portanto não encerra.
func (s Status) IsTerminal() bool {
	return s.Kind == StatusVerified
}

// IsPendingApproval indica se o item aguarda aprovação de um administrador.
func (s Status) IsPendingApproval() bool {
	return s.Kind == StatusPendingApproval
}

// Equals compara dois status, incluindo o rótulo custom.
func (s Status) Equals(other Status) bool {
	return s.Kind == other.Kind && s.Custom == other.Custom
}

// Tipos de item de trabalho.
const (
	EntityKindTask    = "task"
	EntityKindProject = "project"
)

// EntityRef identifica um item de trabalho (documento no Firestore).
type EntityRef struct {
	ID   string `json:"id" firestore:"id"`
	Kind string `json:"kind" firestore:"kind"` // "task" ou "project"
}

// WorkItem representa uma tarefa ou projeto armazenado no Firestore.
// Mutado somente através de transições validadas pelo motor de workflow.
type WorkItem struct {
	ID              string     `json:"id" firestore:"-"` // ID do documento
	Kind            string     `json:"kind" firestore:"kind"`
	Title           string     `json:"title" firestore:"title"`
	Description     string     `json:"description,omitempty" firestore:"description,omitempty"`
	Status          Status     `json:"status" firestore:"status"`
	PendingApproval bool       `json:"pending_approval" firestore:"pending_approval"`
	AssigneeUID     string     `json:"assignee_uid" firestore:"assignee_uid"`
	AssigneeName    string     `json:"assignee_name" firestore:"assignee_name"`
	CreatorUID      string     `json:"creator_uid" firestore:"creator_uid"`
	CreatorName     string     `json:"creator_name" firestore:"creator_name"`
	ManagerUID      string     `json:"manager_uid,omitempty" firestore:"manager_uid,omitempty"`
	ProjectID       string     `json:"project_id,omitempty" firestore:"project_id,omitempty"` // somente tarefas
	UpdateSeq       int64      `json:"update_seq" firestore:"update_seq"`
	CreatedAt       time.Time  `json:"created_at" firestore:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" firestore:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" firestore:"completed_at,omitempty"`
}

// Ref devolve a referência (id + kind) do item.
func (w *WorkItem) Ref() EntityRef {
	return EntityRef{ID: w.ID, Kind: w.Kind}
}

// Attachment descreve um arquivo enviado junto com uma atualização de status.
// Imutável depois de produzido pelo pipeline de upload.
type Attachment struct {
	Filename     string    `json:"filename" firestore:"filename"`
	StoragePath  string    `json:"storage_path" firestore:"storage_path"`
	ContentType  string    `json:"content_type,omitempty" firestore:"content_type,omitempty"`
	Size         int64     `json:"size" firestore:"size"`
	UploaderUID  string    `json:"uploader_uid" firestore:"uploader_uid"`
	UploaderName string    `json:"uploader_name" firestore:"uploader_name"`
	UploadedAt   time.Time `json:"uploaded_at" firestore:"uploaded_at"`
}

// StatusUpdateRecord é uma entrada do histórico de progresso de um item.
// Append-only: nunca é editada nem removida depois de gravada.
type StatusUpdateRecord struct {
	ID          string       `json:"id" firestore:"-"` // ID do documento
	EntityID    string       `json:"entity_id" firestore:"entity_id"`
	EntityKind  string       `json:"entity_kind" firestore:"entity_kind"`
	Status      Status       `json:"status" firestore:"status"`
	Message     string       `json:"message,omitempty" firestore:"message,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty" firestore:"attachments,omitempty"`
	AuthorUID   string       `json:"author_uid" firestore:"author_uid"`
	AuthorName  string       `json:"author_name" firestore:"author_name"`
	IsCompleted bool         `json:"is_completed" firestore:"is_completed"`
	Seq         int64        `json:"seq" firestore:"seq"` // desempate do ordenamento por timestamp
	Timestamp   time.Time    `json:"timestamp" firestore:"timestamp"`
}
