package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gestor-tarefas/models"
	"gestor-tarefas/uploads"
	"gestor-tarefas/utilities"
	"gestor-tarefas/workflow"
)

// Limite de memória do parse do formulário multipart (anexos maiores vão para
// arquivos temporários).
const maxMultipartMemory = 32 << 20

// SubmitUpdateHandler registra uma atualização de status com mensagem e anexos
// opcionais: POST /workitem/{id}/update (multipart/form-data).
func SubmitUpdateHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando submissão de atualização de status")

	vars := mux.Vars(r)
	entityID := vars["id"]

	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "SubmitUpdateHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		utilities.LogError(err, "SubmitUpdateHandler: Erro ao interpretar formulário multipart")
		http.Error(w, "Formulário inválido", http.StatusBadRequest)
		return
	}

	newStatus, err := models.NewStatus(
		models.StatusKind(r.FormValue("status")),
		r.FormValue("custom_status"),
	)
	if err != nil {
		utilities.LogError(err, "SubmitUpdateHandler: Status inválido")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	message := r.FormValue("message")

	// Monta os blobs a partir dos arquivos do formulário
	var files []uploads.FileBlob
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				utilities.LogError(err, fmt.Sprintf("SubmitUpdateHandler: Erro ao abrir arquivo %q", header.Filename))
				http.Error(w, "Erro ao ler arquivo enviado", http.StatusBadRequest)
				return
			}
			defer f.Close()
			files = append(files, uploads.FileBlob{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Reader:      f,
			})
		}
	}

	ref := models.EntityRef{ID: entityID}
	var lastProgress float64
	err = engine.SubmitUpdate(r.Context(), ref, actor, newStatus, message, files, func(percent float64) {
		lastProgress = percent
	})
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("SubmitUpdateHandler: Submissão rejeitada para item %s", entityID))
		writeWorkflowError(w, err)
		return
	}

	utilities.LogInfo("Atualização registrada para item %s por %s (%d anexos, progresso final %.0f%%)",
		entityID, actor.UID, len(files), lastProgress)
	w.WriteHeader(http.StatusNoContent)
}

// MarkCompleteHandler marca o item como concluído, movendo-o para
// pending_approval: POST /workitem/{id}/complete.
func MarkCompleteHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entityID := vars["id"]

	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "MarkCompleteHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	if err := engine.MarkComplete(r.Context(), models.EntityRef{ID: entityID}, actor); err != nil {
		utilities.LogError(err, fmt.Sprintf("MarkCompleteHandler: Conclusão rejeitada para item %s", entityID))
		writeWorkflowError(w, err)
		return
	}

	utilities.LogInfo("Item %s marcado como concluído por %s; aguardando aprovação", entityID, actor.UID)
	w.WriteHeader(http.StatusNoContent)
}

// ApproveHandler aprova a conclusão de um item: POST /workitem/{id}/approve.
func ApproveHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entityID := vars["id"]

	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "ApproveHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	if err := engine.Approve(r.Context(), models.EntityRef{ID: entityID}, actor); err != nil {
		utilities.LogError(err, fmt.Sprintf("ApproveHandler: Aprovação rejeitada para item %s", entityID))
		writeWorkflowError(w, err)
		return
	}

	utilities.LogInfo("Item %s aprovado por %s", entityID, actor.UID)
	w.WriteHeader(http.StatusNoContent)
}

// RejectHandler rejeita a conclusão de um item, devolvendo-o a in_progress:
// POST /workitem/{id}/reject com corpo {"reason": "..."}.
func RejectHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entityID := vars["id"]

	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "RejectHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "RejectHandler: Erro ao decodificar JSON")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := engine.Reject(r.Context(), models.EntityRef{ID: entityID}, actor, input.Reason); err != nil {
		utilities.LogError(err, fmt.Sprintf("RejectHandler: Rejeição falhou para item %s", entityID))
		writeWorkflowError(w, err)
		return
	}

	utilities.LogInfo("Item %s rejeitado por %s; de volta a in_progress", entityID, actor.UID)
	w.WriteHeader(http.StatusNoContent)
}

// GetWorkItemHandler devolve o estado atual de um item: GET /workitem/{id}/info.
func GetWorkItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entityID := vars["id"]

	item, err := engine.GetWorkItem(r.Context(), models.EntityRef{ID: entityID})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// ListUpdatesHandler devolve o histórico de atualizações do item, do mais
// recente para o mais antigo: GET /workitem/{id}/updates/list.
func ListUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entityID := vars["id"]

	records, err := engine.ListUpdates(r.Context(), models.EntityRef{ID: entityID})
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("ListUpdatesHandler: Erro ao listar histórico de %s", entityID))
		writeWorkflowError(w, err)
		return
	}

	utilities.LogDebug("Histórico de %s listado: %d registros", entityID, len(records))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// CreateWorkItemHandler cria um novo item de trabalho: POST /workitem/create.
func CreateWorkItemHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "CreateWorkItemHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	var input workflow.CreateWorkItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "CreateWorkItemHandler: Erro ao decodificar JSON")
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	item, err := engine.CreateWorkItem(r.Context(), input, actor)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// ListWorkItemsHandler lista itens de trabalho com filtros opcionais:
// GET /workitem/list?assignee_uid=...&kind=...&limit=...
func ListWorkItemsHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	limit, _ := strconv.Atoi(queryParams.Get("limit"))

	items, err := engine.ListWorkItems(r.Context(), queryParams.Get("assignee_uid"), queryParams.Get("kind"), limit)
	if err != nil {
		utilities.LogError(err, "ListWorkItemsHandler: Erro ao listar itens")
		writeWorkflowError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}
