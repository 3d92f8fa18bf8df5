package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gestor-tarefas/notifications"
	"gestor-tarefas/utilities"
)

// ListNotificationsHandler lista as notificações do usuário autenticado:
// GET /notifications/list?limit=...
func ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "ListNotificationsHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := dispatcher.ListForUser(r.Context(), actor.UID, limit)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("ListNotificationsHandler: Erro ao listar notificações de %s", actor.UID))
		http.Error(w, "Erro ao listar notificações", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// UnreadCountHandler devolve o total de notificações não lidas:
// GET /notifications/unread-count
func UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "UnreadCountHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	count, err := dispatcher.CountUnread(r.Context(), actor.UID)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("UnreadCountHandler: Erro ao contar não lidas de %s", actor.UID))
		http.Error(w, "Erro ao contar notificações", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"unread": count})
}

// MarkNotificationReadHandler marca uma notificação como lida:
// PUT /notifications/{id}/read
func MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	notificationID := vars["id"]

	actor, err := actorFromRequest(r)
	if err != nil {
		utilities.LogError(err, "MarkNotificationReadHandler: Falha ao resolver o ator")
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}

	if err := dispatcher.MarkRead(r.Context(), actor.UID, notificationID); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			http.Error(w, "Notificação não encontrada", http.StatusNotFound)
		} else {
			utilities.LogError(err, fmt.Sprintf("MarkNotificationReadHandler: Erro ao marcar %s como lida", notificationID))
			http.Error(w, "Erro ao marcar notificação", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
