package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
)

// SubscribeEntityHandler mantém um stream SSE com o estado do item:
// GET /workitem/{id}/subscribe. O primeiro evento é o snapshot atual; os
// seguintes chegam a cada mutação, coalescidos para o último estado.
func SubscribeEntityHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entityID := vars["id"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming não suportado", http.StatusInternalServerError)
		return
	}

	initial, sub, err := hub.SubscribeEntity(r.Context(), models.EntityRef{ID: entityID})
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("SubscribeEntityHandler: Falha ao assinar item %s", entityID))
		writeWorkflowError(w, err)
		return
	}
	defer sub.Cancel()

	utilities.LogInfo("Assinatura de entidade aberta: item %s para %s", entityID, r.RemoteAddr)
	setSSEHeaders(w)
	writeSSEEvent(w, flusher, initial)

	for {
		select {
		case item, open := <-sub.Updates():
			if !open {
				return
			}
			writeSSEEvent(w, flusher, item)
		case <-r.Context().Done():
			utilities.LogDebug("Cliente %s encerrou a assinatura do item %s", r.RemoteAddr, entityID)
			return
		}
	}
}

// SubscribeLogHandler mantém um stream SSE com o histórico do item:
// GET /workitem/{id}/updates/subscribe.
func SubscribeLogHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entityID := vars["id"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming não suportado", http.StatusInternalServerError)
		return
	}

	initial, sub, err := hub.SubscribeLog(r.Context(), models.EntityRef{ID: entityID})
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("SubscribeLogHandler: Falha ao assinar histórico de %s", entityID))
		writeWorkflowError(w, err)
		return
	}
	defer sub.Cancel()

	utilities.LogInfo("Assinatura de histórico aberta: item %s para %s", entityID, r.RemoteAddr)
	setSSEHeaders(w)
	writeSSEEvent(w, flusher, initial)

	for {
		select {
		case records, open := <-sub.Updates():
			if !open {
				return
			}
			writeSSEEvent(w, flusher, records)
		case <-r.Context().Done():
			utilities.LogDebug("Cliente %s encerrou a assinatura do histórico de %s", r.RemoteAddr, entityID)
			return
		}
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		utilities.LogError(err, "Erro ao serializar evento SSE")
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
