package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gestor-tarefas/database"
	"gestor-tarefas/firebase"
	"gestor-tarefas/models"
	"gestor-tarefas/notifications"
	"gestor-tarefas/realtime"
	"gestor-tarefas/uploads"
	"gestor-tarefas/utilities"
	"gestor-tarefas/workflow"
)

// Dependências compartilhadas dos handlers, injetadas na inicialização.
var (
	db         *sql.DB
	engine     *workflow.Engine
	hub        *realtime.Hub
	dispatcher *notifications.Dispatcher
)

// InitDB inicializa a conexão com o banco de dados
func InitDB(database *sql.DB) {
	utilities.LogInfo("Inicializando conexão com o banco de dados")
	db = database
}

// InitWorkflow injeta o motor de workflow e seus colaboradores nos handlers.
func InitWorkflow(e *workflow.Engine, h *realtime.Hub, d *notifications.Dispatcher) {
	engine = e
	hub = h
	dispatcher = d
}

type contextKey string

const userUIDKey contextKey = "userUID"

// AuthMiddleware verifica o ID Token do Firebase e coloca o UID no contexto.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utilities.LogError(fmt.Errorf("header de autorização ausente"), "Autenticação falhou")
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		verifiedToken, err := firebase.VerifyUserToken(tokenString)
		if err != nil {
			utilities.LogError(err, "Token inválido")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userUIDKey, verifiedToken.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// actorFromRequest monta o ator da operação: UID do token (já no contexto) e
// papel hidratado da tabela users.
func actorFromRequest(r *http.Request) (models.Actor, error) {
	uid, ok := r.Context().Value(userUIDKey).(string)
	if !ok || uid == "" {
		return models.Actor{}, fmt.Errorf("UID não encontrado no contexto")
	}
	return database.GetActorByUID(db, uid)
}

// writeWorkflowError mapeia a taxonomia de erros do workflow para HTTP.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var vErr *workflow.ValidationError
	var aErr *workflow.AuthorizationError
	var nfErr *workflow.NotFoundError
	var upErr *uploads.UploadError
	var pErr *workflow.PersistenceError

	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.As(err, &aErr):
		http.Error(w, aErr.Error(), http.StatusForbidden)
	case errors.As(err, &nfErr):
		http.Error(w, nfErr.Error(), http.StatusNotFound)
	case errors.As(err, &upErr):
		if upErr.Kind == uploads.UploadUnauthorized {
			http.Error(w, upErr.Error(), http.StatusForbidden)
		} else {
			http.Error(w, upErr.Error(), http.StatusBadGateway)
		}
	case errors.As(err, &pErr):
		// Retryável pelo cliente; nenhuma mutação parcial ficou visível
		http.Error(w, pErr.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "Erro interno do servidor", http.StatusInternalServerError)
	}
}
