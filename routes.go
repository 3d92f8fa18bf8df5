package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"gestor-tarefas/handlers"
	"gestor-tarefas/utilities"
)

func LoadRoutes() {
	// Inicializar o sistema de logs
	utilities.InitLogger()

	r := mux.NewRouter()

	// Aplicar o middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)

	// --- Rotas de Autenticação ---
	r.HandleFunc("/auth/finalize-login", handlers.FinalizeFirebaseLoginHandler).Methods("POST")

	// --- Rotas de Usuário (autenticado) ---
	r.HandleFunc("/user/info", handlers.AuthMiddleware(handlers.UserHandler)).Methods("GET")

	// --- Rotas de Itens de Trabalho (protegidas) ---
	r.HandleFunc("/workitem/create", handlers.AuthMiddleware(handlers.CreateWorkItemHandler)).Methods("POST")
	r.HandleFunc("/workitem/list", handlers.AuthMiddleware(handlers.ListWorkItemsHandler)).Methods("GET")
	r.HandleFunc("/workitem/{id}/info", handlers.AuthMiddleware(handlers.GetWorkItemHandler)).Methods("GET")

	// --- Workflow de atualização e aprovação ---
	r.HandleFunc("/workitem/{id}/update", handlers.AuthMiddleware(handlers.SubmitUpdateHandler)).Methods("POST")
	r.HandleFunc("/workitem/{id}/complete", handlers.AuthMiddleware(handlers.MarkCompleteHandler)).Methods("POST")
	r.HandleFunc("/workitem/{id}/approve", handlers.AuthMiddleware(handlers.ApproveHandler)).Methods("POST")
	r.HandleFunc("/workitem/{id}/reject", handlers.AuthMiddleware(handlers.RejectHandler)).Methods("POST")
	r.HandleFunc("/workitem/{id}/updates/list", handlers.AuthMiddleware(handlers.ListUpdatesHandler)).Methods("GET")

	// --- Assinaturas em tempo real (SSE) ---
	r.HandleFunc("/workitem/{id}/subscribe", handlers.AuthMiddleware(handlers.SubscribeEntityHandler)).Methods("GET")
	r.HandleFunc("/workitem/{id}/updates/subscribe", handlers.AuthMiddleware(handlers.SubscribeLogHandler)).Methods("GET")

	// --- Notificações ---
	r.HandleFunc("/notifications/list", handlers.AuthMiddleware(handlers.ListNotificationsHandler)).Methods("GET")
	r.HandleFunc("/notifications/unread-count", handlers.AuthMiddleware(handlers.UnreadCountHandler)).Methods("GET")
	r.HandleFunc("/notifications/{id}/read", handlers.AuthMiddleware(handlers.MarkNotificationReadHandler)).Methods("PUT")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	allowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if allowedOriginsEnv == "" {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	} else {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", allowedOrigins)

	handler := gorillahandlers.CORS(headers, methods, origins)(r)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	utilities.LogInfo("Servidor iniciado na porta %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
