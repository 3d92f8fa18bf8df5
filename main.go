package main

import (
	"log"

	"github.com/joho/godotenv"

	"gestor-tarefas/database"
	"gestor-tarefas/firebase"
	"gestor-tarefas/handlers"
	"gestor-tarefas/notifications"
	"gestor-tarefas/realtime"
	"gestor-tarefas/uploads"
	"gestor-tarefas/workflow"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Erro ao carregar o arquivo .env")
	}

	db, err := database.ConnectPostgres()
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	if err := firebase.InitializeFirebase(); err != nil {
		log.Fatalf("Erro ao inicializar Firebase: %v", err)
	}

	firestoreClient, err := firebase.GetFirestoreClient()
	if err != nil {
		log.Fatalf("Erro ao obter cliente do Firestore: %v", err)
	}
	defer firestoreClient.Close()

	bucket, err := firebase.GetStorageBucket()
	if err != nil {
		log.Fatalf("Erro ao obter bucket do Storage: %v", err)
	}

	// Montagem do motor de workflow e colaboradores
	uploader := uploads.NewUploader(bucket)
	dispatcher := notifications.NewDispatcher(firestoreClient, db)
	engine := workflow.NewEngine(firestoreClient, uploader, dispatcher)
	hub := realtime.NewHub(firestoreClient)

	handlers.InitDB(db)
	handlers.InitWorkflow(engine, hub, dispatcher)

	LoadRoutes()
}
