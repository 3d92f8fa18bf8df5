package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	cloudstorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"gestor-tarefas/utilities"
)

var app *firebase.App

// InitializeFirebase inicializa o app do Firebase uma única vez, a partir das
// variáveis de ambiente. Os clientes (Auth, Firestore, Storage) derivam dele.
func InitializeFirebase() error {
	credentialsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido nas variáveis de ambiente")
	}

	config := &firebase.Config{
		StorageBucket: os.Getenv("FIREBASE_STORAGE_BUCKET"),
	}
	opt := option.WithCredentialsFile(credentialsPath)

	initialized, err := firebase.NewApp(context.Background(), config, opt)
	if err != nil {
		return fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}
	app = initialized

	utilities.LogInfo("Firebase inicializado com sucesso!")
	return nil
}

// GetAuthClient retorna o cliente de autenticação
func GetAuthClient() (*auth.Client, error) {
	if app == nil {
		return nil, fmt.Errorf("firebase não inicializado; chame InitializeFirebase primeiro")
	}
	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente de Auth: %w", err)
	}
	return authClient, nil
}

// GetFirestoreClient retorna o cliente do Firestore a partir do app
func GetFirestoreClient() (*firestore.Client, error) {
	if app == nil {
		return nil, fmt.Errorf("firebase não inicializado; chame InitializeFirebase primeiro")
	}
	firestoreClient, err := app.Firestore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	return firestoreClient, nil
}

// GetStorageBucket retorna o bucket padrão do Cloud Storage, onde os anexos
// das atualizações são gravados.
func GetStorageBucket() (*cloudstorage.BucketHandle, error) {
	if app == nil {
		return nil, fmt.Errorf("firebase não inicializado; chame InitializeFirebase primeiro")
	}
	storageClient, err := app.Storage(context.Background())
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Storage: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("erro ao obter bucket padrão do Storage: %w", err)
	}
	return bucket, nil
}
