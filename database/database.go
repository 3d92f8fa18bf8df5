package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"gestor-tarefas/utilities"
)

func ConnectPostgres() (*sql.DB, error) {
	// Configurações do banco de dados
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	// Monta a string de conexão
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	// Abre a conexão
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		utilities.LogError(err, "Erro ao abrir conexão com o banco de dados")
		return nil, err
	}

	// Testa a conexão
	err = db.Ping()
	if err != nil {
		utilities.LogError(err, "Erro ao conectar ao banco de dados")
		return nil, err
	}

	utilities.LogInfo("Conectado ao PostgreSQL com sucesso!")
	return db, nil
}
