package firebase

import (
	"context"
	"database/sql"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
)

// VerifyUserToken verifica um ID Token do Firebase e devolve o token decodificado.
func VerifyUserToken(token string) (*auth.Token, error) {
	client, err := GetAuthClient()
	if err != nil {
		return nil, err
	}

	verifiedToken, err := client.VerifyIDToken(context.Background(), token)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar token: %w", err)
	}

	return verifiedToken, nil
}

// GetUserByUID busca o registro do usuário no Firebase Auth.
func GetUserByUID(uid string) (*auth.UserRecord, error) {
	client, err := GetAuthClient()
	if err != nil {
		return nil, err
	}

	user, err := client.GetUser(context.Background(), uid)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	return user, nil
}

// CheckOrCreateUserInPostgres garante que o usuário do token exista na tabela
// users e devolve o ator com o papel hidratado do banco. Usuários novos nascem
// com papel "member"; papéis de administrador e gerente são atribuídos fora
// daqui.
func CheckOrCreateUserInPostgres(db *sql.DB, token *auth.Token) (models.Actor, error) {
	uid := token.UID
	email, _ := token.Claims["email"].(string)
	displayName, _ := token.Claims["name"].(string)

	var actor models.Actor
	err := db.QueryRow(
		"SELECT firebase_uid, display_name, role FROM users WHERE firebase_uid = $1", uid,
	).Scan(&actor.UID, &actor.DisplayName, &actor.Role)

	switch {
	case err == sql.ErrNoRows:
		// Primeiro acesso - cria o registro local
		utilities.LogInfo("Primeiro acesso para UID %s. Criando no PostgreSQL...", uid)
		_, insertErr := db.Exec(
			"INSERT INTO users (firebase_uid, email, display_name, role) VALUES ($1, $2, $3, $4)",
			uid, email, displayName, models.RoleMember,
		)
		if insertErr != nil {
			utilities.LogError(insertErr, "Erro ao inserir usuário no DB")
			return models.Actor{}, fmt.Errorf("erro ao inserir usuário no DB: %w", insertErr)
		}
		return models.Actor{UID: uid, DisplayName: displayName, Role: models.RoleMember}, nil

	case err != nil:
		utilities.LogError(err, "Erro ao buscar usuário no DB")
		return models.Actor{}, fmt.Errorf("erro ao buscar usuário no DB: %w", err)

	default:
		utilities.LogDebug("Usuário %s encontrado no PostgreSQL (papel %s)", uid, actor.Role)
		return actor, nil
	}
}
