package database

import (
	"database/sql"
	"errors"
	"fmt"

	"gestor-tarefas/models"
)

var ErrUserNotFound = errors.New("usuário não encontrado")

// GetActorByUID hidrata o ator (identidade + papel) a partir da tabela users.
func GetActorByUID(db *sql.DB, uid string) (models.Actor, error) {
	var actor models.Actor
	err := db.QueryRow(
		"SELECT firebase_uid, display_name, role FROM users WHERE firebase_uid = $1", uid,
	).Scan(&actor.UID, &actor.DisplayName, &actor.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Actor{}, ErrUserNotFound
		}
		return models.Actor{}, fmt.Errorf("erro ao buscar usuário %s: %w", uid, err)
	}
	return actor, nil
}

// GetUserInfo devolve os dados cadastrais do usuário.
func GetUserInfo(db *sql.DB, uid string) (models.Usuario, error) {
	var user models.Usuario
	err := db.QueryRow(
		"SELECT firebase_uid, display_name, email, role FROM users WHERE firebase_uid = $1", uid,
	).Scan(&user.Firebase_uid, &user.DisplayName, &user.Email, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Usuario{}, ErrUserNotFound
		}
		return models.Usuario{}, fmt.Errorf("erro ao buscar usuário %s: %w", uid, err)
	}
	return user, nil
}
