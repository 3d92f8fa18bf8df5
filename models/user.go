package models

// Papéis possíveis de um usuário no sistema (coluna role da tabela users).
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

type Usuario struct {
	Firebase_uid string `json:"firebase_uid"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

// Actor é quem executa uma operação do workflow: identidade vinda do token
// Firebase, papel hidratado da tabela users no PostgreSQL.
type Actor struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// IsAdmin indica se o ator tem papel de administrador.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
