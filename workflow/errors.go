package workflow

import "fmt"

// ValidationError indica entrada inválida (mensagem vazia, rótulo custom vazio).
// Rejeitada antes de qualquer efeito de rede.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validação falhou: " + e.Reason
}

// AuthorizationError indica que o ator não tem o papel exigido pela transição.
// Rejeitada antes de qualquer mutação.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "não autorizado: " + e.Reason
}

// PersistenceError indica conflito transacional além do limite de tentativas
// ou perda de conectividade com o Firestore. Retryável pelo chamador; nenhuma
// mutação parcial fica visível porque a escrita é transacional.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("falha de persistência: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotFoundError indica que o item de trabalho referenciado não existe.
type NotFoundError struct {
	EntityID string
}

func (e *NotFoundError) Error() string {
	return "item de trabalho não encontrado: " + e.EntityID
}
