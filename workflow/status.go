package workflow

import (
	"gestor-tarefas/models"
)

// canActOnItem verifica se o ator pode mudar o status do item: precisa ser o
// responsável (assignee) ou um administrador.
func canActOnItem(item *models.WorkItem, actor models.Actor) bool {
	return actor.IsAdmin() || actor.UID == item.AssigneeUID
}

// validateTransition aplica as regras da máquina de estados contra o estado
// atual lido dentro da transação. Não muta nada: devolve um erro tipado
// (ValidationError/AuthorizationError) quando a transição é rejeitada.
func validateTransition(item *models.WorkItem, actor models.Actor, next models.Status, message string) error {
	if next.Kind == models.StatusCustom && next.Custom == "" {
		return &ValidationError{Reason: "status custom exige um rótulo não vazio"}
	}

	// "verified" encerra o ciclo de vida: nenhuma transição sai dele.
	if item.Status.IsTerminal() {
		return &ValidationError{Reason: "item já verificado; nenhuma transição é permitida"}
	}

	// Em pending_approval somente um administrador decide: aprovar (verified)
	// ou rejeitar (in_progress). O próprio responsável nunca limpa o estado.
	if item.Status.IsPendingApproval() {
		if !actor.IsAdmin() {
			return &AuthorizationError{Reason: "item aguardando aprovação; somente administradores podem aprovar ou rejeitar"}
		}
		switch next.Kind {
		case models.StatusVerified:
			return nil
		case models.StatusInProgress:
			if message == "" {
				return &ValidationError{Reason: "rejeição exige um motivo"}
			}
			return nil
		default:
			return &ValidationError{Reason: "de pending_approval só é possível aprovar (verified) ou rejeitar (in_progress)"}
		}
	}

	// Fora de pending_approval, "verified" nunca é alcançável diretamente.
	if next.Kind == models.StatusVerified {
		return &ValidationError{Reason: "verified só é alcançável a partir de pending_approval"}
	}

	if !canActOnItem(item, actor) {
		return &AuthorizationError{Reason: "somente o responsável pelo item ou um administrador pode atualizar o status"}
	}

	// Marcar como concluído (entrada em pending_approval) dispensa mensagem;
	// qualquer outra atualização de progresso exige uma.
	if !next.IsPendingApproval() && message == "" {
		return &ValidationError{Reason: "mensagem de atualização é obrigatória"}
	}

	return nil
}
