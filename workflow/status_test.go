package workflow

import (
	"errors"
	"testing"

	"gestor-tarefas/models"
)

func itemWithStatus(kind models.StatusKind) *models.WorkItem {
	return &models.WorkItem{
		ID:              "item-1",
		Kind:            models.EntityKindTask,
		Title:           "Trocar o quadro elétrico",
		Status:          models.Status{Kind: kind},
		PendingApproval: kind == models.StatusPendingApproval,
		AssigneeUID:     "uid-assignee",
		AssigneeName:    "Responsável",
	}
}

var (
	assignee = models.Actor{UID: "uid-assignee", DisplayName: "Responsável", Role: models.RoleMember}
	admin    = models.Actor{UID: "uid-admin", DisplayName: "Admin", Role: models.RoleAdmin}
	outsider = models.Actor{UID: "uid-outro", DisplayName: "Outro", Role: models.RoleMember}
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name    string
		current models.StatusKind
		actor   models.Actor
		next    models.Status
		message string
		wantErr interface{} // nil, *ValidationError ou *AuthorizationError
	}{
		{
			name:    "responsável atualiza progresso",
			current: models.StatusInProgress,
			actor:   assignee,
			next:    models.Status{Kind: models.StatusTesting},
			message: "iniciando os testes",
		},
		{
			name:    "admin atualiza item de terceiro",
			current: models.StatusOnHold,
			actor:   admin,
			next:    models.Status{Kind: models.StatusInProgress},
			message: "retomando",
		},
		{
			name:    "terceiro não pode atualizar",
			current: models.StatusInProgress,
			actor:   outsider,
			next:    models.Status{Kind: models.StatusOnHold},
			message: "pausando",
			wantErr: &AuthorizationError{},
		},
		{
			name:    "mensagem vazia é rejeitada",
			current: models.StatusInProgress,
			actor:   assignee,
			next:    models.Status{Kind: models.StatusOnHold},
			message: "",
			wantErr: &ValidationError{},
		},
		{
			name:    "custom sem rótulo é rejeitado",
			current: models.StatusInProgress,
			actor:   assignee,
			next:    models.Status{Kind: models.StatusCustom},
			message: "qualquer",
			wantErr: &ValidationError{},
		},
		{
			name:    "custom com rótulo é aceito",
			current: models.StatusInProgress,
			actor:   assignee,
			next:    models.Status{Kind: models.StatusCustom, Custom: "aguardando fornecedor"},
			message: "fornecedor atrasou",
		},
		{
			name:    "responsável marca como concluído",
			current: models.StatusReadyForReview,
			actor:   assignee,
			next:    models.Status{Kind: models.StatusPendingApproval},
		},
		{
			name:    "concluir de novo em pending_approval não é permitido",
			current: models.StatusPendingApproval,
			actor:   assignee,
			next:    models.Status{Kind: models.StatusPendingApproval},
			wantErr: &AuthorizationError{},
		},
		{
			name:    "responsável não limpa pending_approval",
			current: models.StatusPendingApproval,
			actor:   assignee,
			next:    models.Status{Kind: models.StatusInProgress},
			message: "desisti",
			wantErr: &AuthorizationError{},
		},
		{
			name:    "admin aprova",
			current: models.StatusPendingApproval,
			actor:   admin,
			next:    models.Status{Kind: models.StatusVerified},
		},
		{
			name:    "admin rejeita com motivo",
			current: models.StatusPendingApproval,
			actor:   admin,
			next:    models.Status{Kind: models.StatusInProgress},
			message: "faltou evidência da instalação",
		},
		{
			name:    "admin rejeita sem motivo é inválido",
			current: models.StatusPendingApproval,
			actor:   admin,
			next:    models.Status{Kind: models.StatusInProgress},
			message: "",
			wantErr: &ValidationError{},
		},
		{
			name:    "de pending_approval só aprova ou rejeita",
			current: models.StatusPendingApproval,
			actor:   admin,
			next:    models.Status{Kind: models.StatusOnHold},
			message: "pausando",
			wantErr: &ValidationError{},
		},
		{
			name:    "verified é terminal",
			current: models.StatusVerified,
			actor:   admin,
			next:    models.Status{Kind: models.StatusInProgress},
			message: "reabrindo",
			wantErr: &ValidationError{},
		},
		{
			name:    "verified direto sem aprovação é inválido",
			current: models.StatusInProgress,
			actor:   admin,
			next:    models.Status{Kind: models.StatusVerified},
			message: "atalho",
			wantErr: &ValidationError{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := itemWithStatus(tc.current)
			err := validateTransition(item, tc.actor, tc.next, tc.message)

			switch want := tc.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("transição deveria ser aceita, obteve: %v", err)
				}
			case *ValidationError:
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("esperava ValidationError, obteve: %v", err)
				}
			case *AuthorizationError:
				var aErr *AuthorizationError
				if !errors.As(err, &aErr) {
					t.Fatalf("esperava AuthorizationError, obteve: %v", err)
				}
			default:
				t.Fatalf("caso de teste mal construído: %T", want)
			}

			// Validação nunca muta o item
			if item.Status.Kind != tc.current {
				t.Errorf("validateTransition mutou o status: %v", item.Status)
			}
		})
	}
}

func TestPendingApprovalFlagMatchesStatus(t *testing.T) {
	// A flag pendingApproval acompanha exatamente o status pending_approval
	for _, kind := range []models.StatusKind{
		models.StatusNotStarted, models.StatusInProgress, models.StatusOnHold,
		models.StatusPendingApproval, models.StatusVerified,
	} {
		status := models.Status{Kind: kind}
		want := kind == models.StatusPendingApproval
		if status.IsPendingApproval() != want {
			t.Errorf("IsPendingApproval(%s) = %v", kind, status.IsPendingApproval())
		}
	}
}
