package notifications

import (
	"testing"
	"time"

	"gestor-tarefas/models"
)

var testItem = &models.WorkItem{
	ID:          "item-1",
	Kind:        models.EntityKindTask,
	Title:       "Instalar luminárias",
	AssigneeUID: "uid-assignee",
	ProjectID:   "proj-1",
}

var testActor = models.Actor{UID: "uid-assignee", DisplayName: "Responsável", Role: models.RoleMember}

func TestCompletionRecordsFanOut(t *testing.T) {
	now := time.Now().UTC()
	admins := []string{"uid-admin-1", "uid-admin-2", "uid-admin-3"}

	records := CompletionRecords(testItem, testActor, admins, now)

	if len(records) != len(admins) {
		t.Fatalf("esperava %d registros, obteve %d", len(admins), len(records))
	}
	seen := map[string]bool{}
	for _, record := range records {
		if seen[record.RecipientUID] {
			t.Errorf("destinatário duplicado: %s", record.RecipientUID)
		}
		seen[record.RecipientUID] = true

		if record.Type != models.NotificationWorkItemCompleted {
			t.Errorf("tipo errado: %s", record.Type)
		}
		if record.EntityID != testItem.ID || record.EntityKind != testItem.Kind {
			t.Errorf("referência de entidade errada: %s/%s", record.EntityKind, record.EntityID)
		}
		if record.Read {
			t.Error("notificação já nasce lida")
		}
		if record.ID == "" {
			t.Error("registro sem id")
		}
	}
}

func TestCompletionRecordsZeroAdmins(t *testing.T) {
	// Sem administradores cadastrados, a conclusão segue sem notificações
	records := CompletionRecords(testItem, testActor, nil, time.Now().UTC())
	if len(records) != 0 {
		t.Fatalf("esperava zero registros, obteve %d", len(records))
	}
}

func TestUpdateRecord(t *testing.T) {
	now := time.Now().UTC()
	newStatus := models.Status{Kind: models.StatusTesting}

	t.Run("gerente recebe a atualização", func(t *testing.T) {
		record := UpdateRecord(testItem, testActor, "uid-manager", newStatus, "testes iniciados", now)
		if record == nil {
			t.Fatal("esperava um registro")
		}
		if record.RecipientUID != "uid-manager" {
			t.Errorf("destinatário: %s", record.RecipientUID)
		}
		if record.Type != models.NotificationWorkItemUpdated {
			t.Errorf("tipo: %s", record.Type)
		}
	})

	t.Run("sem gerente não há registro", func(t *testing.T) {
		if record := UpdateRecord(testItem, testActor, "", newStatus, "msg", now); record != nil {
			t.Fatalf("esperava nil, obteve %+v", record)
		}
	})

	t.Run("gerente que é o próprio autor não se notifica", func(t *testing.T) {
		if record := UpdateRecord(testItem, testActor, testActor.UID, newStatus, "msg", now); record != nil {
			t.Fatalf("esperava nil, obteve %+v", record)
		}
	})
}

func TestDeepLink(t *testing.T) {
	if got := DeepLink(testItem); got != "/workitem/task/item-1" {
		t.Errorf("DeepLink = %q", got)
	}
}
