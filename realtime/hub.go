package realtime

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
	"gestor-tarefas/workflow"
)

// Hub entrega snapshots do item e do histórico para assinantes em tempo real,
// em cima do mecanismo de snapshots do Firestore. O primeiro snapshot do
// iterador é sempre o estado atual, então não existe janela entre o snapshot
// inicial e a primeira atualização ao vivo.
type Hub struct {
	fs *firestore.Client
}

func NewHub(fs *firestore.Client) *Hub {
	return &Hub{fs: fs}
}

// EntitySubscription é a assinatura do estado de um item de trabalho.
// O canal entrega o último estado conhecido; estados intermediários podem ser
// coalescidos quando o consumidor está lento.
type EntitySubscription struct {
	updates chan *models.WorkItem
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// Updates é o feed ao vivo. O canal é fechado quando a assinatura termina.
func (s *EntitySubscription) Updates() <-chan *models.WorkItem {
	return s.updates
}

// Cancel encerra a assinatura e espera a limpeza do lado servidor terminar.
// Chamar mais de uma vez é inofensivo.
func (s *EntitySubscription) Cancel() {
	s.cancel()
	<-s.done
}

// LogSubscription é a assinatura do histórico de atualizações de um item.
type LogSubscription struct {
	updates chan []models.StatusUpdateRecord
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

func (s *LogSubscription) Updates() <-chan []models.StatusUpdateRecord {
	return s.updates
}

func (s *LogSubscription) Cancel() {
	s.cancel()
	<-s.done
}

// SubscribeEntity assina o estado de um item: devolve o snapshot atual
// imediatamente e, pelo canal da assinatura, cada estado subsequente.
func (h *Hub) SubscribeEntity(ctx context.Context, ref models.EntityRef) (*models.WorkItem, *EntitySubscription, error) {
	sctx, cancel := context.WithCancel(ctx)
	sub := &EntitySubscription{
		updates: make(chan *models.WorkItem, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	iter := h.fs.Collection(workflow.WorkItemsCollection).Doc(ref.ID).Snapshots(sctx)
	go func() {
		defer close(sub.done)
		defer close(sub.updates)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if sctx.Err() == nil {
					sub.err = err
					utilities.LogError(err, fmt.Sprintf("Assinatura do item %s terminou com erro", ref.ID))
				}
				return
			}
			if !snap.Exists() {
				sub.err = &workflow.NotFoundError{EntityID: ref.ID}
				return
			}
			var item models.WorkItem
			if err := snap.DataTo(&item); err != nil {
				sub.err = err
				utilities.LogError(err, fmt.Sprintf("Snapshot inválido para o item %s", ref.ID))
				return
			}
			item.ID = snap.Ref.ID
			pushLatest(sub.updates, &item)
		}
	}()

	initial, ok := <-sub.updates
	if !ok {
		err := sub.err
		if err == nil {
			err = status.Error(codes.Unavailable, "assinatura encerrada antes do snapshot inicial")
		}
		sub.Cancel()
		return nil, nil, err
	}
	return initial, sub, nil
}

// SubscribeLog assina o histórico de um item: snapshot inicial (ordenado, mais
// recente primeiro) seguido do feed ao vivo de snapshots subsequentes.
func (h *Hub) SubscribeLog(ctx context.Context, ref models.EntityRef) ([]models.StatusUpdateRecord, *LogSubscription, error) {
	sctx, cancel := context.WithCancel(ctx)
	sub := &LogSubscription{
		updates: make(chan []models.StatusUpdateRecord, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	query := h.fs.Collection(workflow.StatusUpdatesCollection).
		Where("entity_id", "==", ref.ID).
		OrderBy("timestamp", firestore.Desc).
		OrderBy("seq", firestore.Desc)

	iter := query.Snapshots(sctx)
	go func() {
		defer close(sub.done)
		defer close(sub.updates)
		defer iter.Stop()
		for {
			qsnap, err := iter.Next()
			if err != nil {
				if sctx.Err() == nil {
					sub.err = err
					utilities.LogError(err, fmt.Sprintf("Assinatura do histórico de %s terminou com erro", ref.ID))
				}
				return
			}
			records, err := collectRecords(qsnap)
			if err != nil {
				sub.err = err
				utilities.LogError(err, fmt.Sprintf("Snapshot de histórico inválido para o item %s", ref.ID))
				return
			}
			pushLatest(sub.updates, records)
		}
	}()

	initial, ok := <-sub.updates
	if !ok {
		err := sub.err
		if err == nil {
			err = status.Error(codes.Unavailable, "assinatura encerrada antes do snapshot inicial")
		}
		sub.Cancel()
		return nil, nil, err
	}
	return initial, sub, nil
}

func collectRecords(qsnap *firestore.QuerySnapshot) ([]models.StatusUpdateRecord, error) {
	records := []models.StatusUpdateRecord{}
	for {
		doc, err := qsnap.Documents.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var record models.StatusUpdateRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, err
		}
		record.ID = doc.Ref.ID
		records = append(records, record)
	}
	// A consulta já vem ordenada; reordenar aqui mantém o contrato do
	// histórico independente da fonte do snapshot.
	workflow.SortRecordsNewestFirst(records)
	return records, nil
}

// pushLatest entrega v no canal de capacidade 1, descartando um estado
// intermediário que o consumidor ainda não leu. O assinante sempre observa o
// último estado de uma entidade convergida, mesmo que pule os do meio.
func pushLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
