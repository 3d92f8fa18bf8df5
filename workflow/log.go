package workflow

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"gestor-tarefas/models"
)

// ListUpdates devolve o histórico de atualizações de um item, do mais recente
// para o mais antigo. A chave de ordenação é o timestamp do registro; empates
// são desfeitos pelo número de sequência gravado na transação, de modo que a
// sequência é uma ordem total e duas leituras produzem o mesmo resultado.
func (e *Engine) ListUpdates(ctx context.Context, ref models.EntityRef) ([]models.StatusUpdateRecord, error) {
	iter := e.fs.Collection(StatusUpdatesCollection).
		Where("entity_id", "==", ref.ID).
		OrderBy("timestamp", firestore.Desc).
		OrderBy("seq", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var records []models.StatusUpdateRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &PersistenceError{Err: err}
		}
		var record models.StatusUpdateRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, &PersistenceError{Err: err}
		}
		record.ID = snap.Ref.ID
		records = append(records, record)
	}

	return records, nil
}

// SortRecordsNewestFirst ordena registros pelo contrato do histórico:
// timestamp decrescente, sequência como desempate. Usada quando os registros
// chegam de uma fonte que não garante a ordem (ex.: snapshot do hub).
func SortRecordsNewestFirst(records []models.StatusUpdateRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].Seq > records[j].Seq
	})
}
