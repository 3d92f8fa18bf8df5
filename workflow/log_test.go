package workflow

import (
	"testing"
	"time"

	"gestor-tarefas/models"
)

func TestSortRecordsNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	records := []models.StatusUpdateRecord{
		{ID: "a", Seq: 1, Timestamp: base},
		{ID: "b", Seq: 3, Timestamp: base.Add(time.Minute)},
		// Empate de timestamp: a sequência desempata
		{ID: "c", Seq: 5, Timestamp: base.Add(2 * time.Minute)},
		{ID: "d", Seq: 4, Timestamp: base.Add(2 * time.Minute)},
	}

	SortRecordsNewestFirst(records)

	wantOrder := []string{"c", "d", "b", "a"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Fatalf("posição %d: esperava %q, obteve %q", i, want, records[i].ID)
		}
	}
}

func TestSortRecordsDeterministic(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	build := func(order []int) []models.StatusUpdateRecord {
		records := make([]models.StatusUpdateRecord, 0, len(order))
		for _, seq := range order {
			records = append(records, models.StatusUpdateRecord{
				ID:        string(rune('a' + seq)),
				Seq:       int64(seq),
				Timestamp: base, // todos empatados: só a sequência ordena
			})
		}
		return records
	}

	// Duas leituras com ordens de chegada diferentes produzem o mesmo resultado
	first := build([]int{2, 0, 3, 1})
	second := build([]int{1, 3, 0, 2})
	SortRecordsNewestFirst(first)
	SortRecordsNewestFirst(second)

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("ordenação não determinística na posição %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}
