package realtime

import "testing"

func TestPushLatestDeliversInOrder(t *testing.T) {
	ch := make(chan int, 1)
	pushLatest(ch, 1)
	if got := <-ch; got != 1 {
		t.Fatalf("recebeu %d", got)
	}
	pushLatest(ch, 2)
	if got := <-ch; got != 2 {
		t.Fatalf("recebeu %d", got)
	}
}

func TestPushLatestCoalescesToLatest(t *testing.T) {
	// Consumidor lento: estados intermediários são descartados, mas o último
	// estado sempre chega.
	ch := make(chan int, 1)
	for v := 1; v <= 100; v++ {
		pushLatest(ch, v)
	}
	if got := <-ch; got != 100 {
		t.Fatalf("esperava o último estado (100), recebeu %d", got)
	}
	select {
	case extra := <-ch:
		t.Fatalf("valor residual no canal: %d", extra)
	default:
	}
}

func TestPushLatestNeverBlocks(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch := make(chan string, 1)
		// Ninguém consumindo: cada push substitui o anterior sem bloquear
		for i := 0; i < 1000; i++ {
			pushLatest(ch, "estado")
		}
	}()
	<-done
}
