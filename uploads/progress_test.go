package uploads

import "testing"

func TestBatchProgressMeanOfFractions(t *testing.T) {
	// Dois arquivos: um de 100 bytes completo, outro de 200 bytes pela metade.
	// Média das frações: (1.0 + 0.5) / 2 = 75%
	p := newBatchProgress([]int64{100, 200})
	p.add(0, 100)
	p.finish(0)
	p.add(1, 100)

	if got := p.overall(); got != 75 {
		t.Errorf("overall() = %v, esperava 75", got)
	}
}

func TestBatchProgressMonotonicAndCompletes(t *testing.T) {
	p := newBatchProgress([]int64{50, 50, 50})

	last := float64(-1)
	check := func() {
		got := p.overall()
		if got < last {
			t.Fatalf("progresso regrediu: %v depois de %v", got, last)
		}
		if got == 100 {
			for i, done := range p.done {
				if !done {
					t.Fatalf("100%% reportado com arquivo %d inacabado", i)
				}
			}
		}
		last = got
	}

	check()
	for i := 0; i < 3; i++ {
		p.add(i, 25)
		check()
		p.add(i, 25)
		check() // todos os bytes copiados, mas o Close ainda não confirmou
		p.finish(i)
		check()
	}

	if last != 100 {
		t.Errorf("progresso final = %v, esperava 100", last)
	}
}

func TestBatchProgressNeverFullBeforeFinish(t *testing.T) {
	// Um arquivo com todos os bytes copiados mas sem finish não chega a 100
	p := newBatchProgress([]int64{10})
	p.add(0, 10)
	if got := p.overall(); got >= 100 {
		t.Errorf("overall() = %v antes do finish", got)
	}
	p.finish(0)
	if got := p.overall(); got != 100 {
		t.Errorf("overall() = %v depois do finish", got)
	}
}

func TestBatchProgressZeroSizeFile(t *testing.T) {
	// Arquivo vazio só conta como completo depois do finish
	p := newBatchProgress([]int64{0, 100})
	if got := p.overall(); got != 0 {
		t.Errorf("overall() inicial = %v", got)
	}
	p.finish(0)
	p.add(1, 100)
	p.finish(1)
	if got := p.overall(); got != 100 {
		t.Errorf("overall() final = %v", got)
	}
}

func TestBatchProgressOversizedRead(t *testing.T) {
	// Tamanho declarado menor que o conteúdo real não passa de 100%
	p := newBatchProgress([]int64{10})
	p.add(0, 25)
	if got := p.overall(); got > 100 {
		t.Errorf("overall() = %v estourou 100", got)
	}
}
