package uploads

// batchProgress agrega o progresso de um lote de uploads sequenciais.
// O progresso geral é a média aritmética das frações por arquivo
// (bytes transferidos / total), recalculada a cada evento de qualquer arquivo.
type batchProgress struct {
	totals      []int64
	transferred []int64
	done        []bool
}

func newBatchProgress(sizes []int64) *batchProgress {
	return &batchProgress{
		totals:      sizes,
		transferred: make([]int64, len(sizes)),
		done:        make([]bool, len(sizes)),
	}
}

// add registra n bytes transferidos do arquivo i.
func (p *batchProgress) add(i int, n int64) {
	p.transferred[i] += n
	if p.totals[i] > 0 && p.transferred[i] > p.totals[i] {
		// O tamanho declarado pode estar defasado do conteúdo real
		p.transferred[i] = p.totals[i]
	}
}

// finish marca o arquivo i como concluído com sucesso.
func (p *batchProgress) finish(i int) {
	p.done[i] = true
	p.transferred[i] = p.totals[i]
}

// overall devolve o progresso geral do lote em porcentagem (0 a 100).
// Chega a 100 somente quando todos os arquivos terminaram.
func (p *batchProgress) overall() float64 {
	if len(p.totals) == 0 {
		return 100
	}
	var sum float64
	for i, total := range p.totals {
		switch {
		case p.done[i]:
			sum += 1
		case total > 0:
			frac := float64(p.transferred[i]) / float64(total)
			if frac > 1 {
				frac = 1
			}
			// Nunca reportar um arquivo inacabado como 100%
			if frac == 1 {
				frac = 0.99
			}
			sum += frac
		}
	}
	return sum / float64(len(p.totals)) * 100
}
