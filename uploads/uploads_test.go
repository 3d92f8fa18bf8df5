package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"relatorio.pdf", "relatorio.pdf"},
		{"foto da obra.jpg", "foto_da_obra.jpg"},
		{"../../etc/passwd", "passwd"},
		{"C:\\Users\\alguem\\nota fiscal.xml", "nota_fiscal.xml"},
		{"acentuação çedilha.png", "acentua_o_edilha.png"},
		{"???", "arquivo"},
		{"", "arquivo"},
		{"..", "arquivo"},
	}

	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, esperava %q", tc.in, got, tc.want)
		}
	}
}

func TestObjectPathForAvoidsCollisions(t *testing.T) {
	a := objectPathFor("anexos/task/t1", "foto.jpg")
	b := objectPathFor("anexos/task/t1", "foto.jpg")
	if a == b {
		t.Fatalf("dois uploads do mesmo nome colidiram: %q", a)
	}
	if !strings.HasPrefix(a, "anexos/task/t1/") {
		t.Errorf("caminho fora do prefixo de destino: %q", a)
	}
	if !strings.HasSuffix(a, "_foto.jpg") {
		t.Errorf("caminho não preserva o nome sanitizado: %q", a)
	}
}

func TestClassifyUploadError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want UploadErrorKind
	}{
		{"contexto cancelado", context.Canceled, UploadCancelled},
		{"prazo estourado", context.DeadlineExceeded, UploadCancelled},
		{"permissão negada", &googleapi.Error{Code: 403}, UploadUnauthorized},
		{"sem credencial", &googleapi.Error{Code: 401}, UploadUnauthorized},
		{"indisponibilidade persistente", &googleapi.Error{Code: 503}, UploadRetryLimitExceeded},
		{"rate limit persistente", &googleapi.Error{Code: 429}, UploadRetryLimitExceeded},
		{"erro embrulhado", fmt.Errorf("escrevendo bloco: %w", &googleapi.Error{Code: 403}), UploadUnauthorized},
		{"erro qualquer", errors.New("cabo de rede desconectado"), UploadUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyUploadError(tc.err); got != tc.want {
				t.Errorf("classifyUploadError(%v) = %s, esperava %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestUploadErrorUnwrap(t *testing.T) {
	cause := &googleapi.Error{Code: 403}
	err := wrapUploadError("foto.jpg", cause)

	if err.Kind != UploadUnauthorized {
		t.Errorf("Kind = %s", err.Kind)
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		t.Error("UploadError deveria desembrulhar para o erro original")
	}
	if !strings.Contains(err.Error(), "foto.jpg") {
		t.Errorf("mensagem sem o nome do arquivo: %q", err.Error())
	}
}
