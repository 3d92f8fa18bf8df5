package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"

	"gestor-tarefas/models"
	"gestor-tarefas/utilities"
)

// UploadErrorKind classifica a falha reportada pelo blob store.
type UploadErrorKind string

const (
	UploadUnauthorized       UploadErrorKind = "unauthorized"
	UploadCancelled          UploadErrorKind = "cancelled"
	UploadRetryLimitExceeded UploadErrorKind = "retry_limit_exceeded"
	UploadUnknown            UploadErrorKind = "unknown"
)

// UploadError aborta o lote inteiro: a submissão que o originou não grava
// nenhuma mutação de entidade nem registro de log.
type UploadError struct {
	Kind     UploadErrorKind
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload falhou (%s) para %q: %v", e.Kind, e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// FileBlob é um arquivo a ser enviado junto com uma atualização de status.
type FileBlob struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Uploader envia lotes de anexos para o bucket do Cloud Storage.
type Uploader struct {
	bucket *storage.BucketHandle
}

func NewUploader(bucket *storage.BucketHandle) *Uploader {
	return &Uploader{bucket: bucket}
}

// Tamanho do bloco copiado por vez; cada bloco gera um evento de progresso.
const copyChunkSize = 256 * 1024

// UploadBatch envia os arquivos sequencialmente para destinos sob prefix e
// devolve os metadados dos anexos produzidos. Política de falha:
// aborta no primeiro erro — nenhum anexo do lote é aproveitado. Objetos que
// já haviam terminado são removidos em melhor esforço (deleção compensatória)
// para não acumular blobs órfãos sem registro de log correspondente.
func (u *Uploader) UploadBatch(ctx context.Context, files []FileBlob, prefix string, actor models.Actor, onProgress func(percent float64)) ([]models.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	sizes := make([]int64, len(files))
	for i, f := range files {
		sizes[i] = f.Size
	}
	progress := newBatchProgress(sizes)
	report := func() {
		if onProgress != nil {
			onProgress(progress.overall())
		}
	}
	report()

	attachments := make([]models.Attachment, 0, len(files))
	for i, f := range files {
		att, err := u.uploadOne(ctx, f, prefix, actor, func(n int64) {
			progress.add(i, n)
			report()
		})
		if err != nil {
			u.cleanupUploaded(attachments)
			return nil, err
		}
		progress.finish(i)
		report()
		attachments = append(attachments, att)
	}

	return attachments, nil
}

func (u *Uploader) uploadOne(ctx context.Context, f FileBlob, prefix string, actor models.Actor, onChunk func(int64)) (models.Attachment, error) {
	objectPath := objectPathFor(prefix, f.Filename)
	utilities.LogDebug("Enviando anexo %q para %s (%d bytes)", f.Filename, objectPath, f.Size)

	w := u.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = f.ContentType

	buf := make([]byte, copyChunkSize)
	for {
		n, rerr := f.Reader.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				w.Close()
				return models.Attachment{}, wrapUploadError(f.Filename, werr)
			}
			onChunk(int64(n))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			w.Close()
			return models.Attachment{}, wrapUploadError(f.Filename, rerr)
		}
	}

	// O objeto só passa a existir no bucket depois do Close com sucesso
	if err := w.Close(); err != nil {
		return models.Attachment{}, wrapUploadError(f.Filename, err)
	}

	utilities.LogInfo("Anexo enviado com sucesso: %s", objectPath)
	return models.Attachment{
		Filename:     sanitizeFilename(f.Filename),
		StoragePath:  objectPath,
		ContentType:  f.ContentType,
		Size:         f.Size,
		UploaderUID:  actor.UID,
		UploaderName: actor.DisplayName,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

// cleanupUploaded remove, em melhor esforço, os objetos de um lote abortado.
// Falhas aqui são apenas logadas: o erro original do lote é o que importa.
func (u *Uploader) cleanupUploaded(attachments []models.Attachment) {
	if len(attachments) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, att := range attachments {
		if err := u.bucket.Object(att.StoragePath).Delete(ctx); err != nil {
			utilities.LogError(err, fmt.Sprintf("Falha ao remover objeto órfão %s do lote abortado", att.StoragePath))
		} else {
			utilities.LogDebug("Objeto %s removido após aborto do lote", att.StoragePath)
		}
	}
}

func wrapUploadError(filename string, err error) *UploadError {
	return &UploadError{Kind: classifyUploadError(err), Filename: filename, Err: err}
}

// classifyUploadError mapeia o erro do blob store para a taxonomia de uploads.
func classifyUploadError(err error) UploadErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return UploadCancelled
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 401, 403:
			return UploadUnauthorized
		case 408, 429, 500, 502, 503, 504:
			// O cliente do Storage já esgotou as retentativas internas
			return UploadRetryLimitExceeded
		}
	}
	return UploadUnknown
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeFilename reduz o nome enviado pelo cliente a um nome seguro de
// objeto: apenas o nome base, sem separadores de caminho nem caracteres
// estranhos.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	safe := unsafeFilenameChars.ReplaceAllString(base, "_")
	safe = strings.Trim(safe, "._")
	if safe == "" {
		return "arquivo"
	}
	return safe
}

// objectPathFor monta o caminho final do objeto: prefixo de destino + id único
// para evitar colisões entre arquivos de mesmo nome.
func objectPathFor(prefix, filename string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + uuid.NewString() + "_" + sanitizeFilename(filename)
}
