package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/orceu/orceu-api-saas/internal/importer"
	"github.com/orceu/orceu-api-saas/internal/logging"
	"github.com/orceu/orceu-api-saas/internal/store"
	"github.com/orceu/orceu-api-saas/pkg/orcamento"
	"github.com/sirupsen/logrus"
)

var (
	errMissingFile  = errors.New("missing file field")
	errBadMultipart = errors.New("malformed multipart form")
)

const msgInternalError = "Erro interno ao processar o arquivo."

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// mapError returns the status code and user message for err.
func (s *Server) mapError(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	var invalid *orcamento.ValidationError

	switch {
	case errors.Is(err, importer.ErrFileTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("Arquivo excede o limite de %dMB", s.opts.MaxFileSize>>20)
	case errors.Is(err, importer.ErrPDFNotSupported):
		return http.StatusBadRequest, "Conversão de PDF não suportada; envie .xlsx, .xlsm ou .csv."
	case errors.Is(err, orcamento.ErrUnsupportedFormat):
		return http.StatusBadRequest, "Arquivo deve ser .xlsx, .xlsm ou .csv"
	case errors.Is(err, importer.ErrEmptyFile):
		return http.StatusBadRequest, "Arquivo vazio."
	case errors.Is(err, errMissingFile):
		return http.StatusBadRequest, "Envie o arquivo no campo 'file'."
	case errors.Is(err, errBadMultipart):
		return http.StatusBadRequest, "Formulário multipart inválido."
	case errors.Is(err, orcamento.ErrInvalidMode):
		return http.StatusBadRequest, "Modo inválido; use semantic ou raw."
	case errors.Is(err, importer.ErrInvalidImportID):
		return http.StatusBadRequest, "Identificador de importação inválido."
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, "Orçamento inválido: " + invalid.Error()
	case errors.Is(err, orcamento.ErrInvalidFormat),
		errors.Is(err, orcamento.ErrNoSheets),
		errors.Is(err, orcamento.ErrSheetNotFound):
		return http.StatusUnprocessableEntity, "Não foi possível ler a planilha."
	case errors.Is(err, importer.ErrTooManyUploads):
		return http.StatusTooManyRequests, "Muitos envios simultâneos; tente novamente em instantes."
	case errors.Is(err, importer.ErrMarkdownNotFound):
		return http.StatusNotFound, "Arquivo Markdown não encontrado."
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Importação não encontrada."
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// respondError logs err and writes the mapped status and message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := s.mapError(err)

	log := logging.WithFields(r.Context(), logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Warn("request rejected")
	}

	respondJSON(w, r, status, ErrorResponse{Detail: detail})
}
