package generation

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a terminal pipeline failure.
type Kind string

const (
	KindAuthMissing             Kind = "AUTH_MISSING"
	KindAuthInvalid             Kind = "AUTH_INVALID"
	KindValidation              Kind = "VALIDATION_ERROR"
	KindProfileNotFound         Kind = "PROFILE_NOT_FOUND"
	KindProductNotFound         Kind = "PRODUCT_NOT_FOUND"
	KindPlanLimitReached        Kind = "PLAN_LIMIT_REACHED"
	KindCaptionGenerationFailed Kind = "CAPTION_GENERATION_FAILED"
	KindImageGenerationFailed   Kind = "IMAGE_GENERATION_FAILED"
	KindAssetPersistFailed      Kind = "ASSET_PERSIST_FAILED"
	KindRecordWriteFailed       Kind = "RECORD_WRITE_FAILED"
	KindInternal                Kind = "INTERNAL_ERROR"
)

var kindStatus = map[Kind]int{
	KindAuthMissing:             http.StatusUnauthorized,
	KindAuthInvalid:             http.StatusUnauthorized,
	KindValidation:              http.StatusBadRequest,
	KindProfileNotFound:         http.StatusNotFound,
	KindProductNotFound:         http.StatusNotFound,
	KindPlanLimitReached:        http.StatusTooManyRequests,
	KindCaptionGenerationFailed: http.StatusBadGateway,
	KindImageGenerationFailed:   http.StatusBadGateway,
	KindAssetPersistFailed:      http.StatusInternalServerError,
	KindRecordWriteFailed:       http.StatusInternalServerError,
	KindInternal:                http.StatusInternalServerError,
}

var kindMessage = map[Kind]string{
	KindAuthMissing:             "Autenticação necessária",
	KindAuthInvalid:             "Credencial inválida ou expirada",
	KindValidation:              "Dados da requisição inválidos",
	KindProfileNotFound:         "Perfil não encontrado",
	KindProductNotFound:         "Produto não encontrado",
	KindPlanLimitReached:        "Limite mensal do plano atingido",
	KindCaptionGenerationFailed: "Não foi possível gerar as legendas. Tente novamente.",
	KindImageGenerationFailed:   "Não foi possível gerar a imagem. Tente novamente.",
	KindAssetPersistFailed:      "Não foi possível salvar a imagem gerada. Tente novamente.",
	KindRecordWriteFailed:       "Não foi possível registrar a geração. Tente novamente.",
	KindInternal:                "Erro interno. Tente novamente mais tarde.",
}

// Error is a terminal pipeline failure. Message is safe to show to callers;
// Err carries the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Stage   Stage
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Stage)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error with the default status and message of kind.
func NewError(kind Kind, stage Stage, err error) *Error {
	return &Error{Kind: kind, Status: StatusFor(kind), Message: kindMessage[kind], Stage: stage, Err: err}
}

// WithMessage replaces the caller-facing message.
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WithStatus replaces the HTTP status.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// StatusFor returns the HTTP status of kind.
func StatusFor(kind Kind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AsError extracts an *Error from err, classifying anything else as INTERNAL_ERROR.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(KindInternal, StageResponding, err)
}
