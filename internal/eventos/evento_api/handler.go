package evento_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-eventos/internal/eventos"
	"ms-eventos/internal/logger"
	"ms-eventos/internal/models"
	"ms-eventos/internal/utils"
)

// EventoServiceLayer is what the handlers need from the service.
type EventoServiceLayer interface {
	ListEventos() ([]models.Evento, error)
	GetEvento(id int64) (*models.Evento, error)
	CreateEvento(input eventos.CreateEventoInput) (*models.Evento, map[string][]string, error)
	UpdateEvento(id int64, input eventos.UpdateEventoInput) (*models.Evento, map[string][]string, error)
	DeleteEvento(id int64) error
}

type Handler struct {
	EventoService EventoServiceLayer
	Logger        *logger.Logger
}

// ListEventos handles GET /api/eventos.
//
// Responses:
//
//	200 {success:true, message, data:[Evento]} — possibly empty array
//	500 {success:false, message, data:null}
func (h *Handler) ListEventos(w http.ResponseWriter, r *http.Request) {
	eventosList, err := h.EventoService.ListEventos()
	if err != nil {
		h.logError("ListEventos", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Não foi possível listar os eventos."))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Eventos listados com sucesso!", eventosList))
}

// CreateEvento handles POST /api/eventos.
//
// Body: descricao (required, ≤255), local (≤255, nullable), vagas
// (int ≥0, default 0), data_inicio (required), data_final (required,
// after data_inicio), cancelado (bool, default false).
//
// Responses:
//
//	201 {success:true, message, data:Evento}
//	422 {success:false, message, data:null, errors:{field:[msg]}}
//	500 {success:false, message, data:null}
func (h *Handler) CreateEvento(w http.ResponseWriter, r *http.Request) {
	var input eventos.CreateEventoInput
	if errs, ok := decodeInput(r, &input); !ok {
		utils.WriteJSON(w, http.StatusUnprocessableEntity,
			utils.ValidationErrorResponse("Não foi possível criar o evento. Verifique os dados informados.", errs))
		return
	}

	evento, validationErrs, err := h.EventoService.CreateEvento(input)
	if err != nil {
		h.logError("CreateEvento", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Não foi possível criar o evento."))
		return
	}
	if validationErrs != nil {
		utils.WriteJSON(w, http.StatusUnprocessableEntity,
			utils.ValidationErrorResponse("Não foi possível criar o evento. Verifique os dados informados.", validationErrs))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Evento criado com sucesso!", evento))
}

// GetEvento handles GET /api/eventos/{id}.
//
// Responses:
//
//	200 {success:true, message, data:Evento}
//	404 {success:false, message, data:null}
//	500 {success:false, message, data:null}
func (h *Handler) GetEvento(w http.ResponseWriter, r *http.Request) {
	id, ok := eventoID(w, r)
	if !ok {
		return
	}

	evento, err := h.EventoService.GetEvento(id)
	if err != nil {
		if errors.Is(err, eventos.ErrEventoNaoEncontrado) {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Evento não encontrado."))
			return
		}
		h.logError("GetEvento", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Não foi possível consultar o evento."))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Evento encontrado com sucesso!", evento))
}

// UpdateEvento handles PUT and PATCH /api/eventos/{id}.
//
// Any subset of the create fields may be sent; absent fields keep
// their stored values. The returned record is re-read from the store
// after the write.
//
// Responses:
//
//	200 {success:true, message, data:Evento}
//	404 {success:false, message, data:null}
//	422 {success:false, message, data:null, errors:{field:[msg]}}
//	500 {success:false, message, data:null}
func (h *Handler) UpdateEvento(w http.ResponseWriter, r *http.Request) {
	id, ok := eventoID(w, r)
	if !ok {
		return
	}

	var input eventos.UpdateEventoInput
	if errs, decoded := decodeInput(r, &input); !decoded {
		utils.WriteJSON(w, http.StatusUnprocessableEntity,
			utils.ValidationErrorResponse("Não foi possível atualizar o evento. Verifique os dados informados.", errs))
		return
	}

	evento, validationErrs, err := h.EventoService.UpdateEvento(id, input)
	if err != nil {
		if errors.Is(err, eventos.ErrEventoNaoEncontrado) {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Evento não encontrado."))
			return
		}
		h.logError("UpdateEvento", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Não foi possível atualizar o evento."))
		return
	}
	if validationErrs != nil {
		utils.WriteJSON(w, http.StatusUnprocessableEntity,
			utils.ValidationErrorResponse("Não foi possível atualizar o evento. Verifique os dados informados.", validationErrs))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Evento atualizado com sucesso!", evento))
}

// DeleteEvento handles DELETE /api/eventos/{id}. Hard delete; deleting
// an already-deleted id answers 404.
//
// Responses:
//
//	200 {success:true, message, data:null}
//	404 {success:false, message, data:null}
//	500 {success:false, message, data:null}
func (h *Handler) DeleteEvento(w http.ResponseWriter, r *http.Request) {
	id, ok := eventoID(w, r)
	if !ok {
		return
	}

	if err := h.EventoService.DeleteEvento(id); err != nil {
		if errors.Is(err, eventos.ErrEventoNaoEncontrado) {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Evento não encontrado."))
			return
		}
		h.logError("DeleteEvento", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Não foi possível remover o evento."))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Evento removido com sucesso!", nil))
}

// eventoID parses the {id} path parameter. The route pattern only
// admits digits, so a parse failure means a malformed route match and
// is answered like a missing record.
func eventoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Evento não encontrado."))
		return 0, false
	}
	return id, true
}

// decodeInput unmarshals the body into the typed input. An empty body
// decodes to an all-absent input; a malformed body is reported as a
// validation failure so the client sees the usual envelope.
func decodeInput(r *http.Request, input interface{}) (map[string][]string, bool) {
	err := json.NewDecoder(r.Body).Decode(input)
	if err == nil || errors.Is(err, io.EOF) {
		return nil, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string][]string{
			typeErr.Field: {fmt.Sprintf("O campo %s é inválido.", typeErr.Field)},
		}, false
	}
	return map[string][]string{"body": {"O corpo da requisição não é um JSON válido."}}, false
}

func (h *Handler) logError(op string, err error) {
	if h.Logger != nil {
		h.Logger.Error("EVENTO", fmt.Sprintf("%s failed: %v", op, err))
	}
}
