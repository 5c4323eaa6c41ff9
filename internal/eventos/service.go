package eventos

import (
	"database/sql"
	"errors"
	"time"

	"ms-eventos/internal/models"
)

// ErrEventoNaoEncontrado marks a lookup for an id with no row.
var ErrEventoNaoEncontrado = errors.New("evento não encontrado")

type DBLayer interface {
	GetAllEventos() ([]models.Evento, error)
	GetEventoByID(id int64) (*models.Evento, error)
	CreateEvento(evento *models.Evento) error
	UpdateEvento(evento *models.Evento) error
	DeleteEvento(id int64) (int64, error)
}

type EventoService struct {
	DB DBLayer
}

func NewEventoService(db DBLayer) *EventoService {
	return &EventoService{DB: db}
}

func (s *EventoService) ListEventos() ([]models.Evento, error) {
	return s.DB.GetAllEventos()
}

func (s *EventoService) GetEvento(id int64) (*models.Evento, error) {
	evento, err := s.DB.GetEventoByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventoNaoEncontrado
		}
		return nil, err
	}
	return evento, nil
}

// CreateEvento validates the input and inserts a new row. Validation
// runs before any mutation, so a failure never leaves partial state.
// Omitted vagas defaults to 0 and omitted cancelado to false.
func (s *EventoService) CreateEvento(input CreateEventoInput) (*models.Evento, map[string][]string, error) {
	if errs := Validate(input); errs != nil {
		return nil, errs, nil
	}

	dataInicio, err := ParseDataHora(*input.DataInicio)
	if err != nil {
		return nil, nil, err
	}
	dataFinal, err := ParseDataHora(*input.DataFinal)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	evento := &models.Evento{
		Descricao:  *input.Descricao,
		Local:      input.Local,
		DataInicio: dataInicio,
		DataFinal:  dataFinal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Vagas != nil {
		evento.Vagas = *input.Vagas
	}
	if input.Cancelado != nil {
		evento.Cancelado = *input.Cancelado
	}

	if err := s.DB.CreateEvento(evento); err != nil {
		return nil, nil, err
	}
	return evento, nil, nil
}

// UpdateEvento applies a partial update: only fields present in the
// body are merged onto the stored row. After the write the row is
// re-read so the caller gets the authoritative persisted state,
// system-managed timestamps included.
func (s *EventoService) UpdateEvento(id int64, input UpdateEventoInput) (*models.Evento, map[string][]string, error) {
	evento, err := s.GetEvento(id)
	if err != nil {
		return nil, nil, err
	}

	if errs := Validate(input); errs != nil {
		return nil, errs, nil
	}

	if input.Descricao != nil {
		evento.Descricao = *input.Descricao
	}
	if input.Local.Present {
		// An explicit null clears the stored value.
		evento.Local = input.Local.Value
	}
	if input.Vagas != nil {
		evento.Vagas = *input.Vagas
	}
	if input.DataInicio != nil {
		dataInicio, err := ParseDataHora(*input.DataInicio)
		if err != nil {
			return nil, nil, err
		}
		evento.DataInicio = dataInicio
	}
	if input.DataFinal != nil {
		dataFinal, err := ParseDataHora(*input.DataFinal)
		if err != nil {
			return nil, nil, err
		}
		evento.DataFinal = dataFinal
	}
	if input.Cancelado != nil {
		evento.Cancelado = *input.Cancelado
	}
	evento.UpdatedAt = time.Now()

	if err := s.DB.UpdateEvento(evento); err != nil {
		return nil, nil, err
	}

	fresh, err := s.GetEvento(id)
	if err != nil {
		return nil, nil, err
	}
	return fresh, nil, nil
}

func (s *EventoService) DeleteEvento(id int64) error {
	affected, err := s.DB.DeleteEvento(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEventoNaoEncontrado
	}
	return nil
}
