package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-eventos/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetAllEventos() ([]models.Evento, error) {
	eventos := make([]models.Evento, 0)
	err := d.Bun.NewSelect().
		Model(&eventos).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return eventos, nil
}

func (d *DB) GetEventoByID(id int64) (*models.Evento, error) {
	var evento models.Evento
	err := d.Bun.NewSelect().
		Model(&evento).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &evento, nil
}

func (d *DB) CreateEvento(evento *models.Evento) error {
	_, err := d.Bun.NewInsert().
		Model(evento).
		Exec(context.Background())
	return err
}

func (d *DB) UpdateEvento(evento *models.Evento) error {
	_, err := d.Bun.NewUpdate().
		Model(evento).
		Column("descricao", "local", "vagas", "data_inicio", "data_final", "cancelado", "updated_at").
		Where("id = ?", evento.ID).
		Exec(context.Background())
	return err
}

// DeleteEvento hard-deletes the row and reports how many rows went
// away, so callers can distinguish a missing id.
func (d *DB) DeleteEvento(id int64) (int64, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.Evento)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
