package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Inscricao and Certificado are declared storage only: the schema
// keeps them (with cascade deletes into eventos) but no endpoint
// operates on them.

type Inscricao struct {
	bun.BaseModel `bun:"table:inscricoes" json:"-"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	EventoID  int64     `bun:"evento_id,notnull" json:"evento_id"`
	UsuarioID int64     `bun:"usuario_id,notnull" json:"usuario_id"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`

	Evento *Evento `bun:"rel:belongs-to,join:evento_id=id" json:"-"`
}

type Certificado struct {
	bun.BaseModel `bun:"table:certificados" json:"-"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	PresencaID int64     `bun:"presenca_id,notnull" json:"presenca_id"`
	Codigo     string    `bun:"codigo,unique,notnull" json:"codigo"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"updated_at"`
}
