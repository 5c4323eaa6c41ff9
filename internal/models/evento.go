package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Evento is a scheduled occurrence with a time window and capacity.
// data_final is always strictly after data_inicio for stored rows that
// passed validation.
type Evento struct {
	bun.BaseModel `bun:"table:eventos" json:"-"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Descricao  string    `bun:"descricao,notnull" json:"descricao"`
	Local      *string   `bun:"local,nullzero" json:"local"`
	Vagas      int       `bun:"vagas,notnull,default:0" json:"vagas"`
	DataInicio time.Time `bun:"data_inicio,notnull" json:"data_inicio"`
	DataFinal  time.Time `bun:"data_final,notnull" json:"data_final"`
	Cancelado  bool      `bun:"cancelado,notnull,default:false" json:"cancelado"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"updated_at"`
}
