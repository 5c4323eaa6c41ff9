package eventos

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Request bodies use pointer fields so an absent field can be told
// apart from a present-but-zero one; partial updates depend on that.

// OptionalString models a nullable field on partial updates, where
// three states matter: absent (keep the stored value), explicit null
// (clear the column) and a value (replace it).
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON only runs when the key is in the body, so Present
// records exactly that; a JSON null leaves Value nil.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}

type CreateEventoInput struct {
	Descricao  *string `json:"descricao" validate:"required,min=1,max=255"`
	Local      *string `json:"local" validate:"omitnil,max=255"`
	Vagas      *int    `json:"vagas" validate:"omitnil,min=0"`
	DataInicio *string `json:"data_inicio" validate:"required,datahora"`
	DataFinal  *string `json:"data_final" validate:"required,datahora"`
	Cancelado  *bool   `json:"cancelado"`
}

type UpdateEventoInput struct {
	Descricao  *string        `json:"descricao" validate:"omitnil,min=1,max=255"`
	Local      OptionalString `json:"local" validate:"omitnil,max=255"`
	Vagas      *int           `json:"vagas" validate:"omitnil,min=0"`
	DataInicio *string        `json:"data_inicio" validate:"omitnil,datahora"`
	DataFinal  *string        `json:"data_final" validate:"omitnil,datahora"`
	Cancelado  *bool          `json:"cancelado"`
}

// Accepted timestamp layouts; the first one matches the reference API.
var dataHoraLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func ParseDataHora(value string) (time.Time, error) {
	for _, layout := range dataHoraLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("data inválida: %q", value)
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names, not Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Validate OptionalString through its inner pointer so omitnil and
	// the string length rules see a plain *string.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if opt, ok := field.Interface().(OptionalString); ok {
			return opt.Value
		}
		return nil
	}, OptionalString{})

	v.RegisterValidation("datahora", func(fl validator.FieldLevel) bool {
		_, err := ParseDataHora(fl.Field().String())
		return err == nil
	})

	v.RegisterStructValidation(validateJanela, CreateEventoInput{}, UpdateEventoInput{})

	return v
}

// validateJanela enforces data_final > data_inicio. On update the
// comparison only runs when both fields were supplied in the same
// body; supplying data_final alone skips it entirely, matching the
// reference behavior even though it can leave an inconsistent window.
func validateJanela(sl validator.StructLevel) {
	var inicio, final *string

	switch input := sl.Current().Interface().(type) {
	case CreateEventoInput:
		inicio, final = input.DataInicio, input.DataFinal
	case UpdateEventoInput:
		inicio, final = input.DataInicio, input.DataFinal
	}

	if inicio == nil || final == nil {
		return
	}

	inicioT, errInicio := ParseDataHora(*inicio)
	finalT, errFinal := ParseDataHora(*final)
	if errInicio != nil || errFinal != nil {
		// The per-field datahora rule already reports these.
		return
	}

	if !finalT.After(inicioT) {
		sl.ReportError(final, "data_final", "DataFinal", "dataposterior", "")
	}
}

var defaultValidator = newValidator()

// Validate runs the field rules and returns Laravel-style per-field
// message lists, or nil when the input is valid.
func Validate(input interface{}) map[string][]string {
	err := defaultValidator.Struct(input)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"input": {"Dados inválidos."}}
	}

	messages := make(map[string][]string)
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		messages[field] = append(messages[field], messageFor(field, fieldErr))
	}
	return messages
}

func messageFor(field string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", field)
	case "min":
		if fieldErr.Kind() == reflect.String {
			// An empty string on a required-if-present field.
			return fmt.Sprintf("O campo %s é obrigatório.", field)
		}
		return fmt.Sprintf("O campo %s deve ser no mínimo %s.", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("O campo %s não pode ser superior a %s caracteres.", field, fieldErr.Param())
	case "datahora":
		return fmt.Sprintf("O campo %s não é uma data válida.", field)
	case "dataposterior":
		return fmt.Sprintf("O campo %s deve ser uma data posterior ao campo data inicio.", field)
	default:
		return fmt.Sprintf("O campo %s é inválido.", field)
	}
}
