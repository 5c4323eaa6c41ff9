package evento_api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-eventos/internal/auth"
	"ms-eventos/internal/eventos"
	"ms-eventos/internal/eventos/evento_api"
	"ms-eventos/internal/models"
)

const testToken = "12345"

// mockDB stands in for the bun-backed store so the full
// router-service-handler pipeline runs against memory.
type mockDB struct {
	eventos      map[int64]models.Evento
	nextID       int64
	shouldFailOn string
}

func newMockDB() *mockDB {
	return &mockDB{eventos: make(map[int64]models.Evento), nextID: 1}
}

func (m *mockDB) fail(op string) error {
	if m.shouldFailOn == op {
		return errors.New("store unreachable")
	}
	return nil
}

func (m *mockDB) GetAllEventos() ([]models.Evento, error) {
	if err := m.fail("GetAllEventos"); err != nil {
		return nil, err
	}
	list := make([]models.Evento, 0, len(m.eventos))
	for id := int64(1); id < m.nextID; id++ {
		if evento, ok := m.eventos[id]; ok {
			list = append(list, evento)
		}
	}
	return list, nil
}

func (m *mockDB) GetEventoByID(id int64) (*models.Evento, error) {
	if err := m.fail("GetEventoByID"); err != nil {
		return nil, err
	}
	evento, ok := m.eventos[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &evento, nil
}

func (m *mockDB) CreateEvento(evento *models.Evento) error {
	if err := m.fail("CreateEvento"); err != nil {
		return err
	}
	evento.ID = m.nextID
	m.nextID++
	m.eventos[evento.ID] = *evento
	return nil
}

func (m *mockDB) UpdateEvento(evento *models.Evento) error {
	if err := m.fail("UpdateEvento"); err != nil {
		return err
	}
	m.eventos[evento.ID] = *evento
	return nil
}

func (m *mockDB) DeleteEvento(id int64) (int64, error) {
	if err := m.fail("DeleteEvento"); err != nil {
		return 0, err
	}
	if _, ok := m.eventos[id]; !ok {
		return 0, nil
	}
	delete(m.eventos, id)
	return 1, nil
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func newTestRouter(db *mockDB) http.Handler {
	handler := &evento_api.Handler{
		EventoService: eventos.NewEventoService(db),
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(testToken))
		r.Route("/eventos", func(r chi.Router) {
			r.Get("/", handler.ListEventos)
			r.Post("/", handler.CreateEvento)
			r.Get("/{id:[0-9]+}", handler.GetEvento)
			r.Put("/{id:[0-9]+}", handler.UpdateEvento)
			r.Patch("/{id:[0-9]+}", handler.UpdateEvento)
			r.Delete("/{id:[0-9]+}", handler.DeleteEvento)
		})
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func workshopBody() map[string]interface{} {
	return map[string]interface{}{
		"descricao":   "Workshop",
		"data_inicio": "2024-12-01 10:00:00",
		"data_final":  "2024-12-01 18:00:00",
	}
}

func decodeEvento(t *testing.T, data json.RawMessage) models.Evento {
	t.Helper()
	var evento models.Evento
	require.NoError(t, json.Unmarshal(data, &evento))
	return evento
}

func TestRequestsWithoutTokenAreRejectedEverywhere(t *testing.T) {
	router := newTestRouter(newMockDB())

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/eventos"},
		{http.MethodPost, "/api/eventos"},
		{http.MethodGet, "/api/eventos/1"},
		{http.MethodPut, "/api/eventos/1"},
		{http.MethodPatch, "/api/eventos/1"},
		{http.MethodDelete, "/api/eventos/1"},
	}

	for _, tt := range requests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tt.method, tt.path)

		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)

		req = httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s wrong token", tt.method, tt.path)
	}
}

func TestListEventosEmpty(t *testing.T) {
	router := newTestRouter(newMockDB())

	rec, resp := doJSON(t, router, http.MethodGet, "/api/eventos", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Eventos listados com sucesso!", resp.Message)
	assert.Equal(t, "[]", string(resp.Data))
}

func TestListEventosStoreFault(t *testing.T) {
	db := newMockDB()
	db.shouldFailOn = "GetAllEventos"
	router := newTestRouter(db)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/eventos", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "null", string(resp.Data))
	assert.Empty(t, resp.Errors)
}

func TestCreateEventoWithDefaults(t *testing.T) {
	router := newTestRouter(newMockDB())

	rec, resp := doJSON(t, router, http.MethodPost, "/api/eventos", workshopBody())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Evento criado com sucesso!", resp.Message)

	evento := decodeEvento(t, resp.Data)
	assert.Equal(t, "Workshop", evento.Descricao)
	assert.Equal(t, 0, evento.Vagas)
	assert.False(t, evento.Cancelado)
	assert.NotZero(t, evento.ID)
}

func TestCreateEventoWindowInverted(t *testing.T) {
	router := newTestRouter(newMockDB())

	body := workshopBody()
	body["data_inicio"] = "2024-12-01 18:00:00"
	body["data_final"] = "2024-12-01 10:00:00"

	rec, resp := doJSON(t, router, http.MethodPost, "/api/eventos", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "null", string(resp.Data))
	assert.Contains(t, resp.Errors, "data_final")
}

func TestCreateEventoMissingRequiredFields(t *testing.T) {
	router := newTestRouter(newMockDB())

	rec, resp := doJSON(t, router, http.MethodPost, "/api/eventos", map[string]interface{}{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp.Errors, "descricao")
	assert.Contains(t, resp.Errors, "data_inicio")
	assert.Contains(t, resp.Errors, "data_final")
}

func TestCreateEventoMalformedBody(t *testing.T) {
	router := newTestRouter(newMockDB())

	req := httptest.NewRequest(http.MethodPost, "/api/eventos", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	router := newTestRouter(newMockDB())

	body := workshopBody()
	body["local"] = "Auditório Principal"
	body["vagas"] = 50

	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", body)
	id := decodeEvento(t, created.Data).ID

	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/eventos/%d", id), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Evento encontrado com sucesso!", resp.Message)

	evento := decodeEvento(t, resp.Data)
	assert.Equal(t, "Workshop", evento.Descricao)
	require.NotNil(t, evento.Local)
	assert.Equal(t, "Auditório Principal", *evento.Local)
	assert.Equal(t, 50, evento.Vagas)
}

func TestGetEventoNotFound(t *testing.T) {
	router := newTestRouter(newMockDB())

	rec, resp := doJSON(t, router, http.MethodGet, "/api/eventos/999", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Evento não encontrado.", resp.Message)
	assert.Equal(t, "null", string(resp.Data))
}

func TestGetEventoNonNumericIDFallsOutAtRouting(t *testing.T) {
	router := newTestRouter(newMockDB())

	req := httptest.NewRequest(http.MethodGet, "/api/eventos/abc", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEventoPartial(t *testing.T) {
	router := newTestRouter(newMockDB())

	body := workshopBody()
	body["vagas"] = 50
	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", body)
	id := decodeEvento(t, created.Data).ID

	rec, resp := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/eventos/%d", id),
		map[string]interface{}{"local": "Sala 2"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Evento atualizado com sucesso!", resp.Message)

	evento := decodeEvento(t, resp.Data)
	require.NotNil(t, evento.Local)
	assert.Equal(t, "Sala 2", *evento.Local)
	assert.Equal(t, "Workshop", evento.Descricao)
	assert.Equal(t, 50, evento.Vagas)
	assert.False(t, evento.Cancelado)
}

func TestUpdateEventoExplicitNullClearsLocal(t *testing.T) {
	router := newTestRouter(newMockDB())

	body := workshopBody()
	body["local"] = "Auditório Principal"
	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", body)
	id := decodeEvento(t, created.Data).ID

	rec, resp := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/eventos/%d", id),
		map[string]interface{}{"local": nil})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeEvento(t, resp.Data).Local)

	// A later body without the key leaves the cleared value alone.
	rec, resp = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/eventos/%d", id),
		map[string]interface{}{"vagas": 10})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeEvento(t, resp.Data).Local)
}

func TestUpdateEventoMalformedBody(t *testing.T) {
	router := newTestRouter(newMockDB())

	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", workshopBody())
	id := decodeEvento(t, created.Data).ID

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/eventos/%d", id),
		bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)
}

func TestUpdateEventoViaPatch(t *testing.T) {
	router := newTestRouter(newMockDB())

	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", workshopBody())
	id := decodeEvento(t, created.Data).ID

	rec, resp := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/eventos/%d", id),
		map[string]interface{}{"cancelado": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEvento(t, resp.Data).Cancelado)
}

func TestUpdateEventoNotFound(t *testing.T) {
	router := newTestRouter(newMockDB())

	rec, resp := doJSON(t, router, http.MethodPut, "/api/eventos/999",
		map[string]interface{}{"descricao": "x"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Evento não encontrado.", resp.Message)
}

func TestUpdateEventoValidationFailure(t *testing.T) {
	router := newTestRouter(newMockDB())

	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", workshopBody())
	id := decodeEvento(t, created.Data).ID

	rec, resp := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/eventos/%d", id),
		map[string]interface{}{
			"data_inicio": "2024-12-01 18:00:00",
			"data_final":  "2024-12-01 10:00:00",
		})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp.Errors, "data_final")
}

func TestDeleteEvento(t *testing.T) {
	router := newTestRouter(newMockDB())

	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", workshopBody())
	id := decodeEvento(t, created.Data).ID

	rec, resp := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/eventos/%d", id), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Evento removido com sucesso!", resp.Message)
	assert.Equal(t, "null", string(resp.Data))

	// Deleting the same id again is a 404, not a silent success.
	rec, resp = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/eventos/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestStoreFaultYieldsGeneric500(t *testing.T) {
	db := newMockDB()
	router := newTestRouter(db)

	_, created := doJSON(t, router, http.MethodPost, "/api/eventos", workshopBody())
	id := decodeEvento(t, created.Data).ID

	db.shouldFailOn = "GetEventoByID"
	rec, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/eventos/%d", id), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Não foi possível consultar o evento.", resp.Message)
	assert.NotContains(t, resp.Message, "unreachable")
	assert.Empty(t, resp.Errors)
}
