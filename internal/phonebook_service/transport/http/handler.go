package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/app"
	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
)

const (
	itemsPath       = "/rest/phonebook-item"
	maxRequestBytes = 1 << 20
)

var errInvalidJSON = errors.New("invalid JSON body")

// ItemService is the application layer used by the handler.
type ItemService interface {
	ListItems(ctx context.Context, filter domain.ListFilter, page domain.PageRequest) (*domain.Page, error)
	CreateItem(ctx context.Context, in app.CreateItemInput) (*domain.PhonebookItem, error)
	UpdateItem(ctx context.Context, id int64, in app.UpdateItemInput) (*domain.PhonebookItem, error)
	DeleteItem(ctx context.Context, id int64) error
}

// StructValidator validates request DTOs.
type StructValidator interface {
	ValidateStruct(ctx context.Context, s any) error
}

type PhonebookItemHandler struct {
	service         ItemService
	validate        StructValidator
	logger          *slog.Logger
	defaultPageSize int
}

func NewPhonebookItemHandler(service ItemService, validate StructValidator, logger *slog.Logger, defaultPageSize int) *PhonebookItemHandler {
	if defaultPageSize < 1 {
		defaultPageSize = domain.DefaultPageSize
	}
	return &PhonebookItemHandler{
		service:         service,
		validate:        validate,
		logger:          logger.With("component", "phonebook_item_handler"),
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes registers phonebook item routes with the provided Chi router.
func (h *PhonebookItemHandler) RegisterRoutes(r chi.Router) {
	r.Get(itemsPath, h.ListItems)
	r.Get(itemsPath+"/{id}", h.ListItems)
	r.Post(itemsPath, h.CreateItem)
	r.Put(itemsPath, h.missingID)
	r.Patch(itemsPath, h.missingID)
	r.Put(itemsPath+"/{id}", h.UpdateItem)
	r.Patch(itemsPath+"/{id}", h.UpdateItem)
	r.Delete(itemsPath, h.DeleteItem)
	r.Delete(itemsPath+"/{id}", h.DeleteItem)
}

// ListItems serves both the filtered listing and the lookup by id.
func (h *PhonebookItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter domain.ListFilter
	rawID := chi.URLParam(r, "id")
	if rawID == "" {
		rawID = q.Get("id")
	}
	if rawID != "" {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			// A malformed id cannot match any row.
			id = 0
		}
		filter.ID = &id
	} else {
		filter.Name = q.Get("name")
	}

	page := domain.PageRequest{
		Page:     intParam(q.Get("page"), domain.DefaultPage),
		PageSize: intParam(q.Get("pageSize"), h.defaultPageSize),
		Offset:   intParam(q.Get("offset"), 0),
	}

	result, err := h.service.ListItems(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, result)
}

func (h *PhonebookItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO CreateItemRequest
	if err := decodeJSONBody(w, r, &reqDTO); err != nil {
		h.writeDecodeError(w, r, err)
		return
	}
	if err := h.validate.ValidateStruct(ctx, reqDTO); err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.service.CreateItem(ctx, reqDTO.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, item)
}

func (h *PhonebookItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondNotFound(w)
		return
	}

	var reqDTO UpdateItemRequest
	if err := decodeJSONBody(w, r, &reqDTO); err != nil {
		h.writeDecodeError(w, r, err)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, reqDTO.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, item)
}

// DeleteItem takes the id from the path or query string, or else from a JSON
// or form body.
func (h *PhonebookItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reqDTO := DeleteItemRequest{ID: idValue(chi.URLParam(r, "id"))}
	if reqDTO.ID == "" {
		reqDTO.ID = idValue(r.URL.Query().Get("id"))
	}
	if reqDTO.ID == "" {
		if err := decodeDeleteBody(w, r, &reqDTO); err != nil {
			h.writeDecodeError(w, r, err)
			return
		}
	}
	reqDTO.ID = idValue(strings.TrimSpace(string(reqDTO.ID)))

	if err := h.validate.ValidateStruct(ctx, reqDTO); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := strconv.ParseInt(string(reqDTO.ID), 10, 64)
	if err != nil || id <= 0 {
		respondNotFound(w)
		return
	}

	if err := h.service.DeleteItem(ctx, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, nil)
}

func (h *PhonebookItemHandler) missingID(w http.ResponseWriter, _ *http.Request) {
	respondNotFound(w)
}

func (h *PhonebookItemHandler) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errInvalidJSON) {
		respondWithFieldErrors(w, map[string]string{"body": "The request body is not valid JSON"})
		return
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	h.writeError(w, r, err)
}

// decodeJSONBody decodes r.Body into dst. An empty body leaves dst untouched.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errInvalidJSON
	}
	return nil
}

func decodeDeleteBody(w http.ResponseWriter, r *http.Request, dst *DeleteItemRequest) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
		if err := r.ParseForm(); err != nil {
			return err
		}
		dst.ID = idValue(r.PostForm.Get("id"))
		return nil
	}
	return decodeJSONBody(w, r, dst)
}

// intParam parses a query value, falling back to def when absent or malformed.
func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
