package anime

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jikanproxy/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Routes registers the anime endpoints on mux.
func (h *HTTPHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /titles", h.Titles)
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("GET /details", h.Details)
}

type titlesQuery struct {
	Type string `query:"type" validate:"required,oneof=series movie"`
	Page int    `query:"page"`
}

type searchQuery struct {
	Keyword string `query:"keyword" validate:"required,max=200"`
}

type detailsQuery struct {
	ID int `query:"id" validate:"required,gte=1"`
}

// kindForType maps the public type names onto upstream kinds.
var kindForType = map[string]Kind{
	"series": KindTV,
	"movie":  KindMovie,
}

// Titles handles GET /titles
// @Summary List titles
// @Description List one page of series or movies
// @Tags anime
// @Produce json
// @Param type query string true "series or movie"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /titles [get]
func (h *HTTPHandler) Titles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	q := titlesQuery{
		Type: strings.ToLower(query.Get("type")),
		Page: page,
	}
	if details := httpx.ValidateStruct(q); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid 'type'. Use 'series' or 'movie'.", details)
		return
	}

	items, err := h.svc.ListTitles(r.Context(), kindForType[q.Type], q.Page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, items, map[string]any{
		"page":  q.Page,
		"count": len(items),
	})
}

// Search handles GET /search
// @Summary Search titles
// @Description Search titles by keyword, best scored first
// @Tags anime
// @Produce json
// @Param keyword query string true "Search keyword"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := searchQuery{Keyword: strings.TrimSpace(r.URL.Query().Get("keyword"))}
	if details := httpx.ValidateStruct(q); details != nil {
		message := "Missing 'keyword' query param."
		if q.Keyword != "" {
			message = "'keyword' must be at most 200 characters."
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", message, details)
		return
	}

	items, err := h.svc.Search(r.Context(), q.Keyword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, items, map[string]any{
		"count": len(items),
	})
}

// Details handles GET /details
// @Summary Get title details
// @Description Get a title with its seasons and episodes
// @Tags anime
// @Produce json
// @Param id query int true "MyAnimeList id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /details [get]
func (h *HTTPHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("id")))
	if err != nil {
		id = 0
	}
	if details := httpx.ValidateStruct(detailsQuery{ID: id}); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Missing or invalid 'id'", details)
		return
	}

	result, err := h.svc.GetDetails(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, result, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)

	var e *Error
	if !errors.As(err, &e) {
		httpx.JSONError(w, r, status, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	code := "UPSTREAM_ERROR"
	switch {
	case errors.Is(err, ErrNotFound):
		code = "NOT_FOUND"
	case errors.Is(err, ErrInvalidInput):
		code = "BAD_REQUEST"
	}

	var details any
	if len(e.Details) > 0 {
		details = e.Details
	}
	httpx.JSONError(w, r, status, code, e.Message, details)
}
