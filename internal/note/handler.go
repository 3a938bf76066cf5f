package handler

import (
	"errors"
	"io"
	"net/http"

	"bloglist/internal/errresponse"
	"bloglist/internal/note/model"
	"bloglist/internal/note/service"
	"bloglist/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type NoteHandler struct {
	Service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{Service: service}
}

func (h *NoteHandler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListNotes)
	r.With(authenticate).Post("/", h.CreateNote)
	r.Get("/{id}", h.GetNote)
	r.Put("/{id}", h.UpdateNote)
	r.Delete("/{id}", h.DeleteNote)
	return r
}

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Service.List(r.Context())
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, notes)
}

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, note)
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		_ = render.Render(w, r, errresponse.ErrUnauthorized("token missing or invalid"))
		return
	}

	data := &model.CreateNoteRequest{}
	if err := render.Bind(r, data); err != nil {
		_ = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	note, err := h.Service.Create(r.Context(), identity, *data)
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, note)
}

func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	patch := &model.NotePatch{}
	// An empty body leaves the note unchanged.
	if err := render.Bind(r, patch); err != nil && !errors.Is(err, io.EOF) {
		_ = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	note, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), *patch)
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, note)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.NoContent(w, r)
}
