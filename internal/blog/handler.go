package handler

import (
	"errors"
	"io"
	"net/http"

	"bloglist/internal/blog/model"
	"bloglist/internal/blog/service"
	"bloglist/internal/errresponse"
	"bloglist/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type BlogHandler struct {
	Service *service.BlogService
}

func NewBlogHandler(service *service.BlogService) *BlogHandler {
	return &BlogHandler{Service: service}
}

// Routes mounts the blog endpoints. Only creation needs a token.
func (h *BlogHandler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBlogs)
	r.With(authenticate).Post("/", h.CreateBlog)
	r.Get("/stats", h.GetStats)
	r.Get("/{id}", h.GetBlog)
	r.Put("/{id}", h.UpdateBlog)
	r.Delete("/{id}", h.DeleteBlog)
	return r
}

func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.Service.List(r.Context())
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, blogs)
}

func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, blog)
}

func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		_ = render.Render(w, r, errresponse.ErrUnauthorized("token missing or invalid"))
		return
	}

	data := &model.CreateBlogRequest{}
	if err := render.Bind(r, data); err != nil {
		_ = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	blog, err := h.Service.Create(r.Context(), identity, *data)
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, blog)
}

func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	patch := &model.BlogPatch{}
	if err := render.Bind(r, patch); err != nil && !errors.Is(err, io.EOF) {
		_ = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	blog, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), *patch)
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, blog)
}

func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.NoContent(w, r)
}

func (h *BlogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, stats)
}
