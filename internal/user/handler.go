package handler

import (
	"errors"
	"net/http"

	"bloglist/internal/errresponse"
	"bloglist/internal/user/model"
	"bloglist/internal/user/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{Service: service}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	return r
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	data := &model.CreateUserRequest{}
	if err := render.Bind(r, data); err != nil {
		_ = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	user, err := h.Service.Register(r.Context(), *data)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			_ = render.Render(w, r, errresponse.ErrInvalidRequest(err))
			return
		}
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	data := &model.LoginRequest{}
	if err := render.Bind(r, data); err != nil {
		_ = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		return
	}

	resp, err := h.Service.Login(r.Context(), *data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			_ = render.Render(w, r, errresponse.ErrUnauthorized(err.Error()))
			return
		}
		_ = render.Render(w, r, errresponse.FromError(err))
		return
	}
	render.JSON(w, r, resp)
}
