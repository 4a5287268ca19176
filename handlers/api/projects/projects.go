// Package projects exposes the ProjectStore over a JSON HTTP API.
package projects

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"scenery/core"
)

type handler struct {
	store core.ProjectStore
	log   *logrus.Entry
}

// Handler mounts the project CRUD routes.
func Handler(store core.ProjectStore) http.Handler {
	h := &handler{
		store: store,
		log:   logrus.WithField("handler", "projects"),
	}
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.save)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []core.ProjectSummary{}
	}
	render.JSON(w, r, summaries)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, project)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var project core.Project
	if err := render.DecodeJSON(r.Body, &project); err != nil {
		h.badRequest(w, r, "invalid project payload")
		return
	}
	if project.ID == "" {
		project.ID = core.NewProjectID()
	}
	project.UpdatedAt = time.Now().UTC()
	if err := h.store.Save(r.Context(), &project); err != nil {
		h.fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, project)
}

func (h *handler) save(w http.ResponseWriter, r *http.Request) {
	var project core.Project
	if err := render.DecodeJSON(r.Body, &project); err != nil {
		h.badRequest(w, r, "invalid project payload")
		return
	}
	project.ID = chi.URLParam(r, "id")
	project.UpdatedAt = time.Now().UTC()
	if err := h.store.Save(r.Context(), &project); err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, project)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]string{"error": msg})
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrProjectNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "project not found"})
		return
	}
	h.log.WithError(err).Error("store operation failed")
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]string{"error": "internal error"})
}
