package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AaronLay10/SliderEngine/internal/events"
	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

// maxBodyBytes bounds request bodies; sliders carry only text and URLs.
const maxBodyBytes = 1 << 20

func sliderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) listSliders(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	out := make([]storage.Summary, 0, len(list))
	for _, rec := range list {
		out = append(out, storage.Summarize(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSlider(w http.ResponseWriter, r *http.Request) {
	id, err := sliderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slider id")
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// saveSlider creates the slider when the body has no id and updates it
// otherwise.
func (s *Server) saveSlider(w http.ResponseWriter, r *http.Request) {
	req := slider.Slider{Settings: slider.DefaultSettings()}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	s.save(w, r, req)
}

func (s *Server) updateSlider(w http.ResponseWriter, r *http.Request) {
	id, err := sliderID(r)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid slider id")
		return
	}
	req := slider.Slider{Settings: slider.DefaultSettings()}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.ID = id
	s.save(w, r, req)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, req slider.Slider) {
	clean, err := slider.Sanitize(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created := clean.ID == 0
	rec, err := storage.Save(r.Context(), s.store, clean)
	if err != nil {
		s.storeError(w, err)
		return
	}

	name, status := "slider.updated", http.StatusOK
	if created {
		name, status = "slider.created", http.StatusCreated
	}
	events.Emit("info", name, "", map[string]interface{}{
		"slider_id": strconv.FormatInt(rec.ID, 10),
		"name":      rec.Name,
		"slides":    len(rec.Slides),
	})
	writeOK(w, status, rec)
}

func (s *Server) deleteSlider(w http.ResponseWriter, r *http.Request) {
	id, err := sliderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slider id")
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}

	detached := 0
	if s.embeds != nil {
		detached = s.embeds.DetachSlider(id)
	}
	events.Emit("info", "slider.deleted", "", map[string]interface{}{
		"slider_id":       strconv.FormatInt(id, 10),
		"embeds_detached": detached,
	})
	writeOK(w, http.StatusOK, nil)
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "slider not found")
		return
	}
	s.log.Error("store request failed", "error", err)
	events.Emit("error", "system.error", "store request failed", map[string]interface{}{"error": err.Error()})
	writeError(w, http.StatusInternalServerError, "internal error")
}
