package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AaronLay10/SliderEngine/internal/embed"
	"github.com/AaronLay10/SliderEngine/internal/slider"
)

// renderSlider returns the render payload for GET /sliders/{id}/embed.
// Query parameters height and autoplay override the stored settings.
func (s *Server) renderSlider(w http.ResponseWriter, r *http.Request) {
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
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, embed.Render(rec, slider.Overrides{
		Height:   q.Get("height"),
		Autoplay: q.Get("autoplay"),
	}))
}

type CreateEmbedRequest struct {
	SliderID int64  `json:"slider_id"`
	Height   string `json:"height,omitempty"`
	Autoplay string `json:"autoplay,omitempty"`
}

func (s *Server) createEmbed(w http.ResponseWriter, r *http.Request) {
	var req CreateEmbedRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SliderID <= 0 {
		writeError(w, http.StatusBadRequest, "slider_id required")
		return
	}

	sess, err := s.embeds.Attach(r.Context(), req.SliderID, slider.Overrides{
		Height:   req.Height,
		Autoplay: req.Autoplay,
	})
	switch {
	case err == nil:
	case errors.Is(err, slider.ErrNoSlides):
		writeError(w, http.StatusUnprocessableEntity, "slider has no slides")
		return
	default:
		s.embedError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, sess.Status())
}

func (s *Server) listEmbeds(w http.ResponseWriter, r *http.Request) {
	sessions := s.embeds.List()
	out := make([]embed.Status, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Status())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getEmbed(w http.ResponseWriter, r *http.Request) {
	sess, err := s.embeds.Get(mux.Vars(r)["id"])
	if err != nil {
		s.embedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Status())
}

func (s *Server) deleteEmbed(w http.ResponseWriter, r *http.Request) {
	if err := s.embeds.Detach(mux.Vars(r)["id"]); err != nil {
		s.embedError(w, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

// InputResponse reports whether an input started a navigation, and the
// resulting state.
type InputResponse struct {
	Accepted bool         `json:"accepted"`
	Status   embed.Status `json:"status"`
}

func (s *Server) embedInput(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var cmd embed.Command
	if err := decodeBody(w, r, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	accepted, err := s.embeds.Input(id, cmd)
	if err != nil {
		s.embedError(w, err)
		return
	}
	sess, err := s.embeds.Get(id)
	if err != nil {
		s.embedError(w, err)
		return
	}
	writeOK(w, http.StatusOK, InputResponse{Accepted: accepted, Status: sess.Status()})
}

func (s *Server) embedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, embed.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "embed not found")
	case embed.IsNotFound(err):
		writeError(w, http.StatusNotFound, "slider not found")
	case errors.Is(err, embed.ErrUnknownInput), errors.Is(err, embed.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.storeError(w, err)
	}
}
