package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"supportbot/bot"
	"supportbot/models"

	log "github.com/sirupsen/logrus"
)

// Controller is the remote-control slice of the bot the web layer drives.
// *bot.Bot implements it; tests inject a mock.
type Controller interface {
	Start(ctx context.Context, token, channelID, adminRoleID string) error
	Stop(ctx context.Context) error
	Status() models.Status
	SendMessage(ctx context.Context, text string) error
	CreatePoll(ctx context.Context, question string, options []string) error
	UpdatePresence(ctx context.Context, presence string) error
	SendWarning(ctx context.Context, userID, title, body string) error
}

// ProgressReader exposes the progression table to the stats endpoint.
type ProgressReader interface {
	Snapshot(ctx context.Context) map[string]models.UserProgress
}

// StartDefaults are the fallback credentials the warning endpoint uses to
// start a stopped bot. All three must be set for the fallback to apply.
type StartDefaults struct {
	Token       string
	ChannelID   string
	AdminRoleID string
}

// Server is the remote-control surface consumed by the external web layer.
// One action per call, request/response semantics, no retries.
type Server struct {
	controller Controller
	progress   ProgressReader
	defaults   StartDefaults
}

func NewServer(controller Controller, progress ProgressReader, defaults StartDefaults) *Server {
	return &Server{
		controller: controller,
		progress:   progress,
		defaults:   defaults,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/bot-controller", s.handleBotController)
	mux.HandleFunc("POST /api/send-warning", s.handleSendWarning)
	mux.HandleFunc("GET /api/user-stats", s.handleUserStats)
	return mux
}

type controllerRequest struct {
	Action         string   `json:"action"`
	Token          string   `json:"token"`
	ChannelID      string   `json:"channelId"`
	AdminRoleID    string   `json:"adminRoleId"`
	Message        string   `json:"message"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Presence       string   `json:"presence"`
	UserID         string   `json:"userId"`
	Title          string   `json:"title"`
	WarningMessage string   `json:"warningMessage"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Message string `json:"message"`
	models.Status
}

func (s *Server) handleBotController(w http.ResponseWriter, r *http.Request) {
	var req controllerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	ctx := r.Context()

	switch req.Action {
	case "start":
		if req.Token == "" || req.ChannelID == "" || req.AdminRoleID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Token, channelId, and adminRoleId are required"})
			return
		}
		if err := s.controller.Start(ctx, req.Token, req.ChannelID, req.AdminRoleID); err != nil {
			writeError(w, "Failed to start bot", err)
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{
			Message: "Bot started successfully",
			Status:  s.controller.Status(),
		})

	case "stop":
		if err := s.controller.Stop(ctx); err != nil {
			writeError(w, "Failed to stop bot", err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Bot stopped successfully"})

	case "status":
		writeJSON(w, http.StatusOK, s.controller.Status())

	case "sendMessage":
		if req.Message == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message is required"})
			return
		}
		if err := s.controller.SendMessage(ctx, req.Message); err != nil {
			writeError(w, "Failed to send message", err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Message sent successfully"})

	case "createPoll":
		if req.Question == "" || len(req.Options) < 2 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Question and at least two options are required"})
			return
		}
		if err := s.controller.CreatePoll(ctx, req.Question, req.Options); err != nil {
			writeError(w, "Failed to create poll", err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Poll created successfully"})

	case "updatePresence":
		if req.Presence == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Presence is required"})
			return
		}
		if err := s.controller.UpdatePresence(ctx, req.Presence); err != nil {
			writeError(w, "Failed to update bot presence", err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Bot presence updated successfully"})

	case "sendWarning":
		if req.UserID == "" || req.Title == "" || req.WarningMessage == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "UserId, title, and warningMessage are required"})
			return
		}
		if err := s.controller.SendWarning(ctx, req.UserID, req.Title, req.WarningMessage); err != nil {
			writeError(w, "Failed to send warning", err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Warning sent successfully"})

	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid action"})
	}
}

type warningRequest struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// handleSendWarning delivers a warning, starting the bot first from the
// configured defaults when it is stopped.
func (s *Server) handleSendWarning(w http.ResponseWriter, r *http.Request) {
	var req warningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if req.UserID == "" || req.Title == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "UserId, title, and message are required"})
		return
	}
	ctx := r.Context()

	if !s.controller.Status().IsRunning {
		if s.defaults.Token == "" || s.defaults.ChannelID == "" || s.defaults.AdminRoleID == "" {
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error: "Failed to send warning", Details: "Bot configuration is missing. Please check your environment variables.",
			})
			return
		}
		if err := s.controller.Start(ctx, s.defaults.Token, s.defaults.ChannelID, s.defaults.AdminRoleID); err != nil {
			writeError(w, "Failed to send warning", err)
			return
		}
	}

	if err := s.controller.SendWarning(ctx, req.UserID, req.Title, req.Message); err != nil {
		writeError(w, "Failed to send warning", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Warning sent successfully"})
}

type userStats struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Credits int          `json:"credits"`
	XP      int          `json:"xp"`
	Level   models.Level `json:"level"`
}

// handleUserStats projects the live progression table as an array.
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	snapshot := s.progress.Snapshot(r.Context())

	stats := make([]userStats, 0, len(snapshot))
	for id, progress := range snapshot {
		stats = append(stats, userStats{
			ID:      id,
			Name:    progress.Name,
			Credits: progress.Credits,
			XP:      progress.XP,
			Level:   progress.Level,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ID < stats[j].ID })

	writeJSON(w, http.StatusOK, stats)
}

// writeError maps validation failures to 400 and everything else to 500.
func writeError(w http.ResponseWriter, message string, err error) {
	log.Errorf("%s: %v", message, err)
	code := http.StatusInternalServerError
	if errors.Is(err, bot.ErrInvalidPoll) {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, errorResponse{Error: message, Details: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
