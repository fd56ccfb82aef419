package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"geoarcs/internal/config"
	"geoarcs/internal/interaction"
)

// mapConfig is the static setup a browser renderer needs before the first
// layer stack arrives.
type mapConfig struct {
	StyleURL    string                `json:"styleUrl"`
	AccessToken string                `json:"accessToken,omitempty"`
	View        interaction.ViewState `json:"view"`
}

type Server struct {
	hub      *Hub
	router   *mux.Router
	server   *http.Server
	upgrader websocket.Upgrader
	mapCfg   config.MapConfig
	rankProp string
	valid    *validator
	log      *zap.Logger
}

func NewServer(addr string, hub *Hub, mapCfg config.MapConfig, rankProp string, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	valid, err := newValidator()
	if err != nil {
		return nil, err
	}
	router := mux.NewRouter()
	s := &Server{
		hub:    hub,
		router: router,
		server: &http.Server{
			Addr:         addr,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
			IdleTimeout:  60 * time.Second,
			Handler:      router,
		},
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		mapCfg:   mapCfg,
		rankProp: rankProp,
		valid:    valid,
		log:      log.Named("web"),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/layers", s.handleLayers).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks until the server fails or is shut down. A clean
// shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.log.Info("http server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.log.Info("http server stopped", zap.Error(err))
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	id := uuid.NewString()
	send, ok := s.hub.Register(id)
	if !ok {
		conn.Close()
		return
	}
	c := &client{
		id:       id,
		conn:     conn,
		send:     send,
		hub:      s.hub,
		rankProp: s.rankProp,
		valid:    s.valid,
		log:      s.log.With(zap.String("client", id)),
	}
	go c.writePump()
	go c.readPump()
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewMessage(s.hub.View()))
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	descs := s.hub.Layers()
	if descs == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorMessage(ErrStopped))
		return
	}
	writeJSON(w, http.StatusOK, layersMessage(descs))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapConfig{
		StyleURL:    s.mapCfg.StyleURL,
		AccessToken: s.mapCfg.AccessToken,
		View:        s.hub.View(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
