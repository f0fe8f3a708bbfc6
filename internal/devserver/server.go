package devserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Shreyaannnnn/rag-news-bot-client/internal"
)

// Server is a self-contained stand-in for the chat backend. It speaks the
// same REST and push-channel contract the client consumes, answers
// deterministically and persists sessions in SQLite, which makes it useful
// for demos and for exercising the client end to end.
type Server struct {
	store *Store
	log   zerolog.Logger

	// TokenDelay paces the streamed tokens; zero streams as fast as the
	// socket allows.
	TokenDelay time.Duration

	mu       sync.Mutex
	channels map[string]*websocket.Conn

	router *gin.Engine
	http   *http.Server
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// New creates a dev server backed by the SQLite database at dbPath
func New(dbPath string) (*Server, error) {
	store, err := OpenStore(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:    store,
		log:      internal.Logger.With().Str("component", "devserver").Logger(),
		channels: make(map[string]*websocket.Conn),
	}
	s.setupRouter()
	return s, nil
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())

	api := s.router.Group("/api")
	api.POST("/session", s.createSession)
	api.GET("/session", s.listSessions)
	api.GET("/session/:id/history", s.history)
	api.DELETE("/session/:id", s.deleteSession)
	api.POST("/chat", s.chat)

	s.router.GET("/ws", s.subscribe)
}

// Router exposes the handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves on addr and blocks until Shutdown
func (s *Server) Start(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.router}
	s.log.Info().Str("addr", addr).Msg("dev server listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server, closes open push channels and the store
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.mu.Lock()
	for id, conn := range s.channels {
		_ = conn.Close()
		delete(s.channels, id)
	}
	s.mu.Unlock()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Server) createSession(c *gin.Context) {
	id := uuid.NewString()
	if err := s.store.CreateSession(id); err != nil {
		s.log.Error().Err(err).Msg("create session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	sessions, err := s.store.ListSessions()
	if err != nil {
		s.log.Error().Err(err).Msg("list sessions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}
	s.log.Debug().Str("session_id", id).Msg("session created")
	c.JSON(http.StatusOK, internal.CreateSessionResponse{SessionID: id, Sessions: sessions})
}

func (s *Server) listSessions(c *gin.Context) {
	sessions, err := s.store.ListSessions()
	if err != nil {
		s.log.Error().Err(err).Msg("list sessions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}
	c.JSON(http.StatusOK, internal.ListSessionsResponse{Sessions: sessions})
}

func (s *Server) history(c *gin.Context) {
	id := c.Param("id")
	exists, err := s.store.SessionExists(id)
	if err != nil {
		s.log.Error().Err(err).Msg("session lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	history, err := s.store.History(id)
	if err != nil {
		s.log.Error().Err(err).Msg("history fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	c.JSON(http.StatusOK, internal.HistoryResponse{History: history})
}

func (s *Server) deleteSession(c *gin.Context) {
	id := c.Param("id")
	deleted, err := s.store.DeleteSession(id)
	if err != nil {
		s.log.Error().Err(err).Msg("delete session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete session"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) chat(c *gin.Context) {
	var req internal.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
		return
	}
	exists, err := s.store.SessionExists(req.SessionID)
	if err != nil {
		s.log.Error().Err(err).Msg("session lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	if err := s.store.AppendMessage(req.SessionID, internal.Message{
		Role:    internal.RoleUser,
		Content: req.Message,
	}); err != nil {
		s.log.Error().Err(err).Msg("could not persist user message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist message"})
		return
	}

	answer, sources := answerFor(req.Message)
	s.streamTokens(req.ChannelID, req.SessionID, answer)

	if err := s.store.AppendMessage(req.SessionID, internal.Message{
		Role:    internal.RoleAssistant,
		Content: answer,
	}); err != nil {
		s.log.Error().Err(err).Msg("could not persist assistant message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist message"})
		return
	}

	c.JSON(http.StatusOK, internal.ChatResponse{Answer: answer, Sources: sources})
}

// streamTokens pushes the answer word by word over the requester's channel.
// A missing or broken channel is not an error: the final answer still goes
// back in the HTTP response.
func (s *Server) streamTokens(channelID, sessionID, answer string) {
	s.mu.Lock()
	conn := s.channels[channelID]
	s.mu.Unlock()
	if conn == nil {
		return
	}

	words := strings.SplitAfter(answer, " ")
	for _, w := range words {
		frame := map[string]string{
			"event":     internal.TokenEventName,
			"sessionId": sessionID,
			"token":     w,
		}
		s.mu.Lock()
		err := conn.WriteJSON(frame)
		s.mu.Unlock()
		if err != nil {
			s.log.Debug().Err(err).Str("channel_id", channelID).Msg("push channel write failed")
			return
		}
		if s.TokenDelay > 0 {
			time.Sleep(s.TokenDelay)
		}
	}
}

func (s *Server) subscribe(c *gin.Context) {
	channelID := c.Query("channel")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing channel"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.mu.Lock()
	if prev := s.channels[channelID]; prev != nil {
		_ = prev.Close()
	}
	s.channels[channelID] = conn
	s.mu.Unlock()
	s.log.Debug().Str("channel_id", channelID).Msg("push channel registered")

	// Drain (and discard) client frames until the peer goes away, then
	// unregister.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		s.mu.Lock()
		if s.channels[channelID] == conn {
			delete(s.channels, channelID)
		}
		s.mu.Unlock()
		_ = conn.Close()
		s.log.Debug().Str("channel_id", channelID).Msg("push channel closed")
	}()
}

var cannedSources = []internal.Source{
	{URL: "https://news.example.com/markets", Title: "Markets Digest"},
	{URL: "https://news.example.com/briefing", Title: "Morning Briefing"},
}

// answerFor produces a deterministic answer so demos and tests can assert on
// exact transcripts.
func answerFor(question string) (string, []internal.Source) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "Ask me about a news topic and I will summarize the latest coverage.", nil
	}
	return "Here is the latest on \"" + q + "\": coverage is still developing, and the sources below carry the full story.", cannedSources
}
