package dashboard

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shamash/internal/customcmd"
)

// SnapshotFunc produces an invocation context for a guild so dashboard test
// runs see real guild data. Supplied by the Discord layer.
type SnapshotFunc func(guildID string) customcmd.InvocationContext

// Server is the dashboard HTTP API. Every route requires a Bearer token
// minted by the /dashboard slash command; the token scopes all operations to
// one guild.
type Server struct {
	commands *customcmd.Service
	sessions *SessionStore
	snapshot SnapshotFunc
}

func NewServer(commands *customcmd.Service, sessions *SessionStore, snapshot SnapshotFunc) *Server {
	return &Server{commands: commands, sessions: sessions, snapshot: snapshot}
}

// Router builds the gin engine with all dashboard routes mounted.
func (srv *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api", srv.requireSession)
	api.GET("/session", srv.handleSession)
	api.GET("/builtins", srv.handleBuiltins)
	api.GET("/commands", srv.handleList)
	api.POST("/commands", srv.handleCreate)
	api.PUT("/commands/:trigger", srv.handleEdit)
	api.DELETE("/commands/:trigger", srv.handleDelete)
	api.POST("/test", srv.handleTest)

	return r
}

// Run serves the API until ctx is cancelled; run in a goroutine.
func (srv *Server) Run(ctx context.Context, addr string) {
	httpSrv := &http.Server{Addr: addr, Handler: srv.Router()}

	go func() {
		<-ctx.Done()
		log.Println("[INFO] Shutting down dashboard server...")
		httpSrv.Shutdown(context.Background()) //nolint:errcheck
	}()

	log.Printf("[INFO] Dashboard API listening on %s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("[ERR] Dashboard server exited: %v", err)
	}
}

const sessionKey = "dashboard_session"

func (srv *Server) requireSession(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	sess, ok := srv.sessions.Validate(token)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func currentSession(c *gin.Context) Session {
	return c.MustGet(sessionKey).(Session)
}

func (srv *Server) handleSession(c *gin.Context) {
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"guild_id":   sess.GuildID,
		"user_id":    sess.UserID,
		"expires_at": sess.ExpiresAt,
	})
}

// handleBuiltins lists the fixed function registry so the authoring UI can
// offer a picker instead of free-typed names.
func (srv *Server) handleBuiltins(c *gin.Context) {
	type entry struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	}
	names := customcmd.BuiltinNames()
	out := make([]entry, 0, len(names))
	for _, name := range names {
		b, _ := customcmd.LookupBuiltin(name)
		out = append(out, entry{Name: name, Label: b.Label})
	}
	c.JSON(http.StatusOK, gin.H{"builtins": out})
}

func (srv *Server) handleList(c *gin.Context) {
	sess := currentSession(c)
	defs, err := srv.commands.List(sess.GuildID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if defs == nil {
		defs = []customcmd.Definition{}
	}
	c.JSON(http.StatusOK, gin.H{"commands": defs})
}

func (srv *Server) handleCreate(c *gin.Context) {
	sess := currentSession(c)

	var candidate customcmd.Candidate
	if err := c.BindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	def, err := srv.commands.Create(sess.GuildID, sess.UserID, candidate)
	if err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

func (srv *Server) handleEdit(c *gin.Context) {
	sess := currentSession(c)

	var patch customcmd.Patch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	def, err := srv.commands.Edit(sess.GuildID, c.Param("trigger"), patch)
	if err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

func (srv *Server) handleDelete(c *gin.Context) {
	sess := currentSession(c)

	if err := srv.commands.Remove(sess.GuildID, c.Param("trigger")); err != nil {
		writeCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (srv *Server) handleTest(c *gin.Context) {
	sess := currentSession(c)

	var candidate customcmd.Candidate
	if err := c.BindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	ctx := srv.snapshot(sess.GuildID)
	ctx.UserID = sess.UserID

	output, err := srv.commands.Test(candidate, ctx)
	if err != nil {
		writeCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": output})
}

func writeCommandError(c *gin.Context, err error) {
	var verr *customcmd.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, customcmd.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "a command with that trigger already exists"})
	case errors.Is(err, customcmd.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no command with that trigger"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
