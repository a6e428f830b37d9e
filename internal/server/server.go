package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/harborlight/dayroster/internal/backup"
	"github.com/harborlight/dayroster/internal/chores"
	"github.com/harborlight/dayroster/internal/config"
	"github.com/harborlight/dayroster/internal/entity"
	"github.com/harborlight/dayroster/internal/handler"
	"github.com/harborlight/dayroster/internal/integrity"
	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/middleware"
	"github.com/harborlight/dayroster/internal/schedule"
	"github.com/harborlight/dayroster/internal/share"
	"github.com/harborlight/dayroster/internal/updates"
	ws "github.com/harborlight/dayroster/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	entityH       *handler.EntityHandler
	scheduleH     *handler.ScheduleHandler
	shareH        *handler.ShareHandler
	updatesH      *handler.UpdatesHandler
	integrityH    *handler.IntegrityHandler
	backupH       *handler.BackupHandler
	sharing       *share.Service
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	store := kv.NewSQLiteStore(db)
	tracker := updates.NewTracker(store, logger.With("component", "updates"))
	entities := entity.NewStore(store, tracker, logger.With("component", "entity"))
	choreEngine := chores.NewEngine(store, rng, logger.With("component", "chores"))
	schedules := schedule.NewStore(store, entities, choreEngine, tracker, rng, logger.With("component", "schedule"))
	sharing := share.NewService(store, schedules, rng, logger.With("component", "share"))
	checker := integrity.NewChecker(store, logger.With("component", "integrity"))

	backupLogger := logger.With("component", "backup")
	history := backup.NewHistory(db)
	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.Endpoint,
			Bucket:    cfg.Backup.Bucket,
			Region:    cfg.Backup.Region,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
		},
		DBPath:        cfg.Database.Path,
		Passphrase:    cfg.Backup.Passphrase,
		ScheduleHour:  cfg.Backup.ScheduleHour,
		RetentionDays: cfg.Backup.RetentionDays,
	}
	backupMgr := backup.NewManager(backupCfg, db, history, func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, backupLogger)

	return &Server{
		db:            db,
		hub:           hub,
		entityH:       handler.NewEntityHandler(entities, hub, logger.With("component", "entity_handler")),
		scheduleH:     handler.NewScheduleHandler(schedules, hub, logger.With("component", "schedule_handler")),
		shareH:        handler.NewShareHandler(sharing, schedules, hub, logger.With("component", "share_handler")),
		updatesH:      handler.NewUpdatesHandler(tracker, logger.With("component", "updates_handler")),
		integrityH:    handler.NewIntegrityHandler(checker, hub, logger.With("component", "integrity_handler")),
		backupH:       handler.NewBackupHandler(backupMgr, history, logger.With("component", "backup_handler")),
		sharing:       sharing,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// ShareService returns the sharing service for cleanup tasks.
func (s *Server) ShareService() *share.Service {
	return s.sharing
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Reference lists
	mux.HandleFunc("GET /api/staff", s.entityH.ListStaff)
	mux.HandleFunc("PUT /api/staff", s.entityH.ReplaceStaff)
	mux.HandleFunc("GET /api/participants", s.entityH.ListParticipants)
	mux.HandleFunc("PUT /api/participants", s.entityH.ReplaceParticipants)
	mux.HandleFunc("GET /api/chores", s.entityH.ListChores)
	mux.HandleFunc("PUT /api/chores", s.entityH.ReplaceChores)
	mux.HandleFunc("GET /api/checklist", s.entityH.ListChecklist)
	mux.HandleFunc("PUT /api/checklist", s.entityH.ReplaceChecklist)
	mux.HandleFunc("GET /api/time-slots", s.entityH.ListTimeSlots)

	// Schedules
	mux.HandleFunc("POST /api/schedules", s.scheduleH.Create)
	mux.HandleFunc("GET /api/schedules", s.scheduleH.List)
	mux.HandleFunc("GET /api/schedules/{date}", s.scheduleH.Get)
	mux.HandleFunc("PUT /api/schedules/{date}/categories/{category}", s.scheduleH.UpdateCategory)

	// Sharing codes. Import is rate limited: six digits is a small space
	// to guess through.
	mux.HandleFunc("POST /api/share", s.shareH.Share)
	mux.HandleFunc("POST /api/share/import", s.rateLimitedHandler(s.shareH.Import))

	// Update notices
	mux.HandleFunc("GET /api/updates/status", s.updatesH.Status)
	mux.HandleFunc("POST /api/updates/acknowledge", s.updatesH.Acknowledge)
	mux.HandleFunc("GET /api/updates/{date}", s.updatesH.ForDate)

	// Data integrity
	mux.HandleFunc("GET /api/integrity/check", s.integrityH.Check)
	mux.HandleFunc("POST /api/integrity/reset", s.integrityH.Reset)
	mux.HandleFunc("PUT /api/integrity/pin", s.integrityH.SetPIN)

	// Backups
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("POST /api/backups", s.backupH.RunNow)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
