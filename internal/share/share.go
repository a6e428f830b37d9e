package share

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
	"github.com/harborlight/dayroster/internal/schedule"
)

var (
	// ErrInvalidCode rejects anything that is not a six-digit code in the
	// generated range. Checked before any storage lookup.
	ErrInvalidCode = errors.New("sharing code must be a six-digit number")
	ErrNotFound    = errors.New("sharing code not found")
	ErrExpired     = errors.New("sharing code has expired")
)

// codeTTL is how long a shared snapshot stays importable.
const codeTTL = 24 * time.Hour

// Codes are drawn from [100000, 999999]; a leading zero never occurs.
var codePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Service exchanges schedule snapshots between app instances through random
// six-digit codes. Snapshots are immutable and expire after 24 hours; this is
// store-and-forward, not live sync.
type Service struct {
	store     kv.Store
	schedules *schedule.Store
	rng       *rand.Rand
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(store kv.Store, schedules *schedule.Store, rng *rand.Rand, logger *slog.Logger) *Service {
	return &Service{store: store, schedules: schedules, rng: rng, now: time.Now, logger: logger}
}

// Share stores an immutable snapshot of the schedule under a fresh random
// code and returns the code. Collisions with a live code regenerate; the
// 900,000-value space makes more than a few retries vanishingly unlikely.
func (s *Service) Share(sched model.Schedule) (string, error) {
	var code string
	for attempt := 0; ; attempt++ {
		if attempt >= 50 {
			return "", errors.New("could not find a free sharing code")
		}
		code = strconv.Itoa(100000 + s.rng.Intn(900000))
		_, exists, err := s.store.Get(kv.SharedKey(code))
		if err != nil {
			return "", fmt.Errorf("check sharing code: %w", err)
		}
		if !exists {
			break
		}
	}

	now := s.now().UTC()
	snapshot := model.SharedSchedule{
		Code:      code,
		Schedule:  sched,
		CreatedAt: now,
		ExpiresAt: now.Add(codeTTL),
	}
	if err := kv.SetJSON(s.store, kv.SharedKey(code), snapshot); err != nil {
		return "", fmt.Errorf("save shared snapshot: %w", err)
	}

	index := s.loadIndex()
	index = append(index, model.ActiveCode{Code: code, ExpiresAt: snapshot.ExpiresAt})
	if err := kv.SetJSON(s.store, kv.KeyActiveCodes, index); err != nil {
		return "", fmt.Errorf("save active code index: %w", err)
	}

	s.logger.Info("schedule shared", "date", sched.Date, "expires_at", snapshot.ExpiresAt)
	return code, nil
}

// Import looks up a code and installs its snapshot as the schedule for
// targetDate, overwriting any schedule already stored for that date. An
// expired snapshot is deleted as a side effect.
func (s *Service) Import(code, targetDate string) (*model.Schedule, error) {
	if !codePattern.MatchString(code) {
		return nil, ErrInvalidCode
	}

	snapshot, found, err := kv.GetJSON[model.SharedSchedule](s.store, kv.SharedKey(code))
	if errors.Is(err, kv.ErrCorrupt) {
		s.logger.Warn("discarding corrupted shared snapshot", "code", code, "error", err)
		if rmErr := s.store.Remove(kv.SharedKey(code)); rmErr != nil {
			s.logger.Error("remove corrupted shared snapshot", "code", code, "error", rmErr)
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load shared snapshot: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	if s.now().After(snapshot.ExpiresAt) {
		if err := s.store.Remove(kv.SharedKey(code)); err != nil {
			s.logger.Error("remove expired shared snapshot", "code", code, "error", err)
		}
		return nil, ErrExpired
	}

	sched := snapshot.Schedule
	sched.Date = targetDate
	sched.ID = model.ScheduleID(targetDate)
	if err := s.schedules.Save(&sched); err != nil {
		return nil, fmt.Errorf("save imported schedule: %w", err)
	}
	return &sched, nil
}

// CleanupExpired deletes every snapshot past expiry and rewrites the index to
// only the still-valid entries. Idempotent; intended to run at process start.
func (s *Service) CleanupExpired() error {
	now := s.now()
	index := s.loadIndex()

	valid := index[:0]
	for _, entry := range index {
		if now.After(entry.ExpiresAt) {
			if err := s.store.Remove(kv.SharedKey(entry.Code)); err != nil {
				s.logger.Error("remove expired shared snapshot", "code", entry.Code, "error", err)
			}
			continue
		}
		valid = append(valid, entry)
	}

	if err := kv.SetJSON(s.store, kv.KeyActiveCodes, valid); err != nil {
		return fmt.Errorf("rewrite active code index: %w", err)
	}
	return nil
}

// loadIndex reads the active-code index. A corrupted index is rebuilt from
// the snapshot keys that still exist.
func (s *Service) loadIndex() []model.ActiveCode {
	index, found, err := kv.GetJSON[[]model.ActiveCode](s.store, kv.KeyActiveCodes)
	if err == nil {
		if !found {
			return nil
		}
		return index
	}
	if !errors.Is(err, kv.ErrCorrupt) {
		s.logger.Warn("load active code index", "error", err)
		return nil
	}

	s.logger.Warn("rebuilding corrupted active code index", "error", err)
	var rebuilt []model.ActiveCode
	keys, err := s.store.Keys()
	if err != nil {
		return nil
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, kv.PrefixShared) {
			continue
		}
		snapshot, _, err := kv.GetJSON[model.SharedSchedule](s.store, key)
		if err != nil {
			continue
		}
		rebuilt = append(rebuilt, model.ActiveCode{Code: snapshot.Code, ExpiresAt: snapshot.ExpiresAt})
	}
	return rebuilt
}
