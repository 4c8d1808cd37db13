// internal/reminder/reminder.go
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/repository"
	"go_voca_srs/internal/srs"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// Digest は1人の学習者に送る復習リマインダーの内容
type Digest struct {
	LearnerID   uuid.UUID `json:"learner_id"`
	Stats       srs.Stats `json:"stats"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Notifier はダイジェストを学習者に届けます。
type Notifier interface {
	Notify(ctx context.Context, d Digest) error
}

// LogNotifier はダイジェストを構造化ログとして出力するだけの Notifier
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, d Digest) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Review reminder",
		slog.String("learner_id", d.LearnerID.String()),
		slog.Int("due_today", d.Stats.DueToday),
		slog.Int("due_tomorrow", d.Stats.DueTomorrow),
		slog.Int("total_cards", d.Stats.TotalCards),
	)
	return nil
}

// Job はアカウント学習者の復習状況を1時間ごとに確認し、
// 今日の復習が残っている学習者に通知します。
type Job struct {
	store     repository.AccountProgressStore
	notifier  Notifier
	cfg       config.ReminderConfig
	loc       *time.Location
	scheduler *gocron.Scheduler
	logger    *slog.Logger
	now       func() time.Time
}

func New(store repository.AccountProgressStore, notifier Notifier, cfg config.ReminderConfig, logger *slog.Logger) (*Job, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("reminder.New: invalid timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.StartHour < 0 || cfg.EndHour > 23 || cfg.StartHour > cfg.EndHour {
		return nil, fmt.Errorf("reminder.New: invalid notification hours %d-%d", cfg.StartHour, cfg.EndHour)
	}
	return &Job{
		store:     store,
		notifier:  notifier,
		cfg:       cfg,
		loc:       loc,
		scheduler: gocron.NewScheduler(loc),
		logger:    logger.With(slog.String("component", "reminder")),
		now:       time.Now,
	}, nil
}

// Start は毎時の確認を非同期で開始します
func (j *Job) Start(ctx context.Context) error {
	_, err := j.scheduler.Every(1).Hour().Do(func() {
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("Reminder run failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("reminder.Start: %w", err)
	}
	j.scheduler.StartAsync()
	j.logger.Info("Reminder job started",
		slog.Int("start_hour", j.cfg.StartHour),
		slog.Int("end_hour", j.cfg.EndHour),
		slog.String("timezone", j.loc.String()),
	)
	return nil
}

// Stop はスケジューラを止めます
func (j *Job) Stop() {
	j.scheduler.Stop()
}

// InHours は now が通知時間帯 (開始時〜終了時の終わりまで) に入っているかを返します
func (j *Job) InHours(now time.Time) bool {
	h := now.In(j.loc).Hour()
	return h >= j.cfg.StartHour && h <= j.cfg.EndHour
}

// RunOnce は全アカウント学習者を1回確認し、通知した人数を返します。
// 1人の失敗で全体は止めません。
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	now := j.now().In(j.loc)
	if !j.InHours(now) {
		j.logger.Debug("Outside notification hours, skipping reminders", slog.Int("hour", now.Hour()))
		return 0, nil
	}

	learners, err := j.store.ListLearners(ctx)
	if err != nil {
		return 0, fmt.Errorf("reminder.RunOnce: %w", err)
	}

	notified := 0
	for _, id := range learners {
		if ctx.Err() != nil {
			return notified, ctx.Err()
		}
		sent, err := j.checkLearner(ctx, id, now)
		if err != nil {
			j.logger.Warn("Failed to check learner", slog.String("learner_id", id.String()), slog.Any("error", err))
			continue
		}
		if sent {
			notified++
		}
	}

	j.logger.Info("Reminder run completed", slog.Int("learners", len(learners)), slog.Int("notified", notified))
	return notified, nil
}

// CheckLearner は時間帯に関係なく1人分を確認します
func (j *Job) CheckLearner(ctx context.Context, learnerID uuid.UUID) (bool, error) {
	return j.checkLearner(ctx, learnerID, j.now().In(j.loc))
}

func (j *Job) checkLearner(ctx context.Context, learnerID uuid.UUID, now time.Time) (bool, error) {
	cards, err := j.store.List(ctx, learnerID)
	if err != nil {
		return false, err
	}
	stats := srs.StudyStats(cards, now)
	if stats.DueToday == 0 {
		return false, nil
	}
	if err := j.notifier.Notify(ctx, Digest{LearnerID: learnerID, Stats: stats, GeneratedAt: now}); err != nil {
		return false, fmt.Errorf("notify: %w", err)
	}
	return true, nil
}
