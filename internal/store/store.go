// Package store keeps the history of finished matches.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"mygame/football/internal/mq"
)

type MatchHistory struct {
	gorm.Model
	MatchID   string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Room      string `gorm:"type:varchar(8);index"`
	Result    string `gorm:"type:varchar(32)"`
	Winner    string `gorm:"type:varchar(8)"`
	ScoreRed  int
	ScoreBlue int
	Duration  float64
	Players   []mq.PlayerResult `gorm:"serializer:json"`
	EndedAt   time.Time         `gorm:"index"`
}

// HistoryFrom converts a queued result into a row.
func HistoryFrom(r *mq.GameResult) *MatchHistory {
	return &MatchHistory{
		MatchID:   r.MatchID,
		Room:      r.Room,
		Result:    r.Result,
		Winner:    r.Winner,
		ScoreRed:  r.ScoreRed,
		ScoreBlue: r.ScoreBlue,
		Duration:  r.Duration,
		Players:   r.Players,
		EndedAt:   time.Unix(r.Timestamp, 0).UTC(),
	}
}

type Store struct {
	DB *gorm.DB
}

// Open connects with driver "mysql" or "sqlite" and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var dial gorm.Dialector
	switch driver {
	case "mysql":
		dial = mysql.Open(dsn)
	case "sqlite", "":
		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	// 自动迁移表结构
	if err := db.AutoMigrate(&MatchHistory{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{DB: db}, nil
}

// AddHistory inserts a result. A redelivered match id is ignored.
func (s *Store) AddHistory(ctx context.Context, h *MatchHistory) error {
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "match_id"}}, DoNothing: true}).
		Create(h).Error
}

// Save is an mq.SaveFunc.
func (s *Store) Save(ctx context.Context, r *mq.GameResult) error {
	return s.AddHistory(ctx, HistoryFrom(r))
}

// GetHistory 分页查询战绩, newest first. page starts at 1.
func (s *Store) GetHistory(ctx context.Context, room string, page, limit int) ([]MatchHistory, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := s.DB.WithContext(ctx).Order("ended_at desc").Order("id desc")
	if room != "" {
		q = q.Where("room = ?", room)
	}
	var out []MatchHistory
	err := q.Offset((page - 1) * limit).Limit(limit).Find(&out).Error
	return out, err
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
