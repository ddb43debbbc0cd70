// Package mysql 把领域事件按 append-only 方式写进 MySQL，供审计与回放排查。
package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"SanguoRich/internal/game/event"
)

// EventRecord 一行一条领域事件。
type EventRecord struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID       string    `gorm:"column:event_id;type:varchar(64);uniqueIndex;not null" json:"event_id"`
	GameID        string    `gorm:"column:game_id;type:varchar(64);index:idx_game_occurred,priority:1;not null" json:"game_id"`
	Type          string    `gorm:"column:type;type:varchar(128);not null" json:"type"`
	Source        string    `gorm:"column:source;type:varchar(64);not null" json:"source"`
	CorrelationID string    `gorm:"column:correlation_id;type:varchar(64);index;not null" json:"correlation_id"`
	CausationID   string    `gorm:"column:causation_id;type:varchar(64)" json:"causation_id"`
	Payload       string    `gorm:"column:payload;type:json;not null" json:"payload"`
	OccurredAt    time.Time `gorm:"column:occurred_at;type:datetime(6);index:idx_game_occurred,priority:2;not null" json:"occurred_at"`
}

func (EventRecord) TableName() string {
	return "sanguo_event_journal"
}

type Journal struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

var errNilDB = errors.New("journal db is nil")

func (j *Journal) AutoMigrate(ctx context.Context) error {
	if j == nil || j.db == nil {
		return errNilDB
	}
	return j.db.WithContext(ctx).AutoMigrate(&EventRecord{})
}

func (j *Journal) Append(ctx context.Context, evt event.Event) error {
	if j == nil || j.db == nil {
		return errNilDB
	}
	rec, err := RecordOf(evt)
	if err != nil {
		return err
	}
	return j.db.WithContext(ctx).Create(&rec).Error
}

// ListByGame 按发生时间正序返回最近 limit 条。
func (j *Journal) ListByGame(ctx context.Context, gameID string, limit int) ([]EventRecord, error) {
	if j == nil || j.db == nil {
		return nil, errNilDB
	}
	if limit <= 0 {
		limit = 100
	}
	var out []EventRecord
	err := j.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

// RecordOf 把事件信封转成表记录，载荷存 JSON。
func RecordOf(evt event.Event) (EventRecord, error) {
	payload := []byte("null")
	if evt.Payload != nil {
		raw, err := json.Marshal(evt.Payload)
		if err != nil {
			return EventRecord{}, err
		}
		payload = raw
	}
	return EventRecord{
		EventID:       evt.ID,
		GameID:        evt.GameID,
		Type:          string(evt.Type),
		Source:        evt.Source,
		CorrelationID: evt.CorrelationID,
		CausationID:   evt.CausationID,
		Payload:       string(payload),
		OccurredAt:    evt.OccurredAt,
	}, nil
}
