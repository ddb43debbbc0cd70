package mysql

import (
	"context"
	"strings"
	"testing"
	"time"

	"SanguoRich/internal/game/event"
)

func TestRecordOf_载荷序列化为JSON(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	evt := event.Event{
		ID:            "e1",
		Type:          event.TypeDiceRolled,
		Source:        event.SourceTurnManager,
		GameID:        "g1",
		Payload:       &event.DiceRolledPayload{GameId: "g1", PlayerId: "liubei", Value: 4},
		CorrelationID: "c1",
		OccurredAt:    at,
	}

	rec, err := RecordOf(evt)
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if rec.EventID != "e1" || rec.GameID != "g1" || rec.Type != string(event.TypeDiceRolled) {
		t.Fatalf("记录字段不符: %+v", rec)
	}
	if !strings.Contains(rec.Payload, `"Value":4`) {
		t.Fatalf("载荷不符: %s", rec.Payload)
	}
	if !rec.OccurredAt.Equal(at) {
		t.Fatalf("时间不符: %v", rec.OccurredAt)
	}
}

func TestRecordOf_空载荷(t *testing.T) {
	rec, err := RecordOf(event.Event{ID: "e2"})
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if rec.Payload != "null" {
		t.Fatalf("空载荷应为 null: %s", rec.Payload)
	}
}

func TestJournal_未初始化返回错误(t *testing.T) {
	var j *Journal
	if err := j.Append(context.Background(), event.Event{}); err == nil {
		t.Fatalf("期望返回错误")
	}
	if (EventRecord{}).TableName() != "sanguo_event_journal" {
		t.Fatalf("表名不符")
	}
}
