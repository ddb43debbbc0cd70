package event

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"SanguoRich/internal/game/domain"
	"SanguoRich/modules/kit/tracex"
)

func TestBus_按订阅顺序分发并合并错误(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe("a", func(context.Context, Event) error { order = append(order, "a"); return errors.New("boom-a") })
	bus.Subscribe("b", func(context.Context, Event) error { order = append(order, "b"); return nil })
	bus.Subscribe("c", func(context.Context, Event) error { order = append(order, "c"); return errors.New("boom-c") })

	err := bus.Publish(context.Background(), Event{Type: TypeTurnStarted})
	if strings.Join(order, ",") != "a,b,c" {
		t.Fatalf("期望全部订阅者按顺序收到, got=%v", order)
	}
	if err == nil || !strings.Contains(err.Error(), "boom-a") || !strings.Contains(err.Error(), "boom-c") {
		t.Fatalf("期望合并两个错误, err=%v", err)
	}
}

func TestBus_取消订阅后不再收到(t *testing.T) {
	bus := NewBus()
	rec := NewRecorder(0)
	unsub := bus.Subscribe("rec", rec.Handle)
	_ = bus.Publish(context.Background(), Event{Type: TypeTurnStarted})
	unsub()
	unsub()
	_ = bus.Publish(context.Background(), Event{Type: TypeTurnEnded})
	if got := rec.Types(); len(got) != 1 || got[0] != TypeTurnStarted {
		t.Fatalf("期望只收到第一条, got=%v", got)
	}
	if len(bus.Subscribers()) != 0 {
		t.Fatalf("期望订阅者为空, got=%v", bus.Subscribers())
	}
}

func TestFactory_盖章时间与关联id(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 8*3600))
	f := Factory{Source: SourceEconomyManager, GameID: "g1", Now: func() time.Time { return at }, NewID: func() string { return "e1" }}
	p := &CityBoughtPayload{GameId: "g1", BuyerId: "p1", CityId: "c1", Price: domain.MaxMoney()}
	evt := f.New(TypeCityBought, Meta{CorrelationID: "corr", CausationID: "cmd"}, p)

	if evt.ID != "e1" || evt.OccurredAt.Location() != time.UTC || !evt.OccurredAt.Equal(at) {
		t.Fatalf("信封不对 %+v", evt)
	}
	if p.CorrelationId != "corr" || p.CausationId != "cmd" || !p.OccurredAt.Equal(at) {
		t.Fatalf("载荷未盖章 %+v", p.Trace)
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	for _, key := range []string{`"BuyerId":"p1"`, `"Price":1000000000.00`, `"CorrelationId":"corr"`, `"Type":"core.sanguo.city.bought"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("期望 JSON 包含 %s, got=%s", key, raw)
		}
	}
}

func TestFactory_默认生成唯一id(t *testing.T) {
	f := NewFactory(SourceTurnManager, "g1")
	a := f.New(TypeTurnStarted, Meta{}, &TurnPayload{})
	b := f.New(TypeTurnStarted, Meta{}, &TurnPayload{})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("期望唯一 id, a=%s b=%s", a.ID, b.ID)
	}
}

func TestMetaFromContext(t *testing.T) {
	ctx := tracex.WithCorrelationID(context.Background(), "c-1")
	ctx = tracex.WithCausationID(ctx, "cmd-1")
	if m := MetaFromContext(ctx); m.CorrelationID != "c-1" || m.CausationID != "cmd-1" {
		t.Fatalf("读取失败 %+v", m)
	}
}

func TestRecorder_保留最近N条(t *testing.T) {
	rec := NewRecorder(2)
	for _, typ := range []Type{TypeTurnStarted, TypeTurnEnded, TypeTurnAdvanced} {
		_ = rec.Publish(context.Background(), Event{Type: typ, GameID: "g"})
	}
	got := rec.Types()
	if len(got) != 2 || got[0] != TypeTurnEnded || got[1] != TypeTurnAdvanced {
		t.Fatalf("期望保留最后两条, got=%v", got)
	}
	if len(rec.ForGame("other")) != 0 || len(rec.ForGame("g")) != 2 {
		t.Fatalf("按对局过滤不对")
	}
}
