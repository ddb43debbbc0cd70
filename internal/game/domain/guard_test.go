package domain

import (
	"strings"
	"testing"
)

func TestWriterGuard_重叠访问直接panic(t *testing.T) {
	p := mustPlayer(t, "p1", mustMajor(t, 1))
	release := p.guard.Enter("test.hold")
	defer release()

	defer func() {
		r := recover()
		msg, _ := r.(string)
		if !strings.Contains(msg, string(CodeConcurrentAccess)) || !strings.Contains(msg, "player:p1") {
			t.Fatalf("期望并发访问 panic, got=%v", r)
		}
	}()
	_ = p.Money()
	t.Fatalf("期望上一行 panic")
}

func TestWriterGuard_顺序访问不受影响(t *testing.T) {
	p := mustPlayer(t, "p1", mustMajor(t, 1))
	for range 3 {
		_ = p.Money()
		_ = p.ToView()
	}
}
