// Package rng 提供可注入的随机源：骰子、季度事件触发与年度价格漂移都从这里取数，
// 同一个种子（或脚本）保证整局对局可复现。
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source 是随机源抽象。
//
// NextDouble 返回 [0,1) 的浮点；NextInt 返回 [min,max) 的整数。
// 调用方负责校验返回值范围，越界视为致命错误，不做截断。
type Source interface {
	NextDouble() float64
	NextInt(min, max int) int
}

// NewSeed 用 crypto/rand 生成一个高熵种子。
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Seeded 是基于 math/rand 的确定性随机源，同一个种子产生同一串序列。
// 不是并发安全的：每局游戏独占一个实例。
type Seeded struct {
	seed int64
	r    *rand.Rand
}

func NewSeeded(seed int64) *Seeded {
	return &Seeded{seed: seed, r: rand.New(rand.NewSource(seed))}
}

func (s *Seeded) Seed() int64 { return s.seed }

func (s *Seeded) NextDouble() float64 {
	return s.r.Float64()
}

func (s *Seeded) NextInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.r.Intn(max-min)
}
