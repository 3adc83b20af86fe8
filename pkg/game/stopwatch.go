package game

import "time"

// Stopwatch 游戏计时器
// 由游戏循环推进，而不是读取系统时钟，暂停和测试都不受真实时间影响
type Stopwatch struct {
	elapsed time.Duration
	running bool
}

// Start 开始或继续计时
func (s *Stopwatch) Start() { s.running = true }

// Stop 暂停计时，已累计的时间保留
func (s *Stopwatch) Stop() { s.running = false }

// Reset 停止并清零
func (s *Stopwatch) Reset() {
	s.running = false
	s.elapsed = 0
}

// IsRunning 是否正在计时
func (s *Stopwatch) IsRunning() bool { return s.running }

// Elapsed 累计时间
func (s *Stopwatch) Elapsed() time.Duration { return s.elapsed }

// Advance 计时中时累加 seconds 秒
func (s *Stopwatch) Advance(seconds float64) {
	if s.running && seconds > 0 {
		s.elapsed += time.Duration(seconds * float64(time.Second))
	}
}
