package game

import (
	"image"
	"sync"
)

// FrameFeed 视频帧交接点
//
// 解码 goroutine 调用 Push，游戏循环调用 Take。
// 只保留最新一帧，游戏循环来不及取走的帧直接丢弃。
type FrameFeed struct {
	mu      sync.Mutex
	latest  *image.RGBA
	dropped int
}

// Push 放入一帧，覆盖尚未取走的旧帧
func (f *FrameFeed) Push(img *image.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest != nil {
		f.dropped++
	}
	f.latest = img
}

// Take 取走最新一帧
func (f *FrameFeed) Take() (*image.RGBA, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := f.latest
	f.latest = nil
	return img, img != nil
}

// Dropped 被覆盖的帧数
func (f *FrameFeed) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}
