package systems

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"slices"
	"time"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/game"
	"github.com/gonewx/tileplayer/pkg/types"
	"github.com/gonewx/tileplayer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	boardBackground = color.RGBA{R: 24, G: 24, B: 32, A: 255}
	tileFallback    = color.RGBA{R: 70, G: 110, B: 160, A: 255}
	tileBorder      = color.RGBA{R: 12, G: 12, B: 16, A: 255}
	selectedBorder  = color.RGBA{R: 250, G: 210, B: 80, A: 255}
	hudText         = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	hintText        = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	splashTint      = color.RGBA{R: 0, G: 0, B: 0, A: 220}
	pausedTint      = color.RGBA{R: 0, G: 0, B: 0, A: 120}

	// immuneTint 免疫（不可消失）的干扰元素
	immuneTint = color.RGBA{R: 230, G: 180, B: 40}
	// warningTint 剩余数量告急时的干扰元素
	warningTint = color.RGBA{R: 220, G: 40, B: 40}
)

// scoreBlinkPeriod 分数告急时的闪烁周期（秒）
const scoreBlinkPeriod = 0.5

// lowScoreRatio 分数低于满分的该比例时闪烁
const lowScoreRatio = 0.2

// hudFontSize 状态栏字号
const hudFontSize = 14

// RenderSystem 绘制棋盘、干扰元素和状态栏
//
// 瓦片截取当前视频帧上 Source 区域；还没有视频帧时用纯色填充。
// 文字用 Go Regular 字体绘制，字体加载失败时退回 ebitenutil.DebugPrintAt。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	board         *GameBoard
	flow          *GameFlowSystem
	font          *text.GoTextFace
	mobile        bool

	frameImage *ebiten.Image
	lastFrame  *image.RGBA
	blinkClock float64
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, board *GameBoard, flow *GameFlowSystem) *RenderSystem {
	font, err := loadFont(goregular.TTF, hudFontSize)
	if err != nil {
		log.Printf("[RenderSystem] Warning: %v, using debug font", err)
	}
	return &RenderSystem{
		entityManager: em,
		board:         board,
		flow:          flow,
		font:          font,
		mobile:        utils.IsMobile(),
	}
}

// loadFont 从 TTF 数据创建字体
func loadFont(ttf []byte, size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source: %w", err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}

// drawText 在 (x,y) 绘制一行文字
func (s *RenderSystem) drawText(screen *ebiten.Image, str string, x, y int, clr color.Color) {
	if s.font == nil {
		ebitenutil.DebugPrintAt(screen, str, x, y)
		return
	}
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(float64(x), float64(y))
	opts.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, s.font, opts)
}

// Update 推进闪烁计时
func (s *RenderSystem) Update(deltaTime float64) {
	s.blinkClock += deltaTime
}

// Draw 绘制一帧，顺序：背景 → 瓦片 → 干扰元素 → 状态栏 → 遮罩
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	area := s.board.Area()
	vector.DrawFilledRect(screen, float32(area.X), float32(area.Y), float32(area.W), float32(area.H), boardBackground, false)

	s.syncFrame()
	s.drawTiles(screen)
	if s.board.DisturbingElementsEnabled() {
		s.drawElements(screen)
	}
	s.drawHUD(screen)

	bounds := screen.Bounds()
	switch {
	case s.flow.IsSplashVisible():
		vector.DrawFilledRect(screen, 0, 0, float32(bounds.Dx()), float32(bounds.Dy()), splashTint, false)
		s.drawText(screen, "TILE PLAYER", bounds.Dx()/2-45, bounds.Dy()/2-8, hudText)
	case s.flow.Current() == game.StatePaused:
		vector.DrawFilledRect(screen, float32(area.X), float32(area.Y), float32(area.W), float32(area.H), pausedTint, false)
	}
}

// syncFrame 视频帧有更新时上传到 GPU 图像
func (s *RenderSystem) syncFrame() {
	frame := s.board.CurrentFrame()
	if frame == nil || frame == s.lastFrame {
		return
	}
	b := frame.Bounds()
	if s.frameImage == nil || s.frameImage.Bounds().Dx() != b.Dx() || s.frameImage.Bounds().Dy() != b.Dy() {
		if s.frameImage != nil {
			s.frameImage.Deallocate()
		}
		s.frameImage = ebiten.NewImage(b.Dx(), b.Dy())
	}
	s.frameImage.WritePixels(frame.Pix)
	s.lastFrame = frame
}

// TileDrawOrder 拥有瓦片和位置组件的实体，按创建顺序排列，选中的瓦片放在最后以便画在最上层
func TileDrawOrder(em *ecs.EntityManager, selected ecs.EntityID) []ecs.EntityID {
	ids := ecs.GetEntitiesWith2[*components.TileComponent, *components.PositionComponent](em)
	if i := slices.Index(ids, selected); i >= 0 {
		ids = append(slices.Delete(ids, i, i+1), selected)
	}
	return ids
}

func (s *RenderSystem) drawTiles(screen *ebiten.Image) {
	selected := s.board.Motion().Selected()
	for _, id := range TileDrawOrder(s.entityManager, selected) {
		tile, ok := ecs.GetComponent[*components.TileComponent](s.entityManager, id)
		if !ok {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}

		if s.frameImage != nil {
			src := tile.Source()
			rect := image.Rect(int(src.X), int(src.Y), int(src.Right()), int(src.Bottom()))
			sub := s.frameImage.SubImage(rect).(*ebiten.Image)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(pos.X, pos.Y)
			screen.DrawImage(sub, op)
		} else {
			vector.DrawFilledRect(screen, float32(pos.X), float32(pos.Y), float32(tile.Width), float32(tile.Height), tileFallback, false)
		}

		border := tileBorder
		if id == selected {
			border = selectedBorder
		}
		vector.StrokeRect(screen, float32(pos.X), float32(pos.Y), float32(tile.Width), float32(tile.Height), 2, border, false)

		if s.board.TileNumbersEnabled() || s.frameImage == nil {
			s.drawText(screen, fmt.Sprintf("%d", tile.Order+1), int(pos.X)+6, int(pos.Y)+4, hudText)
		}
	}
}

func (s *RenderSystem) drawElements(screen *ebiten.Image) {
	spec, _ := s.board.ElementKind().Spec()
	warning := s.board.DisturbingElementsLeft() <= s.board.DisturbingElementsThreshold()
	for _, id := range ecs.GetEntitiesWith2[*components.DisturbingElementComponent, *components.PositionComponent](s.entityManager) {
		elem, ok := ecs.GetComponent[*components.DisturbingElementComponent](s.entityManager, id)
		if !ok || elem.IsTerminated || elem.FrameEmpty {
			continue
		}
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}

		cx := float32(pos.X + elem.Width/2)
		cy := float32(pos.Y + elem.Height/2)
		r := float32(math.Min(elem.Width, elem.Height) / 2)
		tint := ElementTint(elem, spec.Tint, warning)

		if elem.UsingTerminationSprite {
			// 消失动画：环逐帧扩大
			frame := elem.FrameY*components.SpriteGridSize + elem.FrameX
			ring := r * (0.4 + 0.6*float32(frame)/float32(components.SpriteGridSize*components.SpriteGridSize-1))
			vector.StrokeCircle(screen, cx, cy, ring, 3, tint, true)
			continue
		}

		// 身体随移动帧轻微起伏
		phase := float64(elem.FrameY*components.SpriteGridSize+elem.FrameX) / float64(components.SpriteGridSize*components.SpriteGridSize)
		body := r * float32(0.55+0.05*math.Sin(2*math.Pi*phase))
		vector.DrawFilledCircle(screen, cx, cy, body, tint, true)
		vector.StrokeLine(screen, cx-r, cy, cx+r, cy, 2, tint, true)
	}
}

func (s *RenderSystem) drawHUD(screen *ebiten.Image) {
	session := s.board.Session()
	area := s.board.Area()
	state := s.flow.Current()

	x := int(area.X)
	y := int(area.Bottom()) + 8

	s.drawText(screen, StatusText(state, session.Puzzle.IsSolved() && session.Counter > 0), x, y, hudText)
	s.drawText(screen, "Time  "+FormatElapsed(session.Stopwatch.Elapsed()), x, y+16, hudText)
	s.drawText(screen, fmt.Sprintf("Moves %d", session.Counter), x, y+32, hudText)

	if ScoreVisible(session.Score(), s.maxScore(), s.blinkClock) {
		s.drawText(screen, fmt.Sprintf("Score %.0f", session.Score()), x+160, y+16, hudText)
	}
	if s.board.DisturbingElementsEnabled() {
		name := "elements"
		if spec, ok := s.board.ElementKind().Spec(); ok {
			name = spec.PluralName
		}
		left := ElementsLeftText(s.board.DisturbingElementsLeft(), s.board.DisturbingElementsThreshold(), name)
		s.drawText(screen, left, x+160, y+32, hudText)
	}
	s.drawText(screen, HintText(state, s.mobile), x, y+52, hintText)
}

// maxScore 当前拼图的满分（未计时、未移动）
func (s *RenderSystem) maxScore() float64 {
	return s.board.cfg.Score.PointsPerTile * float64(s.board.Puzzle().TileCount())
}

// ElementTint 干扰元素当前的颜色
// 免疫时为金色，剩余数量告急时为红色，其余用种类自己的颜色；透明度取 ShineAlpha
func ElementTint(elem *components.DisturbingElementComponent, base color.RGBA, warning bool) color.RGBA {
	c := base
	switch {
	case !elem.IsTerminable:
		c = immuneTint
	case warning:
		c = warningTint
	}
	c.A = elem.ShineAlpha
	return c
}

// ElementsLeftText 剩余干扰元素提示，不超过阈值时加警告前缀
func ElementsLeftText(left, threshold int, pluralName string) string {
	text := fmt.Sprintf("%d %s left", left, pluralName)
	if left <= threshold {
		return "Watch out! " + text
	}
	return text
}

// StatusText 状态栏第一行
func StatusText(state game.StateID, solved bool) string {
	switch state {
	case game.StateUndefined, game.StateLoading, game.StateLoaded:
		return "Loading..."
	case game.StateStarting, game.StateStarted:
		return "Starting..."
	case game.StateReady:
		return "Welcome"
	case game.StateRunning:
		return "Running"
	case game.StatePaused:
		return "Paused"
	case game.StateGameOver:
		if solved {
			return "Solved!"
		}
		return "Game over"
	}
	return ""
}

// HintText 当前状态下可用的操作提示
// 移动端没有键盘，提示在棋盘下方轻点
func HintText(state game.StateID, mobile bool) string {
	if mobile {
		switch state {
		case game.StateReady:
			return "Tap here or shake to play"
		case game.StateRunning:
			return "Drag or flick tiles  Tap here to pause"
		case game.StatePaused:
			return "Tap here to resume"
		case game.StateGameOver:
			return "Tap here for a new game"
		}
		return ""
	}
	switch state {
	case game.StateReady:
		return "Enter/Space: play  3/4/5: size  D: " + disturbingHint() + "  N: numbers"
	case game.StateRunning:
		return "Drag or flick tiles  P: pause  S: stop"
	case game.StatePaused:
		return "Enter: resume  S: stop"
	case game.StateGameOver:
		return "S: new game"
	}
	return ""
}

func disturbingHint() string {
	if spec, ok := types.ElementScorpion.Spec(); ok {
		return spec.PluralName
	}
	return "elements"
}

// FormatElapsed 把耗时格式化为 hh:mm:ss.f
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int64(d / (100 * time.Millisecond))
	h := tenths / 36000
	m := tenths / 600 % 60
	sec := tenths / 10 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%d", h, m, sec, tenths%10)
}

// ScoreVisible 分数告急时按 scoreBlinkPeriod 闪烁，其余时间总是显示
func ScoreVisible(score, maxScore, clock float64) bool {
	if maxScore <= 0 || score >= maxScore*lowScoreRatio {
		return true
	}
	return math.Mod(clock, scoreBlinkPeriod*2) < scoreBlinkPeriod
}
