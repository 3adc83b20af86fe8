package systems

import (
	"image/color"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/tileplayer/pkg/components"
	"github.com/gonewx/tileplayer/pkg/ecs"
	"github.com/gonewx/tileplayer/pkg/game"
)

// TestFormatElapsed 测试耗时格式化
func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00.0"},
		{1500 * time.Millisecond, "00:00:01.5"},
		{time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond, "01:02:03.4"},
		{-time.Second, "00:00:00.0"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// TestScoreVisible 测试分数告急时闪烁
func TestScoreVisible(t *testing.T) {
	if !ScoreVisible(1000, 1500, 0.7) {
		t.Error("Expected healthy score always visible")
	}
	if !ScoreVisible(100, 1500, 0.2) {
		t.Error("Expected low score visible in first half period")
	}
	if ScoreVisible(100, 1500, 0.7) {
		t.Error("Expected low score hidden in second half period")
	}
}

// TestStatusText 测试每个状态都有状态栏文字
func TestStatusText(t *testing.T) {
	for s := game.StateUndefined; s <= game.StatePaused; s++ {
		if StatusText(s, false) == "" {
			t.Errorf("Expected status text for %s", s)
		}
	}
	if got := StatusText(game.StateGameOver, true); got != "Solved!" {
		t.Errorf("Expected Solved!, got %q", got)
	}
	for _, mobile := range []bool{false, true} {
		if HintText(game.StateRunning, mobile) == "" {
			t.Errorf("Expected hint while running (mobile=%v)", mobile)
		}
	}
	if got := HintText(game.StatePaused, true); got != "Tap here to resume" {
		t.Errorf("Expected touch hint on mobile, got %q", got)
	}
}

// TestElementTint 测试免疫为金色、告急为红色，透明度取自闪烁状态
func TestElementTint(t *testing.T) {
	base := color.RGBA{R: 40, G: 40, B: 40, A: 210}
	elem := &components.DisturbingElementComponent{IsTerminable: true, ShineAlpha: MaxShineAlpha}

	if got := ElementTint(elem, base, false); got.R != 40 || got.A != MaxShineAlpha {
		t.Errorf("Expected base tint with alpha %d, got %+v", MaxShineAlpha, got)
	}
	if got := ElementTint(elem, base, true); got != (color.RGBA{R: 220, G: 40, B: 40, A: MaxShineAlpha}) {
		t.Errorf("Expected warning tint, got %+v", got)
	}
	elem.IsTerminable = false
	if got := ElementTint(elem, base, true); got != (color.RGBA{R: 230, G: 180, B: 40, A: MaxShineAlpha}) {
		t.Errorf("Expected immune tint, got %+v", got)
	}
}

// TestElementsLeftText 测试剩余数量告急时加警告前缀
func TestElementsLeftText(t *testing.T) {
	if got := ElementsLeftText(5, 3, "scorpions"); got != "5 scorpions left" {
		t.Errorf("Unexpected text %q", got)
	}
	if got := ElementsLeftText(3, 3, "scorpions"); got != "Watch out! 3 scorpions left" {
		t.Errorf("Unexpected text %q", got)
	}
}

// TestLoadFont 测试状态栏字体加载和非法数据
func TestLoadFont(t *testing.T) {
	face, err := loadFont(goregular.TTF, hudFontSize)
	if err != nil {
		t.Fatalf("loadFont error: %v", err)
	}
	if face.Size != hudFontSize {
		t.Errorf("Expected size %v, got %v", hudFontSize, face.Size)
	}

	if _, err := loadFont([]byte("not a font"), hudFontSize); err == nil {
		t.Error("Expected error for invalid font data")
	}
}

// TestTileDrawOrder 测试只绘制瓦片实体，选中的瓦片最后绘制
func TestTileDrawOrder(t *testing.T) {
	tb := newTestBoard(t, 4)
	tiles := tb.board.Tiles()
	if len(tb.board.DisturbingElements()) == 0 {
		t.Fatal("Expected disturbing elements on a fresh board")
	}

	order := TileDrawOrder(tb.em, ecs.InvalidEntity)
	if len(order) != len(tiles) {
		t.Fatalf("Expected %d tiles to draw, got %d", len(tiles), len(order))
	}
	for i, id := range order {
		if id != tiles[i] {
			t.Fatalf("Expected tile %d at draw slot %d, got %d", tiles[i], i, id)
		}
	}

	order = TileDrawOrder(tb.em, tiles[3])
	if len(order) != len(tiles) {
		t.Fatalf("Expected %d tiles to draw, got %d", len(tiles), len(order))
	}
	if order[len(order)-1] != tiles[3] {
		t.Errorf("Expected selected tile %d drawn last, got %v", tiles[3], order)
	}
	if order[3] != tiles[4] {
		t.Errorf("Expected tile %d to move up after the selected one, got %d", tiles[4], order[3])
	}
}
