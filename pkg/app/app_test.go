package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/tileplayer/pkg/config"
	"github.com/gonewx/tileplayer/pkg/game"
)

func TestApplyOverrides(t *testing.T) {
	gameplay := config.DefaultGameplayConfig()

	tests := []struct {
		name           string
		cfg            Config
		wantErr        bool
		wantSize       int
		wantDisturbing bool
	}{
		{"无覆盖", Config{}, false, 4, true},
		{"指定边长", Config{Size: 5}, false, 5, true},
		{"关闭干扰元素", Config{NoDisturbing: true}, false, 4, false},
		{"非法边长", Config{Size: 7}, true, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := game.NewSettingsManager(nil)
			require.NoError(t, err)

			err = applyOverrides(settings, gameplay, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantSize, settings.GetSettings().PuzzleSize)
			assert.Equal(t, tt.wantDisturbing, settings.GetSettings().DisturbingElementsEnabled)
		})
	}
}

func TestStorageLocation(t *testing.T) {
	assert.Equal(t, "/data/data/com.gonewx.tileplayer", storageLocation("/data/data/com.gonewx.tileplayer"))
	assert.Contains(t, storageLocation(""), AppName)
}
