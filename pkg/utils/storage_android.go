//go:build android

package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// androidDataRoot 应用私有数据的根目录
const androidDataRoot = "/data/data"

// EnsureStorageDir 确保 Android 上的设置目录存在并可写
//
// gdata 在 Android 上把数据写到 /data/data/{package}/saves，但不会自己创建该目录，
// 所以要在 gdata.Open 之前调用。
//
// 返回：
//   - error: 包名无法识别，或目录无法创建、不可写
func EnsureStorageDir() error {
	dir, err := savesDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

// GetStoragePath 应用的私有数据目录，识别失败时返回空字符串
func GetStoragePath() string {
	pkg, err := androidPackage()
	if err != nil {
		return ""
	}
	return filepath.Join(androidDataRoot, pkg)
}

func savesDir() (string, error) {
	pkg, err := androidPackage()
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}
	return filepath.Join(androidDataRoot, pkg, "saves"), nil
}

// androidPackage 进程名即包名，取 /proc/self/cmdline 的第一个参数
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name, _, _ := bytes.Cut(data, []byte{0})
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return "", errors.New("empty /proc/self/cmdline")
	}
	return string(name), nil
}
