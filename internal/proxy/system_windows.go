//go:build windows

package proxy

import (
	"context"
	"errors"

	"golang.org/x/sys/windows/registry"
)

const internetSettingsKey = `Software\Microsoft\Windows\CurrentVersion\Internet Settings`

// resetSystemProxy clears the per-user WinINet proxy switch
func resetSystemProxy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, internetSettingsKey, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()

	enabled, _, err := key.GetIntegerValue("ProxyEnable")
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}
	if enabled == 0 {
		return nil
	}
	return key.SetDWordValue("ProxyEnable", 0)
}
