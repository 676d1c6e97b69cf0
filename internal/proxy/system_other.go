//go:build !windows && !darwin && !linux

package proxy

import "context"

func resetSystemProxy(context.Context) error {
	return ErrUnsupported
}
