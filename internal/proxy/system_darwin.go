//go:build darwin

package proxy

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// resetSystemProxy turns off web, secure web and SOCKS proxies on every network service
func resetSystemProxy(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "networksetup", "-listallnetworkservices").Output()
	if err != nil {
		return fmt.Errorf("list network services: %w", err)
	}

	for _, service := range parseNetworkServices(string(out)) {
		for _, flag := range []string{"-setwebproxystate", "-setsecurewebproxystate", "-setsocksfirewallproxystate"} {
			if err := exec.CommandContext(ctx, "networksetup", flag, service, "off").Run(); err != nil {
				return fmt.Errorf("%s %q: %w", flag, service, err)
			}
		}
	}
	return nil
}

// parseNetworkServices skips the header line and disabled services (prefixed with '*')
func parseNetworkServices(out string) []string {
	var services []string
	for i, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if i == 0 || line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		services = append(services, line)
	}
	return services
}
