package shared

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// Version is stamped at build time with -ldflags "-X fed_core/shared.Version=..."
var Version = ""

type IUserAgent interface {
	AddUserAgent(req *http.Request)
}

type userAgent string

func NewUserAgent(cfg *Config) IUserAgent {
	ua := userAgent(fmt.Sprintf("fed_core/%s (+https://%s)", buildVersion(), cfg.Host))
	return &ua
}

// buildVersion falls back to the module version recorded by the go tool, then to "dev".
func buildVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func (ua *userAgent) AddUserAgent(req *http.Request) {
	req.Header.Set("User-Agent", string(*ua))
}
