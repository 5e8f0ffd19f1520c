package layers

import (
	"context"
	"strings"

	"github.com/Suhaibinator/SLayer/pkg/common"
	"github.com/Suhaibinator/SLayer/pkg/service"
)

// IPSourceType defines the source for client IP addresses
type IPSourceType string

const (
	// IPSourceRemoteAddr uses the request's remote address
	IPSourceRemoteAddr IPSourceType = "remote_addr"

	// IPSourceXForwardedFor uses the X-Forwarded-For header
	IPSourceXForwardedFor IPSourceType = "x_forwarded_for"

	// IPSourceXRealIP uses the X-Real-IP header
	IPSourceXRealIP IPSourceType = "x_real_ip"

	// IPSourceCustomHeader uses a custom header specified in the configuration
	IPSourceCustomHeader IPSourceType = "custom_header"
)

// IPConfig defines configuration for IP extraction
type IPConfig struct {
	// Source specifies where to extract the client IP from
	Source IPSourceType

	// CustomHeader is the name of the custom header to use when Source is IPSourceCustomHeader
	CustomHeader string

	// TrustProxy determines whether to trust proxy headers like X-Forwarded-For.
	// If false, the remote address is always used.
	TrustProxy bool
}

// DefaultIPConfig returns the default IP configuration
func DefaultIPConfig() *IPConfig {
	return &IPConfig{
		Source:     IPSourceXForwardedFor,
		TrustProxy: true,
	}
}

// ClientIPFromContext returns the client IP stored by the ClientIP layer.
func ClientIPFromContext(ctx context.Context) string {
	return common.ClientIPFromContext(ctx)
}

// ClientIP is a layer that extracts the client IP from the request and adds
// it to the context passed to the inner service.
func ClientIP[Req, Res any](backend service.Backend[Req, Res], config *IPConfig) service.Layer[Req, Res] {
	if config == nil {
		config = DefaultIPConfig()
	}
	return service.Around(func(c service.Context[Req, Res]) Res {
		ip := extractClientIP(backend, c.Request, config)
		return c.Next(common.WithClientIP(c.Ctx, ip), c.Request)
	})
}

// extractClientIP extracts the client IP from the request based on the configuration
func extractClientIP[Req any](info service.RequestInfo[Req], req Req, config *IPConfig) string {
	var ip string

	switch config.Source {
	case IPSourceXForwardedFor:
		ip = firstForwardedFor(info.Header(req, "X-Forwarded-For"))
	case IPSourceXRealIP:
		ip = info.Header(req, "X-Real-IP")
	case IPSourceCustomHeader:
		ip = info.Header(req, config.CustomHeader)
	case IPSourceRemoteAddr:
		ip = info.RemoteAddr(req)
	default:
		ip = firstForwardedFor(info.Header(req, "X-Forwarded-For"))
	}

	// Without a trusted proxy, or with nothing extracted, fall back to the remote address
	if !config.TrustProxy || ip == "" {
		ip = info.RemoteAddr(req)
	}

	return cleanIP(ip)
}

// firstForwardedFor returns the leftmost (original client) entry of an
// X-Forwarded-For value
func firstForwardedFor(xff string) string {
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

// cleanIP removes the port from an IP address if present
func cleanIP(ip string) string {
	// IPv6 addresses with ports are formatted as [IPv6]:port
	if strings.HasPrefix(ip, "[") {
		end := strings.LastIndex(ip, "]")
		if end > 0 {
			return ip[:end+1]
		}
		return ip
	}

	// More than one colon and no brackets: a bare IPv6 address
	if strings.Count(ip, ":") > 1 {
		return ip
	}

	if end := strings.LastIndex(ip, ":"); end > 0 {
		return ip[:end]
	}

	return ip
}
