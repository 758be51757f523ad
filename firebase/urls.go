package firebase

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"path"
	"strings"

	"github.com/gosimple/slug"
)

const maxNameLength = 80

// storedName turns an uploaded filename into a safe object name, keeping a
// lowercased extension.
func storedName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	base := slug.Make(strings.TrimSuffix(filename, path.Ext(filename)))
	if len(base) > maxNameLength {
		base = strings.TrimRight(base[:maxNameLength], "-")
	}
	if base == "" {
		base = "file"
	}
	return base + ext
}

// forbiddenAddr reports addresses an import must never reach: loopback,
// private ranges, link-local (cloud metadata) and unspecified.
func forbiddenAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified() ||
		(addr.Is4() && addr.As4()[0] == 0)
}

type hostResolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// checkImportURL refuses URLs that would make the server fetch from itself
// or a private network.
func checkImportURL(ctx context.Context, resolver hostResolver, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not allowed", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("URL has no host")
	}
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return fmt.Errorf("host %q is not allowed", host)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if forbiddenAddr(addr) {
			return fmt.Errorf("address %s is not allowed", addr)
		}
		return nil
	}

	addrs, err := resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", host, err)
	}
	for _, addr := range addrs {
		if forbiddenAddr(addr) {
			return fmt.Errorf("%q resolves to %s, which is not allowed", host, addr)
		}
	}
	return nil
}

var defaultResolver hostResolver = net.DefaultResolver
