package router

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// clientIPHeaders are consulted in order; the first parseable address wins.
var clientIPHeaders = []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"}

func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if addr, ok := clientAddr(r); ok {
			r.RemoteAddr = addr.String()
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) (netip.Addr, bool) {
	for _, h := range clientIPHeaders {
		v, _, _ := strings.Cut(r.Header.Get(h), ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(v)); err == nil {
			return addr, true
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return netip.Addr{}, false
	}
	addr, err := netip.ParseAddr(host)
	return addr, err == nil
}
