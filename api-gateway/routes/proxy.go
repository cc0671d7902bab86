package routes

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"

	"inventra-backend/shared/config"

	"github.com/gin-gonic/gin"
)

var (
	proxies   = make(map[string]*httputil.ReverseProxy)
	proxiesMu sync.Mutex
)

func serviceURL(name string) string {
	cfg := config.GetConfig()
	switch name {
	case "auth":
		return cfg.AuthServiceURL
	case "inventory":
		return cfg.InventoryServiceURL
	case "notification":
		return cfg.NotificationServiceURL
	default:
		return ""
	}
}

// proxyFor builds the reverse proxy for a backend service once and reuses it
func proxyFor(name string) (*httputil.ReverseProxy, error) {
	proxiesMu.Lock()
	defer proxiesMu.Unlock()

	if p, ok := proxies[name]; ok {
		return p, nil
	}

	target, err := url.Parse(serviceURL(name))
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(target)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("❌ Proxy error for %s service: %v", name, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"Service unavailable","service":"` + name + `"}`))
	}

	proxies[name] = p
	return p, nil
}

// ProxyToService forwards the request to the named backend service
func ProxyToService(serviceName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if serviceURL(serviceName) == "" {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found", "service": serviceName})
			return
		}

		proxy, err := proxyFor(serviceName)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid service URL", "service": serviceName})
			return
		}

		proxy.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
