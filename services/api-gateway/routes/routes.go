package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/api-gateway/proxy"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/auth"
)

// Upstreams holds the base URL of each backend service.
type Upstreams struct {
	Product   string
	Cart      string
	Order     string
	Inventory string
	Parts     string
}

// RegisterRoutes maps public prefixes to their backend. Catalog and inventory
// reads are open; everything else needs a resolved caller.
func RegisterRoutes(r *gin.Engine, resolver *auth.Resolver, f *proxy.Forwarder, up Upstreams) {
	optional := auth.OptionalUser(resolver)
	required := auth.RequireUser(resolver)

	publicRead := func(prefix, base string) {
		h := f.To(base)
		for _, p := range []string{prefix, prefix + "/*any"} {
			r.GET(p, optional, h)
			r.POST(p, required, h)
			r.PUT(p, required, h)
			r.DELETE(p, required, h)
		}
	}
	protected := func(prefix, base string) {
		h := f.To(base)
		for _, p := range []string{prefix, prefix + "/*any"} {
			r.GET(p, required, h)
			r.POST(p, required, h)
			r.PUT(p, required, h)
			r.DELETE(p, required, h)
		}
	}

	publicRead("/products", up.Product)
	publicRead("/categories", up.Product)
	publicRead("/inventory", up.Inventory)

	protected("/cart", up.Cart)
	protected("/orders", up.Order)
	for _, prefix := range []string{"/parts", "/stock", "/reorder", "/analytics", "/notifications"} {
		protected(prefix, up.Parts)
	}
}
