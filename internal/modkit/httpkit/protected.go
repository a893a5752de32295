package httpkit

import "reviewpulse/internal/platform/net/middleware"

// Protected groups routes behind bearer auth, a nil port leaves them open
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		if p != nil {
			gr.Use(Auth(p))
		}
		fn(gr)
	})
}
