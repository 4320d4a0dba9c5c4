package httptransport

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wellspring/internal/admin/gate"
	"wellspring/internal/platform/requestcontext"
)

// AdminPages serves the server-rendered admin surface. Every page load runs
// through the request gate; handlers read the acting user from the request
// context that the gate populated.
type AdminPages struct{}

// NewAdminPages builds the admin page handlers.
func NewAdminPages() *AdminPages {
	return &AdminPages{}
}

// Register mounts the admin pages behind the gate.
func (p *AdminPages) Register(r chi.Router, g *gate.Gate) {
	r.Group(func(r chi.Router) {
		r.Use(g.Middleware)
		r.Get("/login", p.handleLoginPage)
		r.Get("/", p.handleHome)
	})
}

func (p *AdminPages) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html>
<title>Sign in</title>
<form method="post" action="/auth/login">
  <input type="email" name="email" placeholder="Email" autocomplete="username">
  <input type="password" name="password" placeholder="Password" autocomplete="current-password">
  <button type="submit">Sign in</button>
</form>
`)
}

func (p *AdminPages) handleHome(w http.ResponseWriter, r *http.Request) {
	claims, ok := requestcontext.Claims(r.Context())
	if !ok {
		// The gate only passes protected paths with valid claims; reaching
		// here without them means the handler was mounted outside the gate.
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<title>Wellspring Admin</title>
<h1>Wellspring Admin</h1>
<p>Signed in as %s (%s)</p>
<form method="post" action="/auth/logout"><button type="submit">Sign out</button></form>
`, claims.Email, claims.Role)
}
