package ui

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"flowdeck/internal/domain"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

// Session cookies set by the login form and read back by CookieHeaderBridge.
const (
	bearerCookieName = "flowdeck_bearer"
	apiKeyCookieName = "flowdeck_api_key"

	sessionTTL = 24 * time.Hour
)

// sessionCookie builds one session cookie. An empty value produces the
// deletion form (MaxAge -1).
func (h *Handler) sessionCookie(name, value string) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
		return c
	}
	c.Value = value
	c.Expires = time.Now().Add(sessionTTL)
	return c
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.PrincipalFromContext(r.Context()); ok {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}
	renderHTML(w, http.StatusOK, loginPage(strings.TrimSpace(r.URL.Query().Get("error"))))
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/ui/login?error=invalid+form", http.StatusSeeOther)
		return
	}
	kind := strings.TrimSpace(r.Form.Get("kind"))
	token := strings.TrimSpace(r.Form.Get("token"))
	if token == "" {
		http.Redirect(w, r, "/ui/login?error=token+is+required", http.StatusSeeOther)
		return
	}

	// Exactly one credential cookie carries the submitted token; the other
	// one is cleared.
	credential := "bearer"
	bearerValue, apiKeyValue := token, ""
	if kind == "api_key" {
		credential = "api_key"
		bearerValue, apiKeyValue = "", token
	}
	http.SetCookie(w, h.sessionCookie(bearerCookieName, bearerValue))
	http.SetCookie(w, h.sessionCookie(apiKeyCookieName, apiKeyValue))

	// The credential is not verified until the next authenticated request,
	// so the audit row records the submission, not a successful sign-in.
	if h.Audit != nil {
		_ = h.Audit.Insert(r.Context(), &domain.AuditEntry{
			ID:            domain.NewID(),
			PrincipalName: "anonymous",
			Action:        "auth.login",
			Target:        &credential,
			Status:        "success",
			CreatedAt:     time.Now(),
		})
	}
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie(bearerCookieName, ""))
	http.SetCookie(w, h.sessionCookie(apiKeyCookieName, ""))
	http.Redirect(w, r, "/ui/login", http.StatusSeeOther)
}

// CookieHeaderBridge copies session cookies into the auth headers the API
// middleware reads, so browser sessions and API clients share one auth path.
func (h *Handler) CookieHeaderBridge(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headerFromCookie(r, "Authorization", bearerCookieName, "Bearer ")
		if h.Auth.APIKeyEnabled {
			headerFromCookie(r, h.Auth.APIKeyHeader, apiKeyCookieName, "")
		}
		next.ServeHTTP(w, r)
	})
}

// headerFromCookie sets header from the named cookie unless the request
// already carries the header explicitly.
func headerFromCookie(r *http.Request, header, cookieName, prefix string) {
	if r.Header.Get(header) != "" {
		return
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return
	}
	if value := strings.TrimSpace(cookie.Value); value != "" {
		r.Header.Set(header, prefix+value)
	}
}

// RedirectToLogin is the unauthorized handler for console routes: browsers
// get the login page, API paths get a bare 401.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/ui") {
		http.Redirect(w, r, "/ui/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusUnauthorized)
}

// loginPage is standalone chrome: unlike the app shell it pulls Primer from
// the CDN and loads no icon or datastar scripts.
func loginPage(errMsg string) gomponents.Node {
	content := []gomponents.Node{
		html.H1(gomponents.Text("Flowdeck")),
		html.P(gomponents.Text("Sign in with a token to operate the schedule console.")),
		html.Form(
			html.Method("post"),
			html.Action("/ui/login"),
			html.Class("login-form"),
			html.Label(gomponents.Text("Credential type")),
			html.Select(
				html.Name("kind"),
				html.Option(html.Value("bearer"), gomponents.Text("JWT bearer token")),
				html.Option(html.Value("api_key"), gomponents.Text("API key")),
			),
			html.Label(gomponents.Text("Token")),
			html.Textarea(
				html.Name("token"),
				html.Placeholder("Paste token here"),
				html.Required(),
			),
			html.Button(
				html.Type("submit"),
				html.Class("btn btn-primary"),
				gomponents.Text("Sign In"),
			),
		),
	}
	if errMsg != "" {
		content = append([]gomponents.Node{html.P(html.Class("error"), gomponents.Text(fmt.Sprintf("Error: %s", errMsg)))}, content...)
	}

	return html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
			html.TitleEl(gomponents.Text("Sign in | Flowdeck")),
			html.Link(html.Rel("preconnect"), html.Href("https://fonts.googleapis.com")),
			html.Link(html.Rel("preconnect"), html.Href("https://fonts.gstatic.com"), gomponents.Attr("crossorigin", "")),
			html.Link(html.Rel("stylesheet"), html.Href("https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap")),
			html.Link(html.Rel("stylesheet"), html.Href("https://cdn.jsdelivr.net/npm/@primer/css@22.1.0/dist/primer.min.css")),
			html.Link(html.Rel("stylesheet"), html.Href("/ui/static/app.css")),
		),
		html.Body(
			html.Class("login-body"),
			html.Main(html.Class("login-wrap"), gomponents.Group(content)),
		),
	)
}
