package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/despacholink/expediente/internal/expediente/feed"
	"github.com/despacholink/expediente/internal/expediente/paypal"
	"github.com/despacholink/expediente/internal/expediente/service"
	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/despacholink/expediente/pkg/httpx"
	"github.com/despacholink/expediente/pkg/slogx"

	_ "github.com/despacholink/expediente/api/expediente" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// CookieSecure marks session cookies Secure; on for production.
	CookieSecure bool

	SessionService *service.SessionService
	MFAService     *service.MFAService
	ClientService  *service.ClientService
	TemplateSvc    *service.TemplateService
	ProfileService *service.ProfileService
	PortalService  *service.PortalService
	Payments       *paypal.Client
	Feed           *feed.Bus
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerTemplates()
	r.registerProfile()
	r.registerClients()
	r.registerPortal()
	r.registerPayments()
	r.registerFeed()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			DespachoLink API
//	@version		0.1.0
//	@description	Client onboarding service for law firms: case files (expedientes),
//	@description	single-use magic-link portals, contract signature capture, intake
//	@description	questionnaires and document collection.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		SessionService: r.SessionService,
		CookieSecure:   r.CookieSecure,
	}

	// Credential endpoints get the strict limit; they are the brute-force
	// surface of the firm side.
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/signin",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/signout",
		httpx.Chain(http.HandlerFunc(h.HandleSignOut),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/auth/me", r.secured(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	r.Mux.Handle("POST /api/mfa/totp/enroll", r.secured(http.HandlerFunc(h.HandleEnroll), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/mfa/totp/verify", r.secured(http.HandlerFunc(h.HandleVerify), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/mfa/totp/disable", r.secured(http.HandlerFunc(h.HandleDisable), httpx.ModerateLimit))
}

func (r *Router) registerTemplates() {
	h := &TemplatesHandler{TemplateService: r.TemplateSvc}

	r.Mux.Handle("POST /api/templates/contracts", r.secured(http.HandlerFunc(h.HandleCreateContract), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/templates/contracts", r.secured(http.HandlerFunc(h.HandleListContracts), httpx.LenientLimit))
	r.Mux.Handle("GET /api/templates/contracts/{id}/file", r.secured(http.HandlerFunc(h.HandleContractFile), httpx.LenientLimit))
	r.Mux.Handle("DELETE /api/templates/contracts/{id}", r.secured(http.HandlerFunc(h.HandleDeleteContract), httpx.ModerateLimit))

	r.Mux.Handle("POST /api/templates/questionnaires", r.secured(http.HandlerFunc(h.HandleCreateQuestionnaire), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/templates/questionnaires", r.secured(http.HandlerFunc(h.HandleListQuestionnaires), httpx.LenientLimit))
	r.Mux.Handle("GET /api/templates/questionnaires/{id}", r.secured(http.HandlerFunc(h.HandleGetQuestionnaire), httpx.LenientLimit))
	r.Mux.Handle("DELETE /api/templates/questionnaires/{id}", r.secured(http.HandlerFunc(h.HandleDeleteQuestionnaire), httpx.ModerateLimit))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{ProfileService: r.ProfileService}

	r.Mux.Handle("GET /api/profile", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /api/profile", r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/profile/logo", r.secured(http.HandlerFunc(h.HandleUploadLogo), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/profile/logo", r.secured(http.HandlerFunc(h.HandleLogo), httpx.LenientLimit))
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	r.Mux.Handle("POST /api/clients", r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/clients", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /api/clients/{id}", r.secured(http.HandlerFunc(h.HandleExpediente), httpx.LenientLimit))
	r.Mux.Handle("DELETE /api/clients/{id}", r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/clients/{id}/documents/{docID}", r.secured(http.HandlerFunc(h.HandleDocumentFile), httpx.LenientLimit))
}

func (r *Router) registerPortal() {
	h := &PortalHandler{PortalService: r.PortalService}

	// Everything here authorizes by token possession: strict IP limits
	// protect against token guessing.
	r.Mux.Handle("GET /api/portal/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleState), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("GET /api/portal/{token}/contract",
		httpx.Chain(http.HandlerFunc(h.HandleContractFile), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /api/portal/{token}/sign",
		httpx.Chain(http.HandlerFunc(h.HandleSign), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/portal/{token}/answers",
		httpx.Chain(http.HandlerFunc(h.HandleAnswers), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/portal/{token}/documents",
		httpx.Chain(http.HandlerFunc(h.HandleUploadDocument), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/portal/{token}/complete",
		httpx.Chain(http.HandlerFunc(h.HandleComplete), httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerPayments() {
	h := &PaymentsHandler{Payments: r.Payments}

	r.Mux.Handle("POST /api/payments/create-order",
		httpx.Chain(http.HandlerFunc(h.HandleCreateOrder), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/payments/capture-order",
		httpx.Chain(http.HandlerFunc(h.HandleCaptureOrder), httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerFeed() {
	h := &FeedHandler{Feed: r.Feed}
	r.Mux.Handle("GET /api/feed", r.secured(h, httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.buildVersion, r.startTime))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
}

// secured wraps h with the session middleware and a per-user rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		SessionMiddleware(r.SessionService, r.CookieSecure),
		httpx.RateLimit(limit, func(req *http.Request) string {
			if userID, ok := req.Context().Value(httpx.CtxKeyUserID).(string); ok {
				return userID
			}
			return httpx.ClientIP(req)
		}),
	)
}
