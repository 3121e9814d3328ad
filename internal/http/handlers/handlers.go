package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/http/response"
	"github.com/iiitbh/gatepass/internal/service"
	"github.com/iiitbh/gatepass/pkg/auth"
	"github.com/iiitbh/gatepass/pkg/config"
	"github.com/iiitbh/gatepass/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

type Handlers struct {
	authService      service.AuthService
	studentService   service.StudentService
	directoryService service.DirectoryService
	gateLogService   service.GateLogService
	config           *config.Config
}

func New(
	authService service.AuthService,
	studentService service.StudentService,
	directoryService service.DirectoryService,
	gateLogService service.GateLogService,
	config *config.Config,
) *Handlers {
	return &Handlers{
		authService:      authService,
		studentService:   studentService,
		directoryService: directoryService,
		gateLogService:   gateLogService,
		config:           config,
	}
}

// Router wires every route with its auth-gate chain. Stage order is fixed:
// authenticate, then role, then (student routes only) verification.
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/registerStudent", h.RegisterStudent)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)
			r.Use(h.RequireRole(domain.RoleStudent))
			r.Get("/send-otp", h.SendOTP)
			r.Post("/verify-otp", h.VerifyOTP)
		})
	})

	r.Route("/api/student", func(r chi.Router) {
		r.Use(h.Authenticate)
		r.Use(h.RequireRole(domain.RoleStudent))
		r.Use(h.RequireVerifiedStudent)
		r.Get("/getprofile", h.GetProfile)
		r.Post("/completeprofile", h.CompleteProfile)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.Authenticate)
		r.Use(h.RequireRole(domain.RoleAdmin))
		r.Post("/registeremployee", h.RegisterEmployee)
		r.Get("/getemployees", h.GetEmployees)
	})

	r.Route("/api/log", func(r chi.Router) {
		r.Use(h.Authenticate)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRole(domain.RoleGuard))
			r.Post("/createlog", h.CreateLog)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRole(domain.RoleAdmin))
			r.Get("/getlog", h.GetLogsByRoll)
			r.Get("/getalllogs", h.GetAllLogs)
			r.Get("/gettodaylogstats", h.GetTodayStats)
		})
	})

	return r
}

// Authenticate extracts and verifies the bearer token, attaching the
// claims to the request context.
func (h *Handlers) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
		ctx = context.WithValue(ctx, logger.RoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects any principal whose role differs from the route's.
// There is no admin override: each route names exactly one role.
func (h *Handlers) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := getClaims(r)
			if claims == nil || claims.Role != role {
				response.Error(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireVerifiedStudent runs after the role check and gates profile
// routes on the OTP verification state.
func (h *Handlers) RequireVerifiedStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := getClaims(r)
		if claims == nil {
			response.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		student, err := h.studentService.ByID(r.Context(), claims.Sub)
		if err != nil {
			response.FromError(w, err)
			return
		}
		if student == nil {
			response.Error(w, http.StatusNotFound, "student account not found")
			return
		}
		if !student.IsVerified {
			response.Error(w, http.StatusForbidden, "account not verified")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
