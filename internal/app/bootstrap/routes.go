// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/bearenergy/dealflow/internal/app/features/admin"
	authgooglefeature "github.com/bearenergy/dealflow/internal/app/features/authgoogle"
	crmfeature "github.com/bearenergy/dealflow/internal/app/features/crm"
	errorsfeature "github.com/bearenergy/dealflow/internal/app/features/errors"
	healthfeature "github.com/bearenergy/dealflow/internal/app/features/health"
	homefeature "github.com/bearenergy/dealflow/internal/app/features/home"
	introducerfeature "github.com/bearenergy/dealflow/internal/app/features/introducer"
	investorfeature "github.com/bearenergy/dealflow/internal/app/features/investor"
	loginfeature "github.com/bearenergy/dealflow/internal/app/features/login"
	logoutfeature "github.com/bearenergy/dealflow/internal/app/features/logout"
	projectsfeature "github.com/bearenergy/dealflow/internal/app/features/projects"
	oauthstatestore "github.com/bearenergy/dealflow/internal/app/store/oauthstate"
	"github.com/bearenergy/dealflow/internal/app/store/queries/projectgrant"
	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/bearenergy/dealflow/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It initializes the template engine,
// session and CSRF middleware, shared services (storage, mailer, the
// distribution workflow), and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes and disabled accounts take effect
	// immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Local file storage for project data-room documents.
	fileStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}

	mail := mailer.New(mailer.Config{
		Enabled:   appCfg.MailEnabled,
		Host:      appCfg.MailSMTPHost,
		Port:      appCfg.MailSMTPPort,
		Username:  appCfg.MailSMTPUser,
		Password:  appCfg.MailSMTPPass,
		FromEmail: appCfg.MailFrom,
		FromName:  appCfg.MailFromName,
	}, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// The distribution workflow shared by the projects feature.
	granter := &projectgrant.Granter{
		DB:           deps.MongoDatabase,
		Mail:         mail,
		Log:          logger,
		DashboardURL: appCfg.BaseURL + "/investor",
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Every form in the app carries a gorilla/csrf token.
	r.Use(csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/")))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public marketing site
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(
			deps.MongoDatabase, sessionMgr, errLog,
			oauthstatestore.New(deps.MongoDatabase),
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
			logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Admin portal: deals, introducers, assignment
	adminHandler := adminfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	// Project pipeline: upload and distribution
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, fileStore, granter, errLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	// Developer CRM
	crmHandler := crmfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/crm", crmfeature.Routes(crmHandler, sessionMgr))

	// Introducer portal
	introducerHandler := introducerfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/introducer", introducerfeature.Routes(introducerHandler, sessionMgr))

	// Investor portal
	investorHandler := investorfeature.NewHandler(deps.MongoDatabase, fileStore, errLog, logger)
	r.Mount("/investor", investorfeature.Routes(investorHandler, sessionMgr))

	return r, nil
}
