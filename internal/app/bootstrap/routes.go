// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	authfeature "github.com/rabindra-basnet/team-project-saas/internal/app/features/auth"
	healthfeature "github.com/rabindra-basnet/team-project-saas/internal/app/features/health"
	membersfeature "github.com/rabindra-basnet/team-project-saas/internal/app/features/members"
	projectsfeature "github.com/rabindra-basnet/team-project-saas/internal/app/features/projects"
	"github.com/rabindra-basnet/team-project-saas/internal/app/features/shared"
	tasksfeature "github.com/rabindra-basnet/team-project-saas/internal/app/features/tasks"
	userfeature "github.com/rabindra-basnet/team-project-saas/internal/app/features/user"
	workspacesfeature "github.com/rabindra-basnet/team-project-saas/internal/app/features/workspaces"
	identitystore "github.com/rabindra-basnet/team-project-saas/internal/app/store/identity"
	memberstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/members"
	projectstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/projects"
	taskstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/tasks"
	userstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/users"
	workspacestore "github.com/rabindra-basnet/team-project-saas/internal/app/store/workspaces"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auditlog"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/auth"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for the app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, the
// stores, and the permission guard, then mounts the feature routers under
// /api the way the frontend expects.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	users := userstore.New(db)
	identity := identitystore.New(db, logger)
	workspaces := workspacestore.New(db, logger)
	members := memberstore.New(db, logger)
	projects := projectstore.New(db, logger)
	tasks := taskstore.New(db, logger)

	audit := auditlog.New(logger)
	guard := authz.NewGuard(authz.DefaultRoleTable(), logger)
	access := &shared.Access{Members: members, Guard: guard}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication: email register/login plus the Google OAuth flow.
	authHandler := authfeature.NewHandler(
		identity,
		sessionMgr,
		audit,
		appCfg.GoogleClientID,
		appCfg.GoogleClientSecret,
		appCfg.BaseURL,
		appCfg.FrontendCallbackURL,
		[]byte(appCfg.SessionKey),
		logger,
	)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	// Current-user profile.
	userHandler := userfeature.NewHandler(users, logger)
	r.Mount("/api/user", userfeature.Routes(userHandler, sessionMgr))

	// Workspace lifecycle, membership, roles, and analytics.
	workspaceHandler := workspacesfeature.NewHandler(workspaces, access, audit, logger)
	r.Mount("/api/workspace", workspacesfeature.Routes(workspaceHandler, sessionMgr))

	// Invite-code joins.
	memberHandler := membersfeature.NewHandler(members, audit, logger)
	r.Mount("/api/member", membersfeature.Routes(memberHandler, sessionMgr))

	// Projects within a workspace.
	projectHandler := projectsfeature.NewHandler(projects, access, logger)
	r.Mount("/api/project", projectsfeature.Routes(projectHandler, sessionMgr))

	// Tasks within a project.
	taskHandler := tasksfeature.NewHandler(tasks, access, logger)
	r.Mount("/api/task", tasksfeature.Routes(taskHandler, sessionMgr))

	return r, nil
}
