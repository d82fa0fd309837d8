package api

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/votecnp/election-api/docs"
	v1 "github.com/votecnp/election-api/internal/api/handler/v1"
	"github.com/votecnp/election-api/internal/api/handler/v1/response"
	"github.com/votecnp/election-api/internal/api/middleware"
	"github.com/votecnp/election-api/internal/cache"
	"github.com/votecnp/election-api/internal/config"
	"github.com/votecnp/election-api/internal/event"
	"github.com/votecnp/election-api/internal/repository"
	"github.com/votecnp/election-api/internal/repository/dao"
	"github.com/votecnp/election-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	health     *v1.HealthHandler
	auth       *v1.AuthHandler
	candidate  *v1.CandidateHandler
	vote       *v1.VoteHandler
	statistics *v1.StatisticsHandler
	live       *v1.LiveHandler
}

// NewServer wires the application on top of db. The live results hub runs
// until ctx is cancelled.
func NewServer(ctx context.Context, conf *config.AppConfig, db *gorm.DB, statsCache cache.Cache, publisher event.Publisher) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authSvc := service.NewAuthService(repository.NewVoterRepository(dao.NewVoterDAO(db)))
	h := s.initHandlers(db, authSvc, statsCache, publisher)
	go h.live.Run(ctx)

	s.MountHandlers(h, middleware.NewAuthenticator(conf.API.JWTSigningKey, authSvc))

	return s
}

func (s *Server) initHandlers(db *gorm.DB, authSvc *service.AuthService, statsCache cache.Cache, publisher event.Publisher) *handlers {
	candidateRepo := repository.NewCandidateRepository(dao.NewCandidateDAO(db))
	ballotRepo := repository.NewBallotRepository(dao.NewBallotDAO(db))

	statsSvc := service.NewStatisticsService(ballotRepo, candidateRepo, statsCache, s.Config.Statistics.CacheTTL)
	candidateSvc := service.NewCandidateService(candidateRepo, publisher, statsSvc, nil)
	live := v1.NewLiveHandler(statsSvc, s.Config.API.AllowedCORSDomains)
	// Statistics must be invalidated before the live hub recomputes them.
	voteSvc := service.NewVoteService(ballotRepo, candidateRepo, publisher, statsSvc, live)

	return &handlers{
		health:     v1.NewHealthHandler(s.Config.API.Environment),
		auth:       v1.NewAuthHandler(s.Config.API, authSvc),
		candidate:  v1.NewCandidateHandler(candidateSvc, voteSvc),
		vote:       v1.NewVoteHandler(voteSvc, statsSvc),
		statistics: v1.NewStatisticsHandler(statsSvc, candidateSvc),
		live:       live,
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	// The live route carries its token in the query string.
	s.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{SkipPaths: []string{liveResultsPath}}))
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

const (
	basePath        = "/api/v1"
	liveResultsPath = basePath + "/votes/live"
)

func (s *Server) MountHandlers(h *handlers, authenticator *middleware.Authenticator) {
	public := s.Router.Group(basePath)
	{
		public.POST("/auth/register", h.auth.HandleRegister)
		public.POST("/auth/login", h.auth.HandleLogin)
	}

	private := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		private.GET("/auth/voters/:cnp", h.auth.HandleGetVoter)

		private.GET("/candidates", h.candidate.HandleListCandidates)
		private.POST("/candidates", h.candidate.HandleCreateCandidate)
		private.GET("/candidates/:id", h.candidate.HandleGetCandidate)
		private.PUT("/candidates/:id", h.candidate.HandleUpdateCandidate)
		private.DELETE("/candidates/:id", h.candidate.HandleDeleteCandidate)
		private.GET("/candidates/:id/votes", h.candidate.HandleGetCandidateBallotCount)

		private.GET("/statistics", h.statistics.HandleGetOverview)
		private.GET("/statistics/parties", h.statistics.HandleGetPartyStatistics)
		private.POST("/statistics/generate", h.statistics.HandleGenerateCandidate)

		private.POST("/votes", h.vote.HandleCastVote)
		private.GET("/votes/mine", h.vote.HandleGetMyBallot)
		private.GET("/votes/statistics", h.vote.HandleGetVoteStatistics)
	}

	s.Router.GET(liveResultsPath, authenticator.VerifyWebSocketJWT(), h.live.HandleLiveResults)

	s.Router.GET("/", h.health.HandleHealthcheck)
	s.Router.GET("/health", h.health.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Election API"
	docs.SwaggerInfo.Description = "Voter registration, candidates and one ballot per voter."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	s.Router.NoRoute(func(ctx *gin.Context) {
		response.RenderErr(ctx, response.ErrNotFound("route", "path", ctx.Request.URL.Path))
	})
}
