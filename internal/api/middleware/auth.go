package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/votecnp/election-api/internal/api/handler/v1/response"
	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/pkg/jwthelper"
	"github.com/votecnp/election-api/internal/service"
)

// ContextKeyVoter holds the authenticated domain.Voter.
const ContextKeyVoter = "voter"

var (
	errMissingToken      = errors.New("missing bearer token")
	errUserAgentMismatch = errors.New("token was issued to another client")
	errUnknownVoter      = errors.New("voter no longer exists")
)

type VoterResolver interface {
	ResolveVoter(ctx context.Context, voterID uint) (domain.Voter, error)
}

type Authenticator struct {
	signingKey []byte
	voters     VoterResolver
}

func NewAuthenticator(signingKey string, voters VoterResolver) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		voters:     voters,
	}
}

// VerifyJWT reads the token from the Authorization header.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		a.authenticate(ctx, bearerToken(ctx))
	}
}

// VerifyWebSocketJWT also accepts the token query parameter on WebSocket
// upgrade requests, since browsers cannot set headers on them. Routes using it
// must be excluded from access logs.
func (a *Authenticator) VerifyWebSocketJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" && ctx.GetHeader("Authorization") == "" && websocket.IsWebSocketUpgrade(ctx.Request) {
			tokenString = ctx.Query("token")
		}

		a.authenticate(ctx, tokenString)
	}
}

func (a *Authenticator) authenticate(ctx *gin.Context, tokenString string) {
	if tokenString == "" {
		response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
		return
	}

	claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
		return
	}

	if claims.UserAgent != ctx.Request.UserAgent() {
		response.RenderErr(ctx, response.ErrUnauthorized(errUserAgentMismatch))
		return
	}

	voter, err := a.voters.ResolveVoter(ctx.Request.Context(), claims.VoterID)
	if err != nil {
		if errors.Is(err, service.ErrVoterNotFound) {
			response.RenderErr(ctx, response.ErrUnauthorized(errUnknownVoter))
			return
		}

		err = fmt.Errorf("middleware.authenticate -> a.voters.ResolveVoter -> %w", err)
		response.RenderErr(ctx, response.ErrServiceUnavailable(err))
		return
	}

	ctx.Set(ContextKeyVoter, voter)
	ctx.Next()
}

func bearerToken(ctx *gin.Context) string {
	scheme, token, ok := strings.Cut(ctx.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
