package websession

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"parlor/internal/auth/models"
	"parlor/internal/auth/store/credential"
	"parlor/internal/balance"
	handoffmodels "parlor/internal/handoff/models"
	"parlor/internal/oauth/completion"
	"parlor/internal/platform/metrics"
	"parlor/internal/remote"
	"parlor/internal/websession/mocks"
	dErrors "parlor/pkg/domain-errors"
	"parlor/pkg/platform/sentinel"
)

var testUser = models.User{ID: 7, DisplayName: "Mina", Role: models.RoleMember}

func providerToken(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

type SessionSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	api     *mocks.MockRemoteAPI
	creds   *credential.InMemoryStore
	metrics *metrics.Metrics
	session *Session
	ctx     context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.api = mocks.NewMockRemoteAPI(s.ctrl)
	s.creds = credential.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.ctx = context.Background()
	s.session = New("bs-1", "Firefox on Linux", time.Now(), Dependencies{
		API:         s.api,
		Credentials: s.creds,
		Routes:      completion.Routes{Landing: "/", Signup: "/signup", Login: "/login"},
		ChatRoute:   "/chat",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:     s.metrics,
	})
}

func (s *SessionSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SessionSuite) login() {
	s.api.EXPECT().Login(gomock.Any(), "mina@example.test", "pw").
		Return(models.TokenResult{AccessToken: "tok-1", User: testUser}, nil)
	_, err := s.session.Login(s.ctx, "mina@example.test", "pw")
	s.Require().NoError(err)
}

func (s *SessionSuite) storedCredential() (models.Credential, bool) {
	cred, ok, err := s.creds.Get(s.ctx)
	s.Require().NoError(err)
	return cred, ok
}

func (s *SessionSuite) TestLogin() {
	s.Run("stores credential and authenticates", func() {
		s.SetupTest()
		s.login()

		snap := s.session.Auth()
		s.Equal(models.StatusAuthenticated, snap.Status())
		s.Equal(&testUser, snap.User)
		cred, ok := s.storedCredential()
		s.True(ok)
		s.Equal(models.Credential("tok-1"), cred)
	})

	s.Run("rejected password is unauthorized", func() {
		s.SetupTest()
		s.api.EXPECT().Login(gomock.Any(), "mina@example.test", "bad").
			Return(models.TokenResult{}, sentinel.ErrUnauthorized)

		_, err := s.session.Login(s.ctx, "mina@example.test", "bad")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal(models.StatusAnonymous, s.session.Auth().Status())
	})

	s.Run("blank input never reaches the remote", func() {
		s.SetupTest()
		_, err := s.session.Login(s.ctx, "  ", "pw")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *SessionSuite) TestLogoutClearsEverything() {
	s.login()
	s.api.EXPECT().Balance(gomock.Any()).Return(int64(300), nil)
	_, err := s.session.Balance(s.ctx)
	s.Require().NoError(err)
	s.api.EXPECT().CreateSession(gomock.Any(), int64(11)).
		Return(handoffmodels.Record{SessionID: "room-1", CounterpartID: 11}, nil)
	_, err = s.session.Select(s.ctx, 11)
	s.Require().NoError(err)

	s.api.EXPECT().Logout(gomock.Any()).Return(errors.New("remote down"))
	s.Require().NoError(s.session.Logout(s.ctx))

	snap := s.session.Auth()
	s.False(snap.IsAuthenticated)
	s.Nil(snap.User)
	s.Nil(snap.PendingIdentity)
	s.Empty(snap.Consent)
	_, ok := s.storedCredential()
	s.False(ok)
	s.Equal(balance.Record{Value: 0, NeedsRefresh: true}, s.session.balance.Snapshot())
	_, ok = s.session.slot.ReadAndClear()
	s.False(ok)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Logouts))
}

func (s *SessionSuite) TestLogoutWhileAnonymousSkipsRemote() {
	s.Require().NoError(s.session.Logout(s.ctx))
	s.Equal(models.StatusAnonymous, s.session.Auth().Status())
}

func (s *SessionSuite) TestCompleteOAuth() {
	s.Run("same signals reuse the latched mount", func() {
		s.SetupTest()
		s.api.EXPECT().RefreshToken(gomock.Any()).
			Return(models.TokenResult{AccessToken: "tok", User: testUser}, nil).Times(1)

		signals := completion.Signals{RawStatus: "success"}
		first := s.session.CompleteOAuth(s.ctx, signals)
		second := s.session.CompleteOAuth(s.ctx, signals)

		s.Equal(completion.OutcomeSuccess, first.Outcome)
		s.Equal(first, second)
		s.Equal(models.StatusAuthenticated, s.session.Auth().Status())
	})

	s.Run("revisiting a latched success keeps the cached balance", func() {
		s.SetupTest()
		s.api.EXPECT().RefreshToken(gomock.Any()).
			Return(models.TokenResult{AccessToken: "tok", User: testUser}, nil).Times(1)
		s.api.EXPECT().Balance(gomock.Any()).Return(int64(42), nil).Times(1)

		signals := completion.Signals{RawStatus: "success"}
		s.session.CompleteOAuth(s.ctx, signals)
		rec, err := s.session.Balance(s.ctx)
		s.Require().NoError(err)
		s.Equal(balance.Record{Value: 42}, rec)

		s.session.CompleteOAuth(s.ctx, signals)
		s.Equal(balance.Record{Value: 42}, s.session.balance.Snapshot())
		rec, err = s.session.Balance(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(42), rec.Value)
	})

	s.Run("differently cased status is a failure without remote calls", func() {
		s.SetupTest()
		for _, status := range []string{"SUCCESS", " Success ", "Continue"} {
			result := s.session.CompleteOAuth(s.ctx, completion.Signals{RawStatus: status})
			s.Equal(completion.OutcomeFailure, result.Outcome, status)
			s.Equal("/login", result.Destination)
		}
		s.Equal(models.StatusAnonymous, s.session.Auth().Status())
	})

	s.Run("continue remembers the signup email", func() {
		s.SetupTest()
		s.api.EXPECT().ProviderPendingEmail(gomock.Any()).Return("mina@example.test", nil)

		result := s.session.CompleteOAuth(s.ctx, completion.Signals{
			RawStatus:       "continue",
			RawProviderInfo: providerToken(`{"provider":"naver","providerId":"55"}`),
		})

		s.Equal("/signup", result.Destination)
		s.Equal("mina@example.test", s.session.SignupEmail())
		s.Equal(models.StatusPendingSignup, s.session.Auth().Status())
	})

	s.Run("abandoned run releases the mount", func() {
		s.SetupTest()
		signals := completion.Signals{RawStatus: "success"}
		ctx, cancel := context.WithCancel(s.ctx)
		s.api.EXPECT().RefreshToken(gomock.Any()).DoAndReturn(func(context.Context) (models.TokenResult, error) {
			cancel()
			return models.TokenResult{}, context.Canceled
		})
		s.Equal(completion.OutcomeAbandoned, s.session.CompleteOAuth(ctx, signals).Outcome)

		s.api.EXPECT().RefreshToken(gomock.Any()).
			Return(models.TokenResult{AccessToken: "tok", User: testUser}, nil)
		s.Equal(completion.OutcomeSuccess, s.session.CompleteOAuth(s.ctx, signals).Outcome)
	})
}

func (s *SessionSuite) TestCompleteSignup() {
	form := SignupForm{Email: "mina@example.test", DisplayName: "Mina", Agreements: []string{"terms", "privacy"}}

	s.Run("requires a pending identity", func() {
		s.SetupTest()
		_, err := s.session.CompleteSignup(s.ctx, form)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("requires agreements", func() {
		s.SetupTest()
		s.session.auth.CompleteOAuthContinue(models.PendingIdentity{Provider: "kakao", ProviderID: "1"})
		_, err := s.session.CompleteSignup(s.ctx, SignupForm{Email: "a@example.test", DisplayName: "A"})
		s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))
	})

	s.Run("registers and authenticates", func() {
		s.SetupTest()
		s.session.auth.CompleteOAuthContinue(models.PendingIdentity{Provider: "kakao", ProviderID: "1"})
		s.api.EXPECT().Signup(gomock.Any(), remote.SignupRequest{
			Provider: "kakao", ProviderID: "1", Email: "mina@example.test",
			DisplayName: "Mina", Agreements: []string{"privacy", "terms"},
		}).Return(models.TokenResult{AccessToken: "tok-s", User: testUser}, nil)

		user, err := s.session.CompleteSignup(s.ctx, form)
		s.Require().NoError(err)
		s.Equal(testUser, user)

		snap := s.session.Auth()
		s.Equal(models.StatusAuthenticated, snap.Status())
		s.Nil(snap.PendingIdentity)
		s.Equal([]string{"privacy", "terms"}, snap.Consent)
		cred, ok := s.storedCredential()
		s.True(ok)
		s.Equal(models.Credential("tok-s"), cred)
	})
}

func (s *SessionSuite) TestBalance() {
	s.Run("requires login", func() {
		s.SetupTest()
		_, err := s.session.Balance(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("fetches once per dirty cycle", func() {
		s.SetupTest()
		s.login()
		s.api.EXPECT().Balance(gomock.Any()).Return(int64(100), nil)
		s.api.EXPECT().Balance(gomock.Any()).Return(int64(80), nil)

		rec, err := s.session.Balance(s.ctx)
		s.Require().NoError(err)
		s.Equal(balance.Record{Value: 100}, rec)
		rec, err = s.session.Balance(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(100), rec.Value)

		s.session.InvalidateBalance()
		rec, err = s.session.Balance(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(80), rec.Value)
	})

	s.Run("failed fetch returns stale record", func() {
		s.SetupTest()
		s.login()
		s.api.EXPECT().Balance(gomock.Any()).Return(int64(0), sentinel.ErrUnavailable)

		rec, err := s.session.Balance(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Equal(balance.Record{Value: 0, NeedsRefresh: true}, rec)
	})
}

func (s *SessionSuite) TestSelectionHandoff() {
	s.login()
	record := handoffmodels.Record{
		SessionID:     "room-1",
		CounterpartID: 11,
		Counterpart:   handoffmodels.CounterpartInfo{Name: "Hana"},
	}
	s.api.EXPECT().CreateSession(gomock.Any(), int64(11)).Return(record, nil)

	dest, err := s.session.Select(s.ctx, 11)
	s.Require().NoError(err)
	s.Equal("/chat/room-1", dest)

	got, source, err := s.session.ResolveChat(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(record, got)
	s.Equal(handoffmodels.SourceHandoff, source)

	s.api.EXPECT().ChatSession(gomock.Any(), "room-1").Return(record, nil)
	_, source, err = s.session.ResolveChat(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(handoffmodels.SourceRemote, source)
}

func (s *SessionSuite) TestSelectRequiresLogin() {
	_, err := s.session.Select(s.ctx, 11)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
