package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"parlor/internal/auth/models"
	"parlor/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestEmptyByDefault() {
	cred, ok, err := s.store.Get(s.ctx)
	s.Require().NoError(err)
	s.False(ok)
	s.Empty(cred)
}

func (s *InMemoryStoreSuite) TestSetGetClear() {
	s.Require().NoError(s.store.Set(s.ctx, "tok-1"))

	cred, ok, err := s.store.Get(s.ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(models.Credential("tok-1"), cred)

	s.Run("set overwrites the single live value", func() {
		s.Require().NoError(s.store.Set(s.ctx, "tok-2"))
		cred, _, _ := s.store.Get(s.ctx)
		s.Equal(models.Credential("tok-2"), cred)
	})

	s.Run("clear empties the store", func() {
		s.Require().NoError(s.store.Clear(s.ctx))
		_, ok, err := s.store.Get(s.ctx)
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *InMemoryStoreSuite) TestRejectsEmptyCredential() {
	err := s.store.Set(s.ctx, "   ")
	s.Require().ErrorIs(err, ErrEmptyCredential)
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)
}
