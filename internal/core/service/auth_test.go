package service_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todos/internal/adapter/database/sqlite"
	"todos/internal/adapter/database/sqlite/repository"
	"todos/internal/core/domain"
	"todos/internal/core/model/request"
	"todos/internal/core/port"
	"todos/internal/core/service"
	"todos/pkg/test"
)

type AuthServiceSuite struct {
	suite.Suite
	DB       *sqlite.DB
	UserRepo port.UserRepository
	Service  port.AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.UserRepo = repository.NewUserRepository(s.DB, nil)
	s.Service = service.NewAuthService(s.UserRepo)
}

func (s *AuthServiceSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestAuthServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) TestRegistration() {
	user, err := s.Service.Registration(ctx, &request.SignUpRequest{
		Name:     "User",
		Email:    "user@example.com",
		Password: "12345678",
	})

	Expect(err).To(BeNil())
	Expect(user.ID).To(BeNumerically(">", 0))
	Expect(user.EncryptedPassword).To(Not(Equal("12345678")))
}

func (s *AuthServiceSuite) TestRegistrationWithTakenEmail() {
	_, err := s.Service.Registration(ctx, &request.SignUpRequest{
		Email:    "user@example.com",
		Password: "12345678",
	})
	Expect(err).To(BeNil())

	_, err = s.Service.Registration(ctx, &request.SignUpRequest{
		Email:    "user@example.com",
		Password: "other-pass",
	})

	Expect(err).To(MatchError(domain.ErrEmailTaken))
}

func (s *AuthServiceSuite) TestAuthenticate() {
	_, err := s.Service.Registration(ctx, &request.SignUpRequest{
		Email:    "user@example.com",
		Password: "12345678",
	})
	Expect(err).To(BeNil())

	user, err := s.Service.Authenticate(ctx, &request.LoginRequest{
		Email:    "user@example.com",
		Password: "12345678",
	})

	Expect(err).To(BeNil())
	Expect(user.Email).To(Equal("user@example.com"))
}

func (s *AuthServiceSuite) TestAuthenticateWithWrongPassword() {
	_, err := s.Service.Registration(ctx, &request.SignUpRequest{
		Email:    "user@example.com",
		Password: "12345678",
	})
	Expect(err).To(BeNil())

	_, err = s.Service.Authenticate(ctx, &request.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})

	Expect(err).To(MatchError(domain.ErrInvalidCredentials))
}

func (s *AuthServiceSuite) TestAuthenticateUnknownEmail() {
	_, err := s.Service.Authenticate(ctx, &request.LoginRequest{
		Email:    "ghost@example.com",
		Password: "12345678",
	})

	Expect(err).To(MatchError(domain.ErrInvalidCredentials))
}
