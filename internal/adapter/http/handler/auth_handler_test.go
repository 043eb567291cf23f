package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todos/internal/adapter/database/sqlite"
	"todos/internal/adapter/database/sqlite/repository"
	"todos/internal/adapter/http/helper"
	"todos/internal/core/model/response"
	"todos/internal/core/port"
	"todos/internal/core/service"
	"todos/pkg/test"
)

type AuthHandlerSuite struct {
	suite.Suite
	UserRepo port.UserRepository
	Router   *gin.Engine
	DB       *sqlite.DB
}

func (s *AuthHandlerSuite) SetupSuite() {
	os.Setenv("JWT_SECRET", "handler-test-secret")
}

func (s *AuthHandlerSuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.UserRepo = repository.NewUserRepository(s.DB, nil)

	authService := service.NewAuthService(s.UserRepo)
	authHandler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/signup", authHandler.RegisterByEmailAndPassword)
	router.POST("/auth", authHandler.AuthByEmailAndPassword)

	s.Router = router
}

func (s *AuthHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) post(path string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *AuthHandlerSuite) TestSignUp() {
	rr := s.post("/signup", `{"name": "User", "email": "user@example.com", "password": "12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.UserResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.Data.Email).To(Equal("user@example.com"))
	Expect(resp.Data.UUID).To(Not(BeEmpty()))
}

func (s *AuthHandlerSuite) TestSignUpWithTakenEmail() {
	first := s.post("/signup", `{"name": "User", "email": "user@example.com", "password": "12345678"}`)
	Expect(first.Code).To(Equal(http.StatusCreated))

	second := s.post("/signup", `{"name": "Other", "email": "user@example.com", "password": "87654321"}`)
	Expect(second.Code).To(Equal(http.StatusBadRequest))
}

func (s *AuthHandlerSuite) TestSignUpWithInvalidEmail() {
	rr := s.post("/signup", `{"name": "User", "email": "nope", "password": "12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)

	resp := response.ErrorResponse{}
	json.Unmarshal(body, &resp)

	Expect(resp.Error.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *AuthHandlerSuite) TestAuthReturnsToken() {
	s.post("/signup", `{"name": "User", "email": "user@example.com", "password": "12345678"}`)

	rr := s.post("/auth", `{"email": "user@example.com", "password": "12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		AccessToken string `json:"access_token"`
	}{}
	json.Unmarshal(body, &resp)

	Expect(resp.AccessToken).To(Not(BeEmpty()))

	claims, err := helper.VerifyJwtToken(resp.AccessToken)
	Expect(err).To(BeNil())
	Expect(claims["user_id"]).To(Not(BeNil()))
}

func (s *AuthHandlerSuite) TestAuthWithWrongPassword() {
	s.post("/signup", `{"name": "User", "email": "user@example.com", "password": "12345678"}`)

	rr := s.post("/auth", `{"email": "user@example.com", "password": "wrong-password"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestAuthWithUnknownEmail() {
	rr := s.post("/auth", `{"email": "ghost@example.com", "password": "12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}
