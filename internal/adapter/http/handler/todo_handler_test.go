package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todos/internal/adapter/database/sqlite"
	"todos/internal/adapter/database/sqlite/repository"
	"todos/internal/adapter/http/helper"
	"todos/internal/adapter/http/middleware"
	"todos/internal/core/domain"
	"todos/internal/core/model/response"
	"todos/internal/core/port"
	"todos/internal/core/service"
	"todos/pkg/test"
	factory "todos/pkg/test/factory"
)

type TodoHandlerSuite struct {
	suite.Suite
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
	Router   *gin.Engine
	DB       *sqlite.DB
}

var ctx = context.Background()

func (s *TodoHandlerSuite) SetupSuite() {
	os.Setenv("JWT_SECRET", "handler-test-secret")
	os.Setenv("CURSOR_SECRET_KEY", "handler-test-cursor-key")
}

func (s *TodoHandlerSuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.TodoRepo = repository.NewTodoRepository(s.DB, nil)
	s.UserRepo = repository.NewUserRepository(s.DB, nil)

	todoService := service.NewTodoService(s.TodoRepo, nil)

	// Router built here to avoid an import cycle with the routes package.
	s.Router = setupTodoTestRouter(NewTodoHandler(todoService, nil))
}

func (s *TodoHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func setupTodoTestRouter(todoHandler *TodoHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(gin.Recovery())

	protected := router.Group("/")
	protected.Use(middleware.CurrentMiddleware())
	protected.Use(middleware.GinJwtMiddleware())
	{
		protected.GET("/todos", todoHandler.GetAllTodos)
		protected.POST("/todos", todoHandler.CreateTodo)
		protected.GET("/todos/:uuid", todoHandler.GetTodo)
		protected.PUT("/todos/:uuid", todoHandler.UpdateTodo)
		protected.PATCH("/todos/:uuid/toggle", todoHandler.ToggleComplete)
		protected.DELETE("/todos/:uuid", todoHandler.DeleteByUUID)
	}

	return router
}

func (s *TodoHandlerSuite) createUser(email string) domain.User {
	user, err := s.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"UUID":  uuid.New(),
		"Name":  "User99",
		"Email": email,
	}))
	s.Require().NoError(err)

	return user
}

func (s *TodoHandlerSuite) createTodo(userId int, title string, createdAt time.Time) domain.Todo {
	todo, err := s.TodoRepo.Create(ctx, factory.NewTodo[domain.Todo](map[string]any{
		"UUID":      uuid.New(),
		"Title":     title,
		"Completed": false,
		"UserId":    userId,
		"CreatedAt": createdAt,
		"UpdatedAt": createdAt,
	}))
	s.Require().NoError(err)

	return todo
}

func (s *TodoHandlerSuite) do(method, path string, body string, userId int) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)

	if userId > 0 {
		jwtToken, _ := helper.CreateJwtTokenForUser(userId)
		req.Header.Set("Authorization", "Bearer "+jwtToken)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func decodeTodo(rr *httptest.ResponseRecorder) response.TodoResponse {
	body, _ := io.ReadAll(rr.Body)

	resp := struct {
		Data response.TodoResponse `json:"data"`
	}{}
	json.Unmarshal(body, &resp)

	return resp.Data
}

func decodeErrorCode(rr *httptest.ResponseRecorder) string {
	body, _ := io.ReadAll(rr.Body)

	resp := response.ErrorResponse{}
	json.Unmarshal(body, &resp)

	return resp.Error.Code
}

func (s *TodoHandlerSuite) TestCreateTodoDefaultsToNotCompleted() {
	user := s.createUser("user1@example.com")

	rr := s.do("POST", "/todos", `{"title": "Buy milk"}`, user.ID)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	created := decodeTodo(rr)
	Expect(created.Title).To(Equal("Buy milk"))
	Expect(created.Completed).To(BeFalse())
	Expect(created.UUID.String()).To(Not(Equal(uuid.Nil.String())))
}

func (s *TodoHandlerSuite) TestCreateTodoWithEmptyTitle() {
	user := s.createUser("user1@example.com")

	rr := s.do("POST", "/todos", `{"title": ""}`, user.ID)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeErrorCode(rr)).To(Equal("VALIDATION_ERROR"))
}

func (s *TodoHandlerSuite) TestCreateTodoWithBlankTitle() {
	user := s.createUser("user1@example.com")

	rr := s.do("POST", "/todos", `{"title": "   "}`, user.ID)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeErrorCode(rr)).To(Equal("VALIDATION_ERROR"))
}

func (s *TodoHandlerSuite) TestGetTodo() {
	user := s.createUser("user1@example.com")
	todo := s.createTodo(user.ID, "Read a book", time.Now())

	rr := s.do("GET", fmt.Sprintf("/todos/%s", todo.UUID), "", user.ID)

	Expect(rr.Code).To(Equal(http.StatusOK))

	fetched := decodeTodo(rr)
	Expect(fetched.UUID).To(Equal(todo.UUID))
	Expect(fetched.Title).To(Equal("Read a book"))
}

func (s *TodoHandlerSuite) TestGetTodoUnknownUUID() {
	user := s.createUser("user1@example.com")

	rr := s.do("GET", fmt.Sprintf("/todos/%s", uuid.New()), "", user.ID)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeErrorCode(rr)).To(Equal("NOT_FOUND"))
}

func (s *TodoHandlerSuite) TestGetTodoMalformedUUID() {
	user := s.createUser("user1@example.com")

	rr := s.do("GET", "/todos/not-a-uuid", "", user.ID)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestGetTodoOwnedByAnotherUser() {
	owner := s.createUser("owner@example.com")
	intruder := s.createUser("intruder@example.com")
	todo := s.createTodo(owner.ID, "Private task", time.Now())

	rr := s.do("GET", fmt.Sprintf("/todos/%s", todo.UUID), "", intruder.ID)

	Expect(rr.Code).To(Equal(http.StatusForbidden))
	Expect(decodeErrorCode(rr)).To(Equal("FORBIDDEN"))
}

func (s *TodoHandlerSuite) TestUpdateTodo() {
	user := s.createUser("user1@example.com")
	todo := s.createTodo(user.ID, "Initial title", time.Now())

	rr := s.do("PUT", fmt.Sprintf("/todos/%s", todo.UUID), `{"title": "Renamed", "completed": true}`, user.ID)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decodeTodo(rr)
	Expect(updated.Title).To(Equal("Renamed"))
	Expect(updated.Completed).To(BeTrue())
}

func (s *TodoHandlerSuite) TestUpdateTodoKeepsOmittedFields() {
	user := s.createUser("user1@example.com")
	todo := s.createTodo(user.ID, "Initial title", time.Now())

	rr := s.do("PUT", fmt.Sprintf("/todos/%s", todo.UUID), `{"completed": true}`, user.ID)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decodeTodo(rr)
	Expect(updated.Title).To(Equal("Initial title"))
	Expect(updated.Completed).To(BeTrue())
}

func (s *TodoHandlerSuite) TestUpdateTodoWithBlankTitle() {
	user := s.createUser("user1@example.com")
	todo := s.createTodo(user.ID, "Initial title", time.Now())

	rr := s.do("PUT", fmt.Sprintf("/todos/%s", todo.UUID), `{"title": "  "}`, user.ID)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeErrorCode(rr)).To(Equal("VALIDATION_ERROR"))
}

func (s *TodoHandlerSuite) TestUpdateTodoOwnedByAnotherUser() {
	owner := s.createUser("owner@example.com")
	intruder := s.createUser("intruder@example.com")
	todo := s.createTodo(owner.ID, "Private task", time.Now())

	rr := s.do("PUT", fmt.Sprintf("/todos/%s", todo.UUID), `{"title": "Hijacked"}`, intruder.ID)

	Expect(rr.Code).To(Equal(http.StatusForbidden))
	Expect(decodeErrorCode(rr)).To(Equal("FORBIDDEN"))
}

func (s *TodoHandlerSuite) TestToggleCompleteTwiceRestoresState() {
	user := s.createUser("user1@example.com")
	todo := s.createTodo(user.ID, "Flip me", time.Now())

	rr := s.do("PATCH", fmt.Sprintf("/todos/%s/toggle", todo.UUID), "", user.ID)
	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decodeTodo(rr).Completed).To(BeTrue())

	rr = s.do("PATCH", fmt.Sprintf("/todos/%s/toggle", todo.UUID), "", user.ID)
	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decodeTodo(rr).Completed).To(BeFalse())
}

func (s *TodoHandlerSuite) TestToggleCompleteOwnedByAnotherUser() {
	owner := s.createUser("owner@example.com")
	intruder := s.createUser("intruder@example.com")
	todo := s.createTodo(owner.ID, "Private task", time.Now())

	rr := s.do("PATCH", fmt.Sprintf("/todos/%s/toggle", todo.UUID), "", intruder.ID)

	Expect(rr.Code).To(Equal(http.StatusForbidden))
}

func (s *TodoHandlerSuite) TestDeleteTodo() {
	user := s.createUser("user1@example.com")
	todo := s.createTodo(user.ID, "Short lived", time.Now())

	rr := s.do("DELETE", fmt.Sprintf("/todos/%s", todo.UUID), "", user.ID)
	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.do("GET", fmt.Sprintf("/todos/%s", todo.UUID), "", user.ID)
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestDeleteTodoOwnedByAnotherUser() {
	owner := s.createUser("owner@example.com")
	intruder := s.createUser("intruder@example.com")
	todo := s.createTodo(owner.ID, "Private task", time.Now())

	rr := s.do("DELETE", fmt.Sprintf("/todos/%s", todo.UUID), "", intruder.ID)

	Expect(rr.Code).To(Equal(http.StatusForbidden))

	rr = s.do("GET", fmt.Sprintf("/todos/%s", todo.UUID), "", owner.ID)
	Expect(rr.Code).To(Equal(http.StatusOK))
}

func (s *TodoHandlerSuite) TestGetAllTodosReturnsOnlyOwnInCreationOrder() {
	user := s.createUser("user1@example.com")
	other := s.createUser("user2@example.com")

	base := time.Now().Add(-time.Hour)
	s.createTodo(user.ID, "first", base)
	s.createTodo(user.ID, "second", base.Add(time.Minute))
	s.createTodo(user.ID, "third", base.Add(2*time.Minute))
	s.createTodo(other.ID, "foreign", base.Add(30*time.Second))

	rr := s.do("GET", "/todos", "", user.ID)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	data := response.CursorResponse{}
	json.Unmarshal(body, &data)

	var todos []response.TodoResponse
	json.Unmarshal(data.Data, &todos)

	Expect(data.Size).To(Equal(3))
	Expect(todos).To(HaveLen(3))
	Expect(todos[0].Title).To(Equal("first"))
	Expect(todos[1].Title).To(Equal("second"))
	Expect(todos[2].Title).To(Equal("third"))
}

func (s *TodoHandlerSuite) TestGetAllTodosPagination() {
	user := s.createUser("user1@example.com")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		s.createTodo(user.ID, fmt.Sprintf("task-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	rr := s.do("GET", "/todos?limit=2", "", user.ID)
	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)

	page := response.CursorResponse{}
	json.Unmarshal(body, &page)

	Expect(page.Size).To(Equal(2))
	Expect(page.Pagination.HasNext).To(BeTrue())
	Expect(page.Pagination.NextCursor).To(Not(BeEmpty()))

	rr = s.do("GET", "/todos?limit=10&cursor="+page.Pagination.NextCursor, "", user.ID)
	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ = io.ReadAll(rr.Body)

	next := response.CursorResponse{}
	json.Unmarshal(body, &next)

	var todos []response.TodoResponse
	json.Unmarshal(next.Data, &todos)

	Expect(next.Size).To(Equal(3))
	Expect(next.Pagination.HasNext).To(BeFalse())
	Expect(todos[0].Title).To(Equal("task-2"))
}

func (s *TodoHandlerSuite) TestGetAllTodosRejectsGarbageCursor() {
	user := s.createUser("user1@example.com")
	s.createTodo(user.ID, "task", time.Now())

	for _, cursor := range []string{"garbage", "bm9wZQ.fake-signature"} {
		rr := s.do("GET", "/todos?cursor="+cursor, "", user.ID)

		Expect(rr.Code).To(Equal(http.StatusBadRequest), "cursor %q", cursor)
		Expect(decodeErrorCode(rr)).To(Equal("VALIDATION_ERROR"))
	}
}

func (s *TodoHandlerSuite) TestRequestsWithoutTokenAreRejected() {
	user := s.createUser("user1@example.com")
	todo := s.createTodo(user.ID, "Protected", time.Now())

	paths := map[string]string{
		"GET":    "/todos",
		"POST":   "/todos",
		"DELETE": fmt.Sprintf("/todos/%s", todo.UUID),
	}

	for method, path := range paths {
		rr := s.do(method, path, "", 0)
		Expect(rr.Code).To(Equal(http.StatusUnauthorized), "%s %s", method, path)
	}
}

func (s *TodoHandlerSuite) TestRequestsWithGarbageTokenAreRejected() {
	req, _ := http.NewRequest("GET", "/todos", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}
