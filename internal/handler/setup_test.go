package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/hylur/internal/config"
	"github.com/xxxsen/hylur/internal/filestore"
	"github.com/xxxsen/hylur/internal/handler"
	"github.com/xxxsen/hylur/internal/knowledge"
	"github.com/xxxsen/hylur/internal/knowledge/knowledgetest"
	"github.com/xxxsen/hylur/internal/middleware"
	"github.com/xxxsen/hylur/internal/service"
	"github.com/xxxsen/hylur/internal/service/servicetest"
)

const maxUpload = 1024

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, nil
}

type testEnv struct {
	router    http.Handler
	knowledge *knowledgetest.MemoryStore
	generator *fakeGenerator
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files, err := filestore.New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)

	kb := &knowledgetest.MemoryStore{}
	gen := &fakeGenerator{reply: "Here is **what** you have."}
	jwtSecret := []byte("test-secret")

	authService := service.NewAuthService(servicetest.NewUsers(), jwtSecret, time.Hour, true)
	documentService := service.NewDocumentService(servicetest.NewDocuments(), files, maxUpload)
	tableService := service.NewDataTableService(servicetest.NewDataTables())
	linkService := service.NewWebLinkService(&servicetest.WebLinks{})
	chatService := service.NewChatService(knowledge.NewAssembler(kb), gen, time.Minute)

	deps := handler.RouterDeps{
		Auth:          handler.NewAuthHandler(authService),
		Documents:     handler.NewDocumentHandler(documentService, maxUpload),
		DataTables:    handler.NewDataTableHandler(tableService),
		WebLinks:      handler.NewWebLinkHandler(linkService),
		Search:        handler.NewSearchHandler(knowledge.NewSearcher(kb)),
		Chat:          handler.NewChatHandler(chatService),
		Dashboard:     handler.NewDashboardHandler(knowledge.NewDashboard(kb, kb)),
		JWTSecret:     jwtSecret,
		ChatRateLimit: time.Minute,
	}
	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return &testEnv{router: engine, knowledge: kb, generator: gen}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) envelope {
	t.Helper()
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var out envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

// register creates an account and returns its token and user id.
func (e *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()
	out := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "name": "Tester",
	})
	require.Zero(t, out.Code, out.Msg)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, data.User.ID
}
