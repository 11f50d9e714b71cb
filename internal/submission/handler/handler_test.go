package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genevafi/healthcheck/backend/go-services/internal/email"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/repository"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/service"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{
  "accountantName": "Jane CPA",
  "accountantEmail": "jane@cpa.com",
  "accountantPhone": "555-0100",
  "clientEmail": "client@x.com",
  "clientPhone": "555-0200",
  "propertyType": "primary",
  "hasHelocOrLiens": "no",
  "creditCardPayments": "300",
  "autoLoans": "250",
  "studentLoans": "300",
  "totalMonthlyDebt": "850",
  "goalLowerPayment": true,
  "goalPayOffDebt": true,
  "goalAccessEquity": false,
  "goalShortenTerm": false,
  "goalOther": false
}`

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T, svc Service, opts Options) *gin.Engine {
	t.Helper()
	g := gin.New()
	RegisterSubmissionRoutes(g, svc, opts)
	return g
}

func realService() (*service.Service, *repository.MemoryRepo) {
	repo := repository.NewMemoryRepo()
	return service.New(repo, nil, email.LogNotifier{}, service.Options{Recipient: "officer@example.com", RecomputeTotal: true}), repo
}

func post(g *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	return w
}

func withField(t *testing.T, key string, value any) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(validBody), &m))
	if value == nil {
		delete(m, key)
	} else {
		m[key] = value
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}

type validationResponse struct {
	Error  string                  `json:"error"`
	Fields []submission.FieldError `json:"fields"`
}

func TestCreate_Success(t *testing.T) {
	svc, repo := realService()
	g := newRouter(t, svc, Options{})

	w := post(g, validBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res submission.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, int64(1), res.SubmissionID)
	assert.True(t, res.EmailSent)
	assert.Equal(t, 1, repo.Len())
}

func TestCreate_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing accountant name", withField(t, "accountantName", nil), "accountantName"},
		{"blank accountant phone", withField(t, "accountantPhone", "   "), "accountantPhone"},
		{"bad client email", withField(t, "clientEmail", "not-an-email"), "clientEmail"},
		{"unknown property type", withField(t, "propertyType", "vacation"), "propertyType"},
		{"bad heloc flag", withField(t, "hasHelocOrLiens", "maybe"), "hasHelocOrLiens"},
		{"missing total", withField(t, "totalMonthlyDebt", nil), "totalMonthlyDebt"},
		{"missing goal flag", withField(t, "goalShortenTerm", nil), "goalShortenTerm"},
		{"goal flag wrong type", withField(t, "goalOther", "yes"), "goalOther"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := realService()
			g := newRouter(t, svc, Options{})

			w := post(g, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var res validationResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, "validation failed", res.Error)
			require.NotEmpty(t, res.Fields)
			assert.Equal(t, tc.field, res.Fields[0].Field)
			assert.Zero(t, repo.Len())
		})
	}
}

func TestCreate_EmptyTotalIsAccepted(t *testing.T) {
	svc, _ := realService()
	g := newRouter(t, svc, Options{})
	w := post(g, withField(t, "totalMonthlyDebt", ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCreate_MalformedJSON(t *testing.T) {
	svc, _ := realService()
	g := newRouter(t, svc, Options{})
	w := post(g, `{"accountantName":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var res validationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "body", res.Fields[0].Field)
}

func TestCreate_BodyTooLarge(t *testing.T) {
	svc, repo := realService()
	g := newRouter(t, svc, Options{MaxBodyBytes: 256})
	w := post(g, withField(t, "mortgageStatementData", strings.Repeat("A", 1024)))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, repo.Len())
}

type stubService struct {
	err error
}

func (s stubService) Create(context.Context, *submission.CreateRequest) (*submission.Result, error) {
	return nil, s.err
}

func (s stubService) Get(context.Context, int64) (*submission.Submission, error) {
	return nil, s.err
}

func TestCreate_UpstreamFailure(t *testing.T) {
	cases := map[string]struct {
		err  error
		code string
	}{
		"upload":  {&service.StageError{Stage: service.StageUpload, Err: errors.New("s3 down")}, "upload_failed"},
		"persist": {&service.StageError{Stage: service.StagePersist, Err: errors.New("db down")}, "persist_failed"},
		"status":  {&service.StageError{Stage: service.StageStatusUpdate, Err: errors.New("db down")}, "status_update_failed"},
		"other":   {errors.New("boom"), "internal_error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			g := newRouter(t, stubService{err: tc.err}, Options{})
			w := post(g, validBody)
			require.Equal(t, http.StatusInternalServerError, w.Code)

			var res map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, GenericFailure, res["error"])
			assert.Equal(t, tc.code, res["code"])
			assert.NotContains(t, w.Body.String(), "down")
			assert.NotContains(t, res, "submissionId")
		})
	}
}

func TestCreate_ServiceValidationError(t *testing.T) {
	g := newRouter(t, stubService{err: submission.NewValidationError("mortgageStatementData", "must be base64 encoded")}, Options{})
	w := post(g, validBody)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mortgageStatementData")
}

func TestGet_AdminRoute(t *testing.T) {
	svc, _ := realService()

	g := newRouter(t, svc, Options{})
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/submissions/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "route absent without admin key")

	g = newRouter(t, svc, Options{AdminAPIKey: "s3cret"})
	require.Equal(t, http.StatusOK, post(g, validBody).Code)

	get := func(path, key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set(middleware.APIKeyHeader, key)
		}
		g.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, get("/api/submissions/1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/api/submissions/1", "wrong").Code)
	assert.Equal(t, http.StatusBadRequest, get("/api/submissions/abc", "s3cret").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/submissions/99", "s3cret").Code)

	w = get("/api/submissions/1", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	var rec submission.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "client@x.com", rec.ClientEmail)
	assert.Equal(t, "850.00", rec.TotalMonthlyDebt)
}

func TestCreate_RunsCreateMiddleware(t *testing.T) {
	svc, repo := realService()
	blocked := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	g := newRouter(t, svc, Options{CreateMiddleware: []gin.HandlerFunc{blocked}})
	w := post(g, validBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Zero(t, repo.Len())
}

func TestBodyLimitFor(t *testing.T) {
	assert.Greater(t, BodyLimitFor(10*1024*1024), int64(10*1024*1024*4/3))
}
