package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"github.com/genevafi/healthcheck/backend/go-services/internal/submission/service"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/metrics"
	"github.com/genevafi/healthcheck/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// GenericFailure is the only failure text clients see for upstream errors.
const GenericFailure = "Failed to submit form. Please try again."

// Service is what the routes need from the submission service.
type Service interface {
	Create(ctx context.Context, req *submission.CreateRequest) (*submission.Result, error)
	Get(ctx context.Context, id int64) (*submission.Submission, error)
}

type Options struct {
	// MaxBodyBytes caps the JSON body; 0 disables the cap.
	MaxBodyBytes int64
	// AdminAPIKey enables GET /api/submissions/:id when set.
	AdminAPIKey string
	// CreateMiddleware runs before the create handler, e.g. a rate limiter.
	CreateMiddleware []gin.HandlerFunc
}

// BodyLimitFor returns a body cap that fits a base64 document of maxDocument bytes
// plus the form fields.
func BodyLimitFor(maxDocument int64) int64 {
	return maxDocument/3*4 + 4 + 64*1024
}

func RegisterSubmissionRoutes(r gin.IRouter, svc Service, opts Options) {
	registerValidators()

	create := append(append([]gin.HandlerFunc{}, opts.CreateMiddleware...), createHandler(svc, opts.MaxBodyBytes))
	r.POST("/api/submissions", create...)

	if opts.AdminAPIKey != "" {
		admin := r.Group("/api/submissions", middleware.APIKeyMiddleware(opts.AdminAPIKey))
		admin.GET("/:id", getHandler(svc))
	}
}

func createHandler(svc Service, maxBody int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBody > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
		}
		var req submission.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				metrics.Submissions.WithLabelValues("validation_error").Inc()
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			metrics.Submissions.WithLabelValues("validation_error").Inc()
			writeValidation(c, bindErrorFields(err))
			return
		}

		res, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			var verr *submission.ValidationError
			if errors.As(err, &verr) {
				writeValidation(c, verr.Fields)
				return
			}
			code := "internal_error"
			var serr *service.StageError
			if errors.As(err, &serr) {
				code = serr.Stage
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": GenericFailure, "code": code})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func getHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		rec, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func writeValidation(c *gin.Context, fields []submission.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

// bindErrorFields turns a binding error into per-field messages keyed by JSON name.
func bindErrorFields(err error) []submission.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]submission.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, submission.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []submission.FieldError{{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}}
	}
	return []submission.FieldError{{Field: "body", Message: "must be a valid JSON object"}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

var registerOnce sync.Once

func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
