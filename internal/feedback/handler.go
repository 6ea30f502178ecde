package feedback

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"essay-backend/internal/shared/server/respond"
)

const (
	uploadField       = "file"
	uploadKeyCtx      = "uploadKey"
	DefaultUploadSize = 10 << 20
)

// Handler wires HTTP handlers to the feedback service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultUploadSize
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the feedback routes to the root group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/api/v1/articles", h.articles)
	rg.POST("/file-upload", h.upload)
}

// articles godoc
// @Summary      Generate essay feedback
// @Accept       json
// @Produce      json
// @Param        body  body      ArticleRequest  true  "essay text"
// @Success      200   {string}  string          "model output"
// @Failure      400   {object}  respond.FlatError
// @Failure      500   {object}  respond.FlatError
// @Router       /api/v1/articles [post]
func (h *Handler) articles(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Flat(c, http.StatusBadRequest, "validation_error", ErrArticleRequired.Error(), err)
		return
	}

	text, err := h.Svc.Generate(c.Request.Context(), req.Article)
	if err != nil {
		respond.Flat(c, statusFor(err), string(KindOf(err)), ClientMessage(err), err)
		return
	}
	respond.OK(c, text)
}

// upload godoc
// @Summary      Upload an essay file and return feedback
// @Accept       multipart/form-data
// @Produce      plain
// @Param        file  formData  file  true  "essay (txt, pdf or docx)"
// @Success      200   {string}  string  "feedback text"
// @Failure      400   {string}  string
// @Failure      500   {string}  string
// @Router       /file-upload [post]
func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fh, err := c.FormFile(uploadField)
	if err != nil {
		if isTooLarge(err) {
			respond.Text(c, http.StatusRequestEntityTooLarge, "too_large", "File too large.", err)
			return
		}
		respond.Text(c, http.StatusBadRequest, "validation_error", "No file uploaded.", err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Text(c, http.StatusInternalServerError, string(KindIO), "Error reading uploaded file.", err)
		return
	}
	defer f.Close()

	res, err := h.Svc.GenerateFromUpload(c.Request.Context(), Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	})
	if res.Key != "" {
		c.Set(uploadKeyCtx, res.Key)
	}
	if err != nil {
		respond.Text(c, statusFor(err), string(KindOf(err)), ClientMessage(err), err)
		return
	}
	respond.PlainText(c, res.Feedback)
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func statusFor(err error) int {
	if KindOf(err) == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
