package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"paperhub/internal/model"
	"paperhub/internal/service"
	"paperhub/internal/storage"
)

// Multipart field names accepted for the uploaded file. questionPaper is what
// older front-end builds send.
const (
	uploadField       = "file"
	legacyUploadField = "questionPaper"
)

type uploadResponse struct {
	Success bool         `json:"success"`
	Paper   *model.Paper `json:"paper"`
}

type downloadResponse struct {
	Success       bool  `json:"success"`
	DownloadCount int64 `json:"downloadCount"`
}

type aiSearchRequest struct {
	Query string `json:"query"`
}

type aiSearchResponse struct {
	Success bool          `json:"success"`
	Papers  []model.Paper `json:"papers"`
	Query   string        `json:"query"`
	Count   int           `json:"count"`
}

// writeServiceError maps service sentinels to responses. Anything unknown is a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingFile):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "No file uploaded")
	case errors.Is(err, service.ErrInvalidFileType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "Only PDF and image files are allowed")
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "File exceeds the upload size limit")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Question paper not found")
	case errors.Is(err, service.ErrQueryRequired):
		return writeError(c, fiber.StatusBadRequest, "QUERY_REQUIRED", "Query is required")
	default:
		return writeInternal(c, err)
	}
}

// ListPapers returns the whole catalog in upload order.
// @Summary List question papers
// @Tags papers
// @Produce json
// @Success 200 {array} model.Paper
// @Router /api/papers [get]
func ListPapers(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		papers, err := svc.List(c.UserContext())
		if err != nil {
			return writeInternal(c, err)
		}
		if papers == nil {
			papers = []model.Paper{}
		}
		return c.JSON(papers)
	}
}

// GetPaper returns one record.
// @Summary Get a question paper
// @Tags papers
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} model.Paper
// @Failure 404 {object} errorPayload
// @Router /api/papers/{id} [get]
func GetPaper(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// ServePaperFile streams the stored bytes. ?preview=true serves them inline.
// It does not count a download.
// @Summary Fetch the stored file of a question paper
// @Tags papers
// @Produce application/pdf,image/jpeg,image/png
// @Param id path string true "Paper ID"
// @Param preview query bool false "Serve inline instead of as an attachment"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /api/papers/{id}/file [get]
func ServePaperFile(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, rc, err := svc.Open(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}

		disposition := "attachment"
		if c.Query("preview") == "true" {
			disposition = "inline"
		}
		name := p.OriginalFilename
		if name == "" {
			name = p.StoredFilename
		}
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{"filename": name}))
		c.Set(fiber.HeaderContentType, p.MimeType)

		// fasthttp closes rc once the body is sent.
		return c.SendStream(rc, int(p.SizeBytes))
	}
}

func formFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(uploadField)
	if err == nil {
		return fh, nil
	}
	return c.FormFile(legacyUploadField)
}

// UploadPaper accepts one multipart file plus optional metadata fields.
// @Summary Upload a question paper
// @Tags papers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF, JPEG or PNG"
// @Param title formData string false "Title"
// @Param subject formData string false "Subject"
// @Param year formData string false "Year"
// @Param semester formData string false "Semester"
// @Param university formData string false "University"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/upload [post]
func UploadPaper(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := formFile(c)
		if err != nil {
			return writeServiceError(c, service.ErrMissingFile)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		p, err := svc.Upload(c.UserContext(), service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Metadata: service.PaperMetadata{
				Title:      c.FormValue("title"),
				Subject:    c.FormValue("subject"),
				Year:       c.FormValue("year"),
				Semester:   c.FormValue("semester"),
				University: c.FormValue("university"),
			},
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(uploadResponse{Success: true, Paper: p})
	}
}

// SearchPapers applies the structured filter from the query string.
// @Summary Search question papers
// @Tags papers
// @Produce json
// @Param query query string false "Substring of title, subject or university"
// @Param subject query string false "Subject (case-insensitive)"
// @Param year query string false "Year (exact)"
// @Param semester query string false "Semester (case-insensitive)"
// @Success 200 {array} model.Paper
// @Router /api/search [get]
func SearchPapers(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		papers, err := svc.Search(c.UserContext(), service.SearchFilter{
			Text:     c.Query("query"),
			Subject:  c.Query("subject"),
			Year:     c.Query("year"),
			Semester: c.Query("semester"),
		})
		if err != nil {
			return writeInternal(c, err)
		}
		if papers == nil {
			papers = []model.Paper{}
		}
		return c.JSON(papers)
	}
}

// RecordDownload increments the download counter of a paper.
// @Summary Record a download
// @Tags papers
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} downloadResponse
// @Failure 404 {object} errorPayload
// @Router /api/download/{id} [post]
func RecordDownload(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.RecordDownload(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(downloadResponse{Success: true, DownloadCount: p.DownloadCount})
	}
}

// AISearch runs the free-text relevance filter used by the chat assistant.
// @Summary Free-text search
// @Tags papers
// @Accept json
// @Produce json
// @Param request body aiSearchRequest true "Query"
// @Success 200 {object} aiSearchResponse
// @Failure 400 {object} errorPayload
// @Router /api/ai-search [post]
func AISearch(svc service.PaperService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req aiSearchRequest
		if body := c.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "MALFORMED_REQUEST", "Malformed request body")
			}
		}

		res, err := svc.AISearch(c.UserContext(), req.Query)
		if err != nil {
			return writeServiceError(c, err)
		}
		papers := res.Papers
		if papers == nil {
			papers = []model.Paper{}
		}
		return c.JSON(aiSearchResponse{
			Success: true,
			Papers:  papers,
			Query:   res.Query,
			Count:   res.Count,
		})
	}
}

// StoredObjectRedirect sends /uploads/<name> requests to a presigned URL of the
// object store, for backends that do not keep files on local disk.
func StoredObjectRedirect(store storage.Storage, expiry time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimPrefix(c.Params("*"), "/")
		u, err := store.PresignGet(c.UserContext(), key, expiry)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidKey) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Resource not found")
			}
			return writeInternal(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}
