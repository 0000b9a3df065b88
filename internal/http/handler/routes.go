package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"paperflow/internal/http/middleware"
	"paperflow/internal/model"
	"paperflow/internal/service"
)

// changeStatusRequest is the body of PATCH /papers/:id/status.
type changeStatusRequest struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// historyResponse wraps the audit trail of one paper.
type historyResponse struct {
	Items []model.PaperHistory `json:"data"`
	Total int                  `json:"total"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers parse and validate transport concerns only; lifecycle rules live
// in the service.
func RegisterRoutes(app *fiber.App, db *sql.DB, papers service.PaperService) {
	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Submit a new paper (multipart/form-data: file, teacher_id)
	app.Post("/papers", func(c *fiber.Ctx) error {
		teacherID, err := strconv.ParseInt(c.FormValue("teacher_id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TEACHER_ID", "invalid teacher_id")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		paper, err := papers.CreatePaper(c.UserContext(), middleware.ActorFromCtx(c), service.CreatePaperInput{
			TeacherID:   teacherID,
			Filename:    fh.Filename,
			ContentType: contentTypeOf(fh.Header.Get("Content-Type")),
			Size:        fh.Size,
			Content:     f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(paper)
	})

	// Fetch the current paper record
	app.Get("/papers/:id", func(c *fiber.Ctx) error {
		id, err := paperID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		paper, err := papers.GetPaper(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(paper)
	})

	// Upload a new version (multipart/form-data: file, version)
	app.Put("/papers/:id", func(c *fiber.Ctx) error {
		id, err := paperID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		paper, err := papers.UpdatePaper(c.UserContext(), middleware.ActorFromCtx(c), id, service.UpdatePaperInput{
			Version:     c.FormValue("version"),
			Filename:    fh.Filename,
			ContentType: contentTypeOf(fh.Header.Get("Content-Type")),
			Size:        fh.Size,
			Content:     f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(paper)
	})

	// Start the review cycle (owner only, once)
	app.Post("/papers/:id/review", func(c *fiber.Ctx) error {
		id, err := paperID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		paper, err := papers.CreateReviewStatus(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(paper)
	})

	// Apply a role-gated status transition
	app.Patch("/papers/:id/status", func(c *fiber.Ctx) error {
		id, err := paperID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req changeStatusRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		paper, err := papers.ChangeStatus(c.UserContext(), middleware.ActorFromCtx(c), id, model.Status(req.Status), req.Detail)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(paper)
	})

	// Audit trail, newest first
	app.Get("/papers/:id/history", func(c *fiber.Ctx) error {
		id, err := paperID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		items, err := papers.ListHistory(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(historyResponse{Items: items, Total: len(items)})
	})

	// Presigned download URL for the stored file
	app.Get("/papers/:id/download", func(c *fiber.Ctx) error {
		id, err := paperID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := papers.DownloadURL(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	})

	// Delete paper (owner or admin); history rows cascade
	app.Delete("/papers/:id", func(c *fiber.Ctx) error {
		id, err := paperID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := papers.DeletePaper(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func paperID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func contentTypeOf(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
