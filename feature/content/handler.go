package content

import (
	"errors"
	"strings"

	"site-sync/core/logger"
	"site-sync/core/reconcile"
	"site-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for content sync.
type Handler struct {
	service       *Service
	uploadsPrefix string
}

// NewHandler creates a new HTTP handler serving media under uploadsPrefix.
func NewHandler(service *Service, uploadsPrefix string) *Handler {
	return &Handler{service: service, uploadsPrefix: strings.Trim(uploadsPrefix, "/")}
}

// RegisterRoutes registers the content sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/status", h.HandleStatus)
	app.Get("/status/:id", h.HandlePostStatus)
	app.Post("/sync", h.HandleSync)
	app.Get("/progress", h.HandleProgress)
	app.Delete("/progress", h.HandleResetProgress)
	if h.uploadsPrefix != "" {
		app.Get("/"+h.uploadsPrefix+"/*", h.HandleMedia)
	}
}

// IsMediaPath reports whether path is served by the media route.
func (h *Handler) IsMediaPath(path string) bool {
	return h.uploadsPrefix != "" && strings.HasPrefix(path, "/"+h.uploadsPrefix+"/")
}

// HandleStatus answers the connection test.
// @Summary Connection Status
// @Description Verifies the sync key and reports schema, bucket and table counts.
// @Tags sync
// @Produce json
// @Param X-Sync-Key header string true "Shared sync key"
// @Success 200 {object} content.StatusReport "Status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Status(c.Context())
	if err != nil {
		l.Error("Status check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}

// HandlePostStatus reports whether a remote post is synced.
// @Summary Post Sync Status
// @Description Reports whether remote post :id from origin has a local counterpart and its local modified time.
// @Tags sync
// @Produce json
// @Param X-Sync-Key header string true "Shared sync key"
// @Param id path string true "Remote post id"
// @Param origin query string true "Sending site"
// @Param post_type query string false "Post type (default post)"
// @Success 200 {object} content.PostStatus "Post status"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /status/{id} [get]
func (h *Handler) HandlePostStatus(c *fiber.Ctx) error {
	origin := c.Query("origin")
	if origin == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "origin is required",
		})
	}
	l := logger.WithRayID(h.service.logger, c)

	status, err := h.service.PostStatus(c.Context(), c.Params("id"), origin, c.Query("post_type"))
	if err != nil {
		l.Error("Post status lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(status)
}

// HandleSync reconciles a batch.
// @Summary Sync Batch
// @Description Reconciles a batch of records of one kind and returns one result per record, in input order.
// @Tags sync
// @Accept json
// @Produce json
// @Param X-Sync-Key header string true "Shared sync key"
// @Param request body content.SyncBatchRequest true "Batch"
// @Success 200 {array} reconcile.SyncResult "Results"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req := h.service.NewBatch()
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}

	results, err := h.service.Sync(c.Context(), req)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, reconcile.ErrValidation) {
			status = fiber.StatusBadRequest
		}
		l.Warn("Batch rejected", zap.String("kind", string(req.Kind)), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Batch synced",
		zap.String("kind", string(req.Kind)),
		zap.Int("records", len(results)),
		zap.Int("page", req.Page),
	)
	return c.JSON(results)
}

// HandleProgress lists the ids synced so far.
// @Summary Sync Progress
// @Description Lists the remote ids synced for a kind (local ids with local=true) and the current page cursor.
// @Tags sync
// @Produce json
// @Param X-Sync-Key header string true "Shared sync key"
// @Param kind query string true "Kind (post type, attachment, user, ...)"
// @Param origin query string false "Sending site"
// @Param local query bool false "List local ids"
// @Success 200 {object} content.ProgressReport "Progress"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /progress [get]
func (h *Handler) HandleProgress(c *fiber.Ctx) error {
	kind := c.Query("kind")
	if kind == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kind is required",
		})
	}
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Progress(c.Context(), kind, c.Query("origin"), c.QueryBool("local"))
	if err != nil {
		l.Error("Progress lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}

// HandleResetProgress forgets the page cursor of a kind.
// @Summary Reset Sync Progress
// @Tags sync
// @Param X-Sync-Key header string true "Shared sync key"
// @Param kind query string true "Kind"
// @Success 204 "Reset"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /progress [delete]
func (h *Handler) HandleResetProgress(c *fiber.Ctx) error {
	kind := c.Query("kind")
	if kind == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kind is required",
		})
	}
	h.service.ResetProgress(kind)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleMedia streams a stored media object.
// @Summary Get Media
// @Description Streams a synced media file from the bucket.
// @Tags media
// @Produce octet-stream
// @Param path path string true "Object path below the uploads prefix"
// @Success 200 {file} file "Media"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /wp-content/uploads/{path} [get]
func (h *Handler) HandleMedia(c *fiber.Ctx) error {
	rel := c.Params("*")
	if rel == "" || strings.Contains(rel, "..") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	}
	key := h.uploadsPrefix + "/" + rel
	l := logger.WithRayID(h.service.logger, c)

	reader, info, err := h.service.OpenMedia(c.Context(), key)
	if err != nil {
		if storage.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "not found",
			})
		}
		l.Error("Failed to open media", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	if info.ETag != "" {
		c.Set(fiber.HeaderETag, info.ETag)
	}
	return c.SendStream(reader, int(info.Size))
}
