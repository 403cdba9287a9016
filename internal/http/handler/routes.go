package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"galleryapi/internal/http/middleware"
	"galleryapi/internal/model"
	"galleryapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin: parsing and status translation here, behavior in the services.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	rugSvc service.EntityService[*model.Rug],
	userSvc service.EntityService[*model.User],
	attSvc service.AttachmentService,
) {
	// Readiness (DB connectivity) and plain liveness.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	rugs := app.Group("/rugs")
	rugs.Get("/", ListEntities(rugSvc))
	rugs.Post("/", CreateEntity[model.Rug](rugSvc))
	rugs.Get("/:id", GetEntity(rugSvc))
	rugs.Put("/:id", UpdateEntity[model.Rug](rugSvc))
	rugs.Delete("/:id", DeleteEntity(rugSvc))

	users := app.Group("/users")
	users.Get("/", ListEntities(userSvc))
	users.Post("/", CreateEntity[model.User](userSvc))
	users.Get("/:id", GetEntity(userSvc))
	users.Put("/:id", UpdateEntity[model.User](userSvc))
	users.Put("/:id/role", UpdateUserRole(userSvc))
	users.Delete("/:id", DeleteEntity(userSvc))

	atts := app.Group("/attachments")
	atts.Get("/", ListAttachments(attSvc))
	atts.Post("/",
		middleware.FileUpload(middleware.FileRule{Field: "file", Accept: `image/.*`}),
		UploadAttachment(attSvc))
	atts.Get("/:key/url", GetAttachmentURL(attSvc))
	atts.Get("/:key", DownloadAttachment(attSvc))
	atts.Delete("/:key", DeleteAttachment(attSvc))
}
