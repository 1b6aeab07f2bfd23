// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"

	"notesapp/internal/server/app"
	authhandler "notesapp/internal/server/http/auth"
	"notesapp/internal/server/http/middleware"
	noteshandler "notesapp/internal/server/http/notes"
	usershandler "notesapp/internal/server/http/users"
	svc "notesapp/internal/server/ports/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(
	fiberApp *fiber.App,
	authUseCase *app.AuthUseCase,
	noteUseCase *app.NoteUseCase,
	userUseCase *app.UserUseCase,
	sessionSvc svc.SessionTokenService,
	revocations svc.SessionRevocations,
	uploadDir string,
) {
	authHandler := authhandler.NewHandler(authUseCase)
	notesHandler := noteshandler.NewHandler(noteUseCase)
	usersHandler := usershandler.NewHandler(userUseCase, uploadDir)

	// Middleware для всех запросов.
	fiberApp.Use(middleware.NewLoggerMiddleware())
	fiberApp.Use(middleware.NewRecoveryMiddleware())

	requireSession := middleware.NewAuthMiddleware(sessionSvc, revocations)

	// Auth routes (публичные, кроме logout).
	authRoutes := fiberApp.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout, requireSession)

	// Профиль пользователя.
	userRoutes := fiberApp.Group("/users", requireSession)
	userRoutes.Get("/profile", usersHandler.GetProfile)
	userRoutes.Put("/profile", usersHandler.UpdateProfile)

	// Заметки. Маршруты /notes/shared должны идти раньше /notes/:note_id.
	noteRoutes := fiberApp.Group("/notes", requireSession)
	noteRoutes.Get("/", notesHandler.ListNotes)
	noteRoutes.Post("/", notesHandler.CreateNote)
	noteRoutes.Get("/shared", notesHandler.ListShared)
	noteRoutes.Put("/shared/:note_id/read", notesHandler.MarkSharedRead)
	noteRoutes.Get("/:note_id", notesHandler.GetNote)
	noteRoutes.Put("/:note_id", notesHandler.UpdateNote)
	noteRoutes.Delete("/:note_id", notesHandler.DeleteNote)
	noteRoutes.Post("/:note_id/share", notesHandler.ShareNote)

	// Загруженные аватары.
	fiberApp.Get("/uploads/*", static.New(uploadDir))

	// Обработчик для несуществующих маршрутов.
	fiberApp.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
