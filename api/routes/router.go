package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nmoreno/biblio-backend/api/controllers"
	"github.com/nmoreno/biblio-backend/api/middleware"
	"github.com/nmoreno/biblio-backend/internal/books"
	"github.com/nmoreno/biblio-backend/internal/lending"
	"github.com/nmoreno/biblio-backend/internal/users"
	"github.com/nmoreno/biblio-backend/pkg/config"
	"github.com/nmoreno/biblio-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	usersService users.Service,
	booksService books.Service,
	lendingService lending.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
		}))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.CreateUser(usersService, logg))
			r.Get("/", controllers.FindUserByEmail(usersService, logg))
			r.Get("/{userId}", controllers.GetUser(usersService, logg))
			r.Patch("/{userId}", controllers.UpdateUser(usersService, logg))
			r.Delete("/{userId}", controllers.DeleteUser(usersService, logg))
			r.Get("/{userId}/orders", controllers.ListUserOrders(lendingService, logg))
		})

		r.Route("/books", func(r chi.Router) {
			r.Post("/", controllers.AddBook(booksService, logg))
			r.Get("/", controllers.FindBookByISBN(booksService, logg))
			r.Get("/search", controllers.SearchBooks(booksService, logg))
			r.Get("/{bookId}", controllers.GetBook(booksService, logg))
			r.Patch("/{bookId}", controllers.UpdateBook(booksService, logg))
			r.Delete("/{bookId}", controllers.DeleteBook(booksService, logg))
		})

		r.Post("/checkout", controllers.Checkout(lendingService, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/overdue", controllers.ListOverdueOrders(lendingService, logg))
			r.Post("/{orderId}/return", controllers.ReturnOrder(lendingService, logg))
		})
		r.Get("/stats", controllers.GetStats(lendingService, logg))
	})

	return r
}
