package routes

import (
	"log/slog"
	"net/http"

	"inkwell/app/controllers"
	"inkwell/app/middleware"
	"inkwell/app/services"
	"inkwell/app/views"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options are the dependencies of the router.
type Options struct {
	Services      *services.Services
	Templates     views.Templates
	Logger        *slog.Logger
	Registry      *prometheus.Registry
	StaticDir     string
	UploadDir     string
	SecureCookies bool
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	svc := opts.Services

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Middleware())
	}
	router.Use(middleware.Sessions(svc.Auth, logger))
	router.Use(middleware.ContentTypeJSON)

	base := controllers.NewBase(opts.Templates, logger, opts.SecureCookies)
	postController := controllers.NewPostController(base, svc.Posts, svc.Comments, svc.Saves)
	commentController := controllers.NewCommentController(base, svc.Comments)
	authController := controllers.NewAuthController(base, svc.Auth)
	profileController := controllers.NewProfileController(base, svc.Users, svc.Saves)
	adminController := controllers.NewAdminController(base, svc.Admin)
	pageController := controllers.NewPageController(base)

	auth := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	// Static files and uploads
	if opts.UploadDir != "" {
		router.PathPrefix("/static/uploads/").Handler(http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}
	if opts.StaticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	if opts.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods("GET")
	}

	// Public pages
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/search/", postController.Search).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/about", pageController.About).Methods("GET")
	router.HandleFunc("/contact", pageController.Contact).Methods("GET")

	// Account
	router.HandleFunc("/register", authController.RegisterForm).Methods("GET")
	router.HandleFunc("/register", authController.Register).Methods("POST")
	router.HandleFunc("/login", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login", authController.Login).Methods("POST")
	router.Handle("/logout", auth(authController.Logout)).Methods("GET")
	router.Handle("/profile", auth(profileController.Show)).Methods("GET")
	router.Handle("/profile", auth(profileController.Update)).Methods("POST")
	router.Handle("/profile/delete-image", auth(profileController.DeleteImage)).Methods("GET")

	// Engagement
	router.Handle("/post/{id:[0-9]+}", auth(postController.Act)).Methods("POST")
	router.Handle("/post/like/{id:[0-9]+}", auth(postController.SaveAlias)).Methods("GET")
	router.Handle("/post/unlike/{id:[0-9]+}", auth(postController.UnsaveAlias)).Methods("GET")
	router.Handle("/delete/comment/{postId:[0-9]+}/{commentId:[0-9]+}", auth(commentController.Delete)).Methods("GET")

	// Post management
	router.Handle("/admin/add_post", auth(postController.New)).Methods("GET")
	router.Handle("/admin/add_post", auth(postController.Create)).Methods("POST")
	router.Handle("/admin/edit-post/{id:[0-9]+}", auth(postController.EditForm)).Methods("GET")
	router.Handle("/admin/edit-post/{id:[0-9]+}", auth(postController.Update)).Methods("POST")
	router.Handle("/admin/delete/{id:[0-9]+}", admin(postController.Delete)).Methods("GET")

	// Dashboard
	router.Handle("/admin", admin(adminController.Dashboard)).Methods("GET")
	router.Handle("/admin/posts", admin(adminController.Posts)).Methods("GET")
	router.Handle("/admin/users", admin(adminController.Users)).Methods("GET")
	router.Handle("/admin/comments", admin(adminController.Comments)).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts", postController.Index).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}/comments", commentController.List).Methods("GET")
	api.HandleFunc("/search", postController.Search).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.WantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
			return
		}
		http.NotFound(w, r)
	})

	return router
}
