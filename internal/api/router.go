package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jdmurray/portfolio-backend/internal/api/handlers"
	"github.com/jdmurray/portfolio-backend/internal/api/middleware"
	"github.com/jdmurray/portfolio-backend/internal/auth"
	"github.com/jdmurray/portfolio-backend/internal/blog"
	"github.com/jdmurray/portfolio-backend/internal/cache"
	"github.com/jdmurray/portfolio-backend/internal/chatbot"
	"github.com/jdmurray/portfolio-backend/internal/config"
	"github.com/jdmurray/portfolio-backend/internal/contact"
	"github.com/jdmurray/portfolio-backend/internal/embedding"
	"github.com/jdmurray/portfolio-backend/internal/llm"
	"github.com/jdmurray/portfolio-backend/internal/polish"
	"github.com/jdmurray/portfolio-backend/internal/project"
	"github.com/jdmurray/portfolio-backend/internal/prompt"
	"github.com/jdmurray/portfolio-backend/internal/queue"
	"github.com/jdmurray/portfolio-backend/internal/resume"
	"github.com/jdmurray/portfolio-backend/internal/showcase"
	"github.com/jdmurray/portfolio-backend/internal/storage"
	"github.com/jdmurray/portfolio-backend/internal/training"
	"github.com/jdmurray/portfolio-backend/internal/vectorstore"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	llmGW llm.Gateway
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		llmGW: llm.NewGateway(cfg.LLM),
	}
}

func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	store, err := storage.NewLocalStorage(rt.cfg.Storage.UploadDir, rt.cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	contentCache := cache.NewCache(rt.redis)
	registry := prompt.NewRegistry()
	promptSvc := prompt.NewService(rt.db, registry)
	queueClient := queue.NewClient(rt.cfg.Redis)

	vs := vectorstore.NewPgVectorStore(rt.db)
	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.LLM.EmbeddingModel)

	projectSvc := project.NewService(rt.db)
	blogSvc := blog.NewService(rt.db)
	contactSvc := contact.NewService(rt.db)
	showcaseSvc := showcase.NewService(rt.db)
	resumeSvc := resume.NewService(rt.db, store)
	trainingSvc := training.NewService(rt.db, store, embedSvc, vs)

	chatbotSvc := chatbot.NewService(
		chatbot.NewPgStore(rt.db),
		rt.llmGW,
		promptSvc,
		chatbot.NewVectorRetriever(embedSvc, vs, rt.cfg.Chatbot.RetrievalTopK, rt.cfg.Chatbot.MinScore),
		training.NewGrounding(trainingSvc, resumeSvc),
		queueClient,
		chatbot.Config{
			Model:        rt.cfg.LLM.DefaultModel,
			HistoryLimit: rt.cfg.Chatbot.HistoryLimit,
		},
	)
	polishSvc := polish.NewService(rt.llmGW, registry, rt.cfg.LLM.DefaultModel)

	authSvc := auth.NewService(rt.cfg.Auth)
	adminGuard := auth.NewMiddleware(authSvc)

	projectH := handlers.NewProjectHandler(projectSvc, contentCache)
	blogH := handlers.NewBlogHandler(blogSvc)
	contactH := handlers.NewContactHandler(contactSvc)
	showcaseH := handlers.NewShowcaseHandler(showcaseSvc, contentCache)
	resumeH := handlers.NewResumeHandler(resumeSvc, rt.cfg.Auth.ResumePassword)
	chatbotH := handlers.NewChatbotHandler(chatbotSvc)
	trainingH := handlers.NewTrainingHandler(trainingSvc, queueClient)
	promptH := handlers.NewPromptHandler(promptSvc)
	polishH := handlers.NewPolishHandler(polishSvc)
	adminH := handlers.NewAdminHandler(chatbot.NewPgStore(rt.db))
	authH := handlers.NewAuthHandler(authSvc)

	chatLimiter := middleware.NewRateLimiter(1, 10)
	contactLimiter := middleware.NewRateLimiter(0.2, 3)

	// Public visitor surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/projects", projectH.ListPublic)
		r.Get("/projects/{slug}", projectH.GetBySlug)

		r.Get("/blog/series", blogH.ListSeries)
		r.Get("/blog/series/{slug}", blogH.GetSeries)
		r.Get("/blog/posts", blogH.ListPosts)
		r.Get("/blog/posts/{slug}", blogH.GetPost)

		r.Get("/carousel", showcaseH.ListCarousel)
		r.Get("/top-five", showcaseH.ListTopFive)
		r.Get("/top-five/{slug}", showcaseH.GetTopFive)

		r.Get("/resume", resumeH.Meta)
		r.Post("/resume/download", resumeH.Download)

		r.With(contactLimiter.Limit).Post("/contact", contactH.Submit)

		r.Route("/chatbot", func(r chi.Router) {
			r.With(chatLimiter.Limit).Post("/chat", chatbotH.Chat)
			r.Post("/feedback", chatbotH.Feedback)
			r.Get("/history", chatbotH.History)
		})

		// Admin surface. Login is the only unguarded admin route.
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authH.Login)

			r.Group(func(r chi.Router) {
				r.Use(adminGuard.Authenticate)

				r.Get("/projects", projectH.ListAll)
				r.Post("/projects", projectH.Create)
				r.Put("/projects/{id}", projectH.Update)
				r.Delete("/projects/{id}", projectH.Delete)

				r.Post("/blog/series", blogH.CreateSeries)
				r.Put("/blog/series/{id}", blogH.UpdateSeries)
				r.Delete("/blog/series/{id}", blogH.DeleteSeries)
				r.Get("/blog/posts", blogH.ListAllPosts)
				r.Post("/blog/posts", blogH.CreatePost)
				r.Put("/blog/posts/{id}", blogH.UpdatePost)
				r.Delete("/blog/posts/{id}", blogH.DeletePost)

				r.Post("/carousel", showcaseH.CreateCarouselImage)
				r.Put("/carousel/{id}", showcaseH.UpdateCarouselImage)
				r.Delete("/carousel/{id}", showcaseH.DeleteCarouselImage)

				r.Post("/top-five", showcaseH.CreateTopFive)
				r.Delete("/top-five/{id}", showcaseH.DeleteTopFive)
				r.Post("/top-five/{id}/items", showcaseH.AddTopFiveItem)
				r.Put("/top-five/items/{id}", showcaseH.UpdateTopFiveItem)
				r.Delete("/top-five/items/{id}", showcaseH.DeleteTopFiveItem)

				r.Get("/contact", contactH.List)
				r.Delete("/contact/{id}", contactH.Delete)

				r.Post("/resume", resumeH.Upload)
				r.Delete("/resume/{id}", resumeH.Delete)

				r.Route("/training", func(r chi.Router) {
					r.Get("/sessions", trainingH.ListSessions)
					r.Post("/sessions", trainingH.CreateSession)
					r.Put("/sessions/{id}", trainingH.UpdateSession)
					r.Delete("/sessions/{id}", trainingH.DeleteSession)

					r.Get("/documents", trainingH.ListDocuments)
					r.Post("/documents", trainingH.UploadDocument)
					r.Delete("/documents/{id}", trainingH.DeleteDocument)

					r.Get("/insights", trainingH.ListInsights)
					r.Post("/insights", trainingH.CreateInsight)
					r.Put("/insights/{id}", trainingH.UpdateInsight)
					r.Delete("/insights/{id}", trainingH.DeleteInsight)
				})

				r.Route("/prompts", func(r chi.Router) {
					r.Get("/", promptH.List)
					r.Post("/", promptH.Create)
					r.Put("/{id}", promptH.Update)
					r.Post("/{id}/activate", promptH.Activate)
					r.Delete("/{id}", promptH.Delete)
				})

				r.Route("/polish", func(r chi.Router) {
					r.Post("/review", polishH.Review)
					r.Post("/suggestions", polishH.QuickSuggestions)
					r.Post("/improve", polishH.ImproveSelection)
				})

				r.Get("/chatbot/analytics", adminH.ChatbotAnalytics)
			})
		})
	})

	return r, nil
}
