package handlers

import (
	"connector-service/internal/middleware"
	"connector-service/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "connector_posts_created_total",
			Help: "Total number of posts created",
		},
	)

	postReactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_post_reactions_total",
			Help: "Total number of likes, unlikes and comments",
		},
		[]string{"kind"},
	)
)

var textRules = []middleware.Rule{
	middleware.Required("text", "text is required"),
}

type PostHandler struct {
	postService *service.PostService
	opts        Options
}

func NewPostHandler(postService *service.PostService, opts Options) *PostHandler {
	return &PostHandler{
		postService: postService,
		opts:        opts,
	}
}

func (h *PostHandler) RegisterRoutes(app *fiber.App) {
	postGroup := app.Group("/api/posts", h.opts.auth())

	postGroup.Get("/", h.ListPosts)
	postGroup.Post("/", h.CreatePost, middleware.Validate(textRules...))
	postGroup.Get("/:id", h.GetPost)
	postGroup.Delete("/:id", h.DeletePost)

	postGroup.Put("/like/:id", h.LikePost)
	postGroup.Put("/unlike/:id", h.UnlikePost)

	postGroup.Post("/comment/:id", h.AddComment, middleware.Validate(textRules...))
	postGroup.Delete("/comment/:id/:comment_id", h.DeleteComment)
}

func (h *PostHandler) CreatePost(c fiber.Ctx) error {
	body := middleware.RequestFrom(c).Body

	ctx, cancel := h.opts.context()
	defer cancel()

	post, err := h.postService.Create(ctx, middleware.IdentityFrom(c), body.String("text"))
	if err != nil {
		return err
	}

	postsCreated.Inc()
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) ListPosts(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	posts, err := h.postService.All(ctx)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) GetPost(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	post, err := h.postService.Load(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// DeletePost removes a post owned by the caller.
func (h *PostHandler) DeletePost(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	post, err := h.postService.Load(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	if err := middleware.Authorize(middleware.IdentityFrom(c), post, middleware.ActionDeletePost); err != nil {
		return err
	}

	if err := h.postService.Delete(ctx, post); err != nil {
		return err
	}
	return message(c, "post deleted")
}

func (h *PostHandler) LikePost(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	post, err := h.postService.Load(ctx, c.Params("id"))
	if err != nil {
		return err
	}

	likes, err := h.postService.Like(ctx, middleware.IdentityFrom(c), post)
	if err != nil {
		return err
	}

	postReactions.WithLabelValues("like").Inc()
	return c.Status(fiber.StatusOK).JSON(likes)
}

func (h *PostHandler) UnlikePost(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	post, err := h.postService.Load(ctx, c.Params("id"))
	if err != nil {
		return err
	}

	likes, err := h.postService.Unlike(ctx, middleware.IdentityFrom(c), post)
	if err != nil {
		return err
	}

	postReactions.WithLabelValues("unlike").Inc()
	return c.Status(fiber.StatusOK).JSON(likes)
}

func (h *PostHandler) AddComment(c fiber.Ctx) error {
	body := middleware.RequestFrom(c).Body

	ctx, cancel := h.opts.context()
	defer cancel()

	post, err := h.postService.Load(ctx, c.Params("id"))
	if err != nil {
		return err
	}

	comments, err := h.postService.Comment(ctx, middleware.IdentityFrom(c), post, body.String("text"))
	if err != nil {
		return err
	}

	postReactions.WithLabelValues("comment").Inc()
	return c.Status(fiber.StatusOK).JSON(comments)
}

// DeleteComment lets the comment author or the post owner remove a comment.
func (h *PostHandler) DeleteComment(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	target, err := h.postService.LoadComment(ctx, c.Params("id"), c.Params("comment_id"))
	if err != nil {
		return err
	}
	if err := middleware.Authorize(middleware.IdentityFrom(c), target, middleware.ActionDeleteComment); err != nil {
		return err
	}

	comments, err := h.postService.DeleteComment(ctx, target)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}
