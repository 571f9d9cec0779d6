// Package httpapi — публичная HTTP/JSON-поверхность: каталог и мастер записи.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hugo050303/barber-saas/internal/config"
	"github.com/hugo050303/barber-saas/internal/scheduling"
	"github.com/hugo050303/barber-saas/internal/service"
)

type handler struct {
	wizard *service.WizardService
	log    *zap.Logger
}

// NewRouter регистрирует маршруты /api/public.
func NewRouter(wizard *service.WizardService, cfg config.PublicConfig, log *zap.Logger) *gin.Engine {
	log = log.With(zap.String("component", "http"))

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), corsMiddleware(cfg.AllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handler{wizard: wizard, log: log}

	public := r.Group("/api/public")
	public.Use(rateLimit(cfg.RatePerMin, log))
	{
		public.GET("/catalog", h.catalog)
		public.POST("/wizard", h.start)
		public.GET("/wizard/:id", h.get)
		public.GET("/wizard/:id/times", h.times)
		public.PUT("/wizard/:id/selection", h.selection)
		public.PUT("/wizard/:id/schedule", h.schedule)
		public.POST("/wizard/:id/back", h.back)
		public.POST("/wizard/:id/submit", h.submit)
		public.POST("/wizard/:id/restart", h.restart)
	}

	return r
}

func (h *handler) catalog(c *gin.Context) {
	cat, err := h.wizard.Catalog(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *handler) start(c *gin.Context) {
	st, err := h.wizard.Start(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *handler) get(c *gin.Context) {
	st, err := h.wizard.Get(c.Request.Context(), c.Param("id"))
	h.reply(c, st, err)
}

func (h *handler) times(c *gin.Context) {
	times, err := h.wizard.SuggestTimes(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "times": times})
}

func (h *handler) selection(c *gin.Context) {
	var in struct {
		ProviderID string `json:"providerId"`
		ServiceID  string `json:"serviceId"`
	}
	if !h.bind(c, &in) {
		return
	}
	st, err := h.wizard.ChooseSelection(c.Request.Context(), c.Param("id"), in.ProviderID, in.ServiceID)
	h.reply(c, st, err)
}

func (h *handler) schedule(c *gin.Context) {
	var in struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if !h.bind(c, &in) {
		return
	}
	st, err := h.wizard.ChooseSchedule(c.Request.Context(), c.Param("id"), in.Date, in.Time)
	h.reply(c, st, err)
}

func (h *handler) back(c *gin.Context) {
	st, err := h.wizard.Back(c.Request.Context(), c.Param("id"))
	h.reply(c, st, err)
}

func (h *handler) submit(c *gin.Context) {
	var in struct {
		ClientName  string `json:"clientName"`
		ClientPhone string `json:"clientPhone"`
	}
	if !h.bind(c, &in) {
		return
	}
	st, err := h.wizard.Submit(c.Request.Context(), c.Param("id"), in.ClientName, in.ClientPhone)
	h.reply(c, st, err)
}

func (h *handler) restart(c *gin.Context) {
	st, err := h.wizard.Restart(c.Request.Context(), c.Param("id"))
	h.reply(c, st, err)
}

func (h *handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return false
	}
	return true
}

func (h *handler) reply(c *gin.Context, st *service.WizardState, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// fail: Validation → 400, NotFound → 404, Store → 503.
func (h *handler) fail(c *gin.Context, err error) {
	var ve *scheduling.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason, "field": ve.Field})
	case scheduling.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case scheduling.IsStore(err):
		h.log.Error("store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.log.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
