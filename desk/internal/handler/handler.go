package handler

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libradesk/circulation-desk/desk/config"
	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/desk/internal/service/circulation"
	"github.com/libradesk/circulation-desk/desk/internal/service/settings"
	"github.com/libradesk/circulation-desk/desk/internal/view"
	"github.com/libradesk/circulation-desk/pkg/middleware"
	"github.com/libradesk/circulation-desk/pkg/validate"
)

// Handler owns the desk views and exposes them over HTTP. Staff views
// (queue, registry, settings) are desk-wide; member views are created
// per username on first use.
type Handler struct {
	log      *zap.Logger
	cfg      config.Config
	client   view.CirculationClient
	queue    *view.ApprovalQueue
	registry *view.LoanRegistry
	settings SettingsService
	toast    *view.Toast

	mu       sync.Mutex
	members  map[string]*view.MemberManager
	requests map[string]*view.RequestFlow
}

func New(log *zap.Logger, cfg config.Config) *Handler {
	client := circulation.NewService(log, cfg)
	return NewWithClient(log, cfg, client, settings.NewService(client, log))
}

// NewWithClient lets tests swap the remote client.
func NewWithClient(log *zap.Logger, cfg config.Config, client view.CirculationClient, settingsSvc SettingsService) *Handler {
	toast := view.NewToast(cfg.Desk.ToastTTL)
	return &Handler{
		log:      log,
		cfg:      cfg,
		client:   client,
		queue:    view.NewApprovalQueue(client, toast, cfg.Desk.PageSize, log),
		registry: view.NewLoanRegistry(client, cfg.Desk.PageSize, log),
		settings: settingsSvc,
		toast:    toast,
		members:  make(map[string]*view.MemberManager),
		requests: make(map[string]*view.RequestFlow),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", middleware.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		echomw.RequestLoggerWithConfig(middleware.RequestLoggerConfig(h.cfg.Log)),
		echomw.RequestID(),
		middleware.NewRateLimiter(apiRPS),
		middleware.SessionContext,
	)

	admin := api.Group("/admin", middleware.AdminOnly)
	admin.GET("/dashboard", h.Dashboard)

	admin.GET("/queue", h.GetQueue)
	admin.PUT("/queue/page", h.SetQueuePage)
	admin.POST("/queue/:borrowId/approve", h.RequestApprove)
	admin.POST("/queue/:borrowId/reject", h.RequestReject)
	admin.POST("/queue/confirm", h.ConfirmQueueAction)
	admin.POST("/queue/dismiss", h.DismissQueueAction)
	admin.POST("/queue/alert/dismiss", h.DismissQueueAlert)

	admin.GET("/registry", h.GetRegistry)
	admin.PUT("/registry/page", h.SetRegistryPage)

	admin.GET("/settings", h.GetSettings)
	admin.PUT("/settings", h.UpdateSettings)

	my := api.Group("/my")
	my.GET("/borrows", h.GetMemberBorrows)
	my.POST("/borrows/toggle", h.ToggleMemberBorrows)
	my.POST("/borrows/:borrowId/return", h.ReturnBorrow)
	my.POST("/borrows/:borrowId/cancel", h.CancelBorrow)
	my.POST("/borrows/:borrowId/extend", h.OpenExtend)
	my.PUT("/borrows/extend", h.SetExtendDate)
	my.POST("/borrows/extend/submit", h.SubmitExtend)
	my.DELETE("/borrows/extend", h.CloseExtend)
	my.POST("/borrows/alert/dismiss", h.DismissMemberAlert)

	my.POST("/request", h.OpenRequest)
	my.GET("/request", h.GetRequest)
	my.PUT("/request", h.SetRequestDate)
	my.POST("/request/submit", h.SubmitRequest)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Dashboard refreshes both staff views in one round trip.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return h.queue.Refresh(ctx)
	})
	gg.Go(func() error {
		return h.registry.Refresh(ctx)
	})
	if err := gg.Wait(); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"queue":    h.queue.State(),
		"registry": h.registry.State(),
	})
}

func (h *Handler) GetQueue(c echo.Context) error {
	if err := h.queue.Refresh(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.queue.State())
}

type pageRequest struct {
	Page int `json:"page" validate:"required"`
}

func (h *Handler) SetQueuePage(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.queue.SetPage(c.Request().Context(), req.Page); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.queue.State())
}

func (h *Handler) RequestApprove(c echo.Context) error {
	if err := h.queue.RequestApprove(c.Param("borrowId")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.queue.State())
}

func (h *Handler) RequestReject(c echo.Context) error {
	if err := h.queue.RequestReject(c.Param("borrowId")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.queue.State())
}

// ConfirmQueueAction executes whatever is pending behind the gate. The
// gate closes either way; failures land in the queue alert, so the
// state is returned alongside the error status.
func (h *Handler) ConfirmQueueAction(c echo.Context) error {
	if err := h.queue.Confirm(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.queue.State())
}

func (h *Handler) DismissQueueAction(c echo.Context) error {
	h.queue.Dismiss()
	return c.JSON(http.StatusOK, h.queue.State())
}

func (h *Handler) DismissQueueAlert(c echo.Context) error {
	h.queue.DismissAlert()
	return c.JSON(http.StatusOK, h.queue.State())
}

func (h *Handler) GetRegistry(c echo.Context) error {
	if err := h.registry.Refresh(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.registry.State())
}

func (h *Handler) SetRegistryPage(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.registry.SetPage(c.Request().Context(), req.Page); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.registry.State())
}

func (h *Handler) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := sessionFromEcho(c)
	if err != nil {
		return err
	}
	cfg, err := h.settings.Get(ctx, sess)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	var req model.CirculationSettings
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	sess, err := sessionFromEcho(c)
	if err != nil {
		return err
	}
	cfg, err := h.settings.Update(c.Request().Context(), sess, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}
