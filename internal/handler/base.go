package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/gastro-routes/internal/middleware"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers embed it so they can reach config, logger and database
// through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Request is satisfied by a pointer to a request struct. The pipeline
// allocates a fresh Req for every call, so no state leaks between
// requests.
type Request[Req any] interface {
	*Req
	validation.Validatable
}

// defaulter is implemented by requests that carry defaults for values the
// client may omit, such as the page size of list endpoints. Defaults are
// applied before binding so bound values win.
type defaulter interface {
	SetDefaults()
}

// ResponseHandler defines how a successful result is written and how it is
// described in logs and traces.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result any) error

	// GetOperation names the handler kind in structured logs.
	GetOperation() string

	// AddAttributes attaches New Relic attributes for this response type.
	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// PageResponseHandler renders an HTML template with the result as data.
type PageResponseHandler struct {
	status   int
	template string
}

func (h PageResponseHandler) Handle(c echo.Context, result any) error {
	return c.Render(h.status, h.template, result)
}

func (h PageResponseHandler) GetOperation() string {
	return "handler_page"
}

func (h PageResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if txn != nil {
		txn.AddAttribute("page.template", h.template)
	}
}

// handleRequest is the shared execution pipeline for all handlers.
//
// It binds and validates the request, runs the handler, writes the
// response and reports timings to the request logger and New Relic.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	// Set by the nrecho middleware when New Relic is enabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	loggerBuilder := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route)

	if pageHandler, ok := responseHandler.(PageResponseHandler); ok {
		loggerBuilder = loggerBuilder.Str("template", pageHandler.template)
	}

	logger := loggerBuilder.Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()

	if d, ok := any(req).(defaulter); ok {
		d.SetDefaults()
	}

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler with binding, validation, logging and
// tracing, and writes its result as JSON.
//
//	func (h *UserHandler) Register(c echo.Context) error {
//		return Handle(h.Handler, func(c echo.Context, req *model.RegisterUserRequest) (*model.User, error) {
//			return h.users.Register(c.Request().Context(), req)
//		}, http.StatusCreated)(c)
//	}
func Handle[Req any, PReq Request[Req], Res any](
	h Handler,
	handler func(c echo.Context, req PReq) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, PReq(new(Req)), func(c echo.Context, req PReq) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandlePage is Handle for server rendered pages. The result is passed to
// the named template.
func HandlePage[Req any, PReq Request[Req], Res any](
	h Handler,
	handler func(c echo.Context, req PReq) (Res, error),
	template string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, PReq(new(Req)), func(c echo.Context, req PReq) (any, error) {
			return handler(c, req)
		}, PageResponseHandler{status: http.StatusOK, template: template})
	}
}
