package server

import (
	"io"
	"net/http"
	"strings"

	"nbview/internal/htmlview"
	"nbview/internal/logger"
	"nbview/internal/notebook"
	"nbview/internal/source"
	"nbview/internal/termview"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	formatJSON = "json"
	formatHTML = "html"
	formatText = "text"
)

type renderAPI struct {
	maxBytes   int64
	renderOpts termview.Options
}

type renderResponse struct {
	Blocks      []notebook.Block     `json:"blocks"`
	Diagnostics notebook.Diagnostics `json:"diagnostics"`
}

func (api *renderAPI) render(ctx echo.Context) error {
	format := strings.ToLower(strings.TrimSpace(ctx.QueryParam("format")))
	if format == "" {
		format = formatJSON
	}
	switch format {
	case formatJSON, formatHTML, formatText:
	default:
		return errUnknownFormat
	}

	body, err := api.readBody(ctx.Request().Body)
	if err != nil {
		return err
	}

	blocks, diag := notebook.Inspect(body)
	if diag.Degraded() {
		log.WithField("recovery", diag.Recovery).
			WithField(logger.RequestIDField, ctx.Response().Header().Get(echo.HeaderXRequestID)).
			Debug("notebook degraded")
	}

	switch format {
	case formatHTML:
		page, err := htmlview.Page(blocks, htmlview.Options{Title: ctx.QueryParam("title")})
		if err != nil {
			return errors.Wrap(err, "render html")
		}
		return ctx.HTML(http.StatusOK, page)
	case formatText:
		plain := termview.PlainTheme()
		opts := api.renderOpts
		opts.Theme = &plain
		lines := termview.New(opts).Strings(blocks)
		return ctx.String(http.StatusOK, strings.Join(lines, "\n")+"\n")
	default:
		if blocks == nil {
			blocks = []notebook.Block{}
		}
		return ctx.JSON(http.StatusOK, renderResponse{Blocks: blocks, Diagnostics: diag})
	}
}

func (api *renderAPI) readBody(r io.Reader) ([]byte, error) {
	body, err := source.ReadLimited(r, api.maxBytes)
	if err == nil {
		return body, nil
	}
	if errors.Cause(err) == source.ErrTooLarge {
		return nil, errTooLarge
	}
	if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
		return nil, herr
	}
	return nil, errors.Wrap(err, "read request body")
}
