package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/document"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/orchestrator"
	"github.com/goliatone/go-docbind/pkg/placeholder"
	"github.com/goliatone/go-docbind/pkg/schema"
)

type templateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Variables   int    `json:"variables"`
}

func (s *Server) openAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, s.spec)
}

func (s *Server) listTemplates(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	templates := s.orch.Catalog().List()

	out := make([]templateSummary, 0, len(templates))
	for _, tmpl := range templates {
		if category != "" && !strings.EqualFold(tmpl.Category, category) {
			continue
		}
		out = append(out, templateSummary{
			ID:          tmpl.ID,
			Name:        tmpl.Name,
			Category:    tmpl.Category,
			Description: tmpl.Description,
			Variables:   len(tmpl.Variables),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getTemplate(c echo.Context) error {
	tmpl, err := s.orch.Template(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tmpl)
}

func (s *Server) templateSchema(c echo.Context) error {
	tmpl, err := s.orch.Template(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schema.ValuesSchema(tmpl))
}

type renderRequest struct {
	Values   map[string]string `json:"values"`
	Renderer string            `json:"renderer"`
	Strict   bool              `json:"strict"`
	Defaults bool              `json:"defaults"`
	Save     bool              `json:"save"`
	Fallback string            `json:"fallback"`
	Theme    string            `json:"theme"`
	Variant  string            `json:"variant"`
}

type renderResponse struct {
	Output      string             `json:"output"`
	ContentType string             `json:"contentType"`
	Document    *document.Snapshot `json:"document,omitempty"`
}

func (s *Server) renderTemplate(c echo.Context) error {
	var req renderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	fallback, err := binder.ParseFallback(req.Fallback)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Renderer != "" && !s.orch.Registry().Has(req.Renderer) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown renderer "+strconv.Quote(req.Renderer))
	}

	result, err := s.orch.Generate(c.Request().Context(), orchestrator.Request{
		TemplateID:    c.Param("id"),
		Values:        req.Values,
		Renderer:      req.Renderer,
		Strict:        req.Strict,
		ApplyDefaults: req.Defaults,
		Save:          req.Save,
		Fallback:      fallback,
		ThemeName:     req.Theme,
		ThemeVariant:  req.Variant,
	})
	if errors.Is(err, orchestrator.ErrSaveFailed) {
		s.logger.Error().Err(err).Str("template", c.Param("id")).Msg("render succeeded but save failed")
		return c.JSON(http.StatusBadGateway, errorResponse{
			Error:  "document rendered but could not be saved",
			Output: string(result.Output),
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, renderResponse{
		Output:      string(result.Output),
		ContentType: result.ContentType,
		Document:    result.Snapshot,
	})
}

type insertRequest struct {
	Content  string `json:"content"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Syntax   string `json:"syntax"`
}

func (s *Server) insertPlaceholder(c echo.Context) error {
	var req insertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if model.CanonicalName(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	delims, err := placeholder.DelimitersFor(model.Syntax(req.Syntax))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"content": placeholder.Insert(req.Content, req.Position, req.Name, delims),
	})
}

type scanRequest struct {
	Content   string           `json:"content"`
	Syntax    string           `json:"syntax"`
	Variables []model.Variable `json:"variables"`
}

type scanResponse struct {
	Occurrences []placeholder.Occurrence `json:"occurrences"`
	Report      *placeholder.Report      `json:"report,omitempty"`
}

func (s *Server) scanPlaceholders(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	delims, err := placeholder.DelimitersFor(model.Syntax(req.Syntax))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp := scanResponse{Occurrences: placeholder.Scan(req.Content, delims)}
	if resp.Occurrences == nil {
		resp.Occurrences = []placeholder.Occurrence{}
	}
	if req.Variables != nil {
		vars := make([]model.Variable, len(req.Variables))
		for i, v := range req.Variables {
			v.Name = model.CanonicalName(v.Name)
			vars[i] = v
		}
		report := placeholder.Analyze(req.Content, vars, delims)
		resp.Report = &report
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) listDocuments(c echo.Context) error {
	if s.repo == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "document storage is disabled")
	}

	q := document.Query{TemplateID: strings.TrimSpace(c.QueryParam("templateId"))}
	var err error
	if q.Since, err = parseTimeParam(c, "since"); err != nil {
		return err
	}
	if q.Until, err = parseTimeParam(c, "until"); err != nil {
		return err
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		q.Limit = limit
	}

	snapshots, err := s.repo.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	if snapshots == nil {
		snapshots = []*document.Snapshot{}
	}
	return c.JSON(http.StatusOK, snapshots)
}

func (s *Server) getDocument(c echo.Context) error {
	if s.repo == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "document storage is disabled")
	}
	snapshot, err := s.repo.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

func parseTimeParam(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	if day, err := schema.ParseDate(raw); err == nil {
		return &day, nil
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be RFC3339 or a date")
}
