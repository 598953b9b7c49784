package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
	"github.com/goliatone/go-docbind/pkg/schema"
)

// Renderer implements render.Renderer for terminal sessions. It prompts for
// every declared variable and returns the rendered text.
type Renderer struct {
	driver        PromptDriver
	theme         Theme
	binderOptions []binder.Option
	maxAttempts   int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer using the survey driver unless another one
// is supplied.
func New(options ...Option) *Renderer {
	r := &Renderer{
		theme: Theme{ErrorPrefix: "! ", RequiredMark: " *"},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// CollectsValues marks the renderer as gathering its own values.
func (r *Renderer) CollectsValues() bool { return true }

// ContentType reports the content type of the rendered text.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prompts for each variable in declaration order. Prompts prefill
// from opts.Values, then from the variable default. Messages in opts.Errors
// are shown before the affected prompt.
func (r *Renderer) Render(ctx context.Context, tmpl model.Template, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrDriverRequired
	}

	values := make(model.Values, len(tmpl.Variables))
	for key, value := range opts.Values {
		values[key] = value
	}

	for _, variable := range tmpl.Variables {
		for _, msg := range opts.Errors[variable.Name] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return nil, err
			}
		}
		value, err := r.promptVariable(ctx, variable, prefill(values, variable))
		if err != nil {
			return nil, err
		}
		values[variable.Name] = value
	}

	if opts.OnValues != nil {
		opts.OnValues(values.Clone())
	}

	options := append(opts.BinderOptions(), r.binderOptions...)
	return []byte(binder.RenderTemplate(tmpl, values, options...)), nil
}

func prefill(values model.Values, v model.Variable) string {
	if value := values[v.Name]; strings.TrimSpace(value) != "" {
		return value
	}
	return v.Default
}

func (r *Renderer) promptVariable(ctx context.Context, v model.Variable, current string) (string, error) {
	message := r.theme.PromptPrefix + v.DisplayLabel()
	if v.Required {
		message += r.theme.RequiredMark
	}

	for attempt := 1; ; attempt++ {
		response, err := r.ask(ctx, v, message, current)
		if err != nil {
			return "", err
		}

		verr := validateOne(v, response)
		if verr == nil {
			return response, nil
		}
		for _, msg := range verr {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return "", err
			}
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return "", fmt.Errorf("tui: %s: %w", v.Name, render.ErrValidation)
		}
		current = response
	}
}

func (r *Renderer) ask(ctx context.Context, v model.Variable, message, current string) (string, error) {
	switch {
	case v.Type == model.VariableTypeTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current,
			Help:    v.Description,
		})
	case v.Type == model.VariableTypeSelect && len(v.Options) > 0:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      v.Options,
			DefaultIndex: indexOf(v.Options, current),
			Help:         v.Description,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(v.Options) {
			return "", nil
		}
		return v.Options[idx], nil
	default:
		help := v.Description
		if v.Type == model.VariableTypeDate && help == "" {
			help = "YYYY-MM-DD or DD/MM/YYYY"
		}
		return r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: current,
			Help:    help,
		})
	}
}

func validateOne(v model.Variable, value string) []string {
	verr := schema.Validate(model.Template{Variables: []model.Variable{v}}, model.Values{v.Name: value})
	if verr == nil {
		return nil
	}
	return append(verr.Fields[v.Name], verr.Form...)
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
