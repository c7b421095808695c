package http

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	apierrors "moviepulse/internal/errors"
)

// WelcomeMessage is the heading of the home page
const WelcomeMessage = "Welcome to the IMDb Dataset API!"

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        img { max-width: 100%; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <ul>
    {{- range .Links}}
        <li><a href="{{.Href}}">{{.Href}}</a> {{.Text}}</li>
    {{- end}}
    </ul>
    {{- if .ChartURL}}
    <h2>Average rating by genre</h2>
    <img src="{{.ChartURL}}" alt="Average rating by genre">
    {{- end}}
</body>
</html>
`))

type homeLink struct {
	Href string
	Text string
}

type homePage struct {
	Title    string
	ChartURL string
	Links    []homeLink
}

var homeLinks = []homeLink{
	{Href: "/data", Text: "all cleaned rows"},
	{Href: "/data/sample", Text: "first rows"},
	{Href: "/data/summary", Text: "average rating per genre"},
	{Href: "/data/columns", Text: "column types"},
	{Href: "/data/summary.xlsx", Text: "summary workbook"},
	{Href: "/api/health", Text: "health"},
}

// HomeHandler serves the HTML welcome page
type HomeHandler struct {
	service      DatasetServiceInterface
	chartURL     string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHomeHandler creates the welcome page handler. The chart is embedded
// from chartURL when the dataset has one.
func NewHomeHandler(service DatasetServiceInterface, chartURL string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HomeHandler {
	return &HomeHandler{
		service:      service,
		chartURL:     chartURL,
		logger:       logger.With(slog.String("component", "home_handler")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP handles GET /
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := homePage{
		Title: WelcomeMessage,
		Links: homeLinks,
	}
	if _, err := h.service.Chart(r.Context()); err == nil {
		page.ChartURL = h.chartURL
	}

	var buf bytes.Buffer
	if err := homeTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render home page",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
