package server

import (
	"net/http"
	"time"

	"github.com/matst80/moment-finder/pkg/common"
	"github.com/matst80/moment-finder/pkg/config"
	"github.com/matst80/moment-finder/pkg/index"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App serves the filtering API for every configured scope.
type App struct {
	cfg      *config.Config
	catalog  *index.Catalog
	memo     *index.Memo
	sessions *Sessions
	// ViewTimeout bounds how long a request waits for a recomputation.
	ViewTimeout time.Duration
}

func NewApp(cfg *config.Config, catalog *index.Catalog, memo *index.Memo, sessions *Sessions) *App {
	return &App{
		cfg:         cfg,
		catalog:     catalog,
		memo:        memo,
		sessions:    sessions,
		ViewTimeout: 10 * time.Second,
	}
}

func (a *App) Sessions() *Sessions {
	return a.sessions
}

func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/scopes", common.JsonHandler(a.Scopes))
	mux.HandleFunc("POST /api/account", common.JsonHandler(a.SetAccount))
	mux.HandleFunc("GET /api/{scope}/moments", common.JsonHandler(a.Moments))

	mux.HandleFunc("GET /api/{scope}/filter", common.JsonHandler(a.GetFilter))
	mux.HandleFunc("PATCH /api/{scope}/filter", common.JsonHandler(a.PatchFilter))
	mux.HandleFunc("PUT /api/{scope}/filter", common.JsonHandler(a.ReplaceFilter))
	mux.HandleFunc("POST /api/{scope}/filter/reset", common.JsonHandler(a.ResetFilter))

	mux.HandleFunc("GET /api/{scope}/presets", common.JsonHandler(a.ListPresets))
	mux.HandleFunc("PUT /api/{scope}/presets/{name}", common.JsonHandler(a.SavePreset))
	mux.HandleFunc("POST /api/{scope}/presets/{name}/apply", common.JsonHandler(a.ApplyPreset))
	mux.HandleFunc("DELETE /api/{scope}/presets/{name}", common.JsonHandler(a.DeletePreset))
	return mux
}
