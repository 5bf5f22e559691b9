package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/matst80/moment-finder/pkg/common"
	"github.com/matst80/moment-finder/pkg/common/jsoncompat"
	"github.com/matst80/moment-finder/pkg/filter"
	"github.com/matst80/moment-finder/pkg/index"
	"github.com/matst80/moment-finder/pkg/presets"
	"github.com/matst80/moment-finder/pkg/query"
	"github.com/matst80/moment-finder/pkg/types"
)

const maxBodySize = 1 << 20

type MomentsResponse struct {
	*index.View
	Total int    `json:"total"`
	Query string `json:"query"`
}

type FilterResponse struct {
	State        types.FilterState `json:"state"`
	Query        string            `json:"query"`
	ActivePreset string            `json:"activePreset,omitempty"`
	Generation   uint64            `json:"generation"`
	View         *index.View       `json:"view,omitempty"`
	Total        int               `json:"total"`
}

type AccountRequest struct {
	Account string `json:"account"`
}

type AccountResponse struct {
	Account string `json:"account"`
	Moments int    `json:"moments"`
}

type ScopeInfo struct {
	Name          string          `json:"name"`
	ShowLocked    bool            `json:"showLocked"`
	AllowAllTiers bool            `json:"allowAllTiers"`
	ForceSort     types.SortOrder `json:"forceSort,omitempty"`
	PageSize      int             `json:"pageSize"`
}

func splitIds(raw string) []string {
	ret := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ret = append(ret, id)
		}
	}
	return ret
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, "failed to read body")
	}
	return data, nil
}

func (a *App) scope(r *http.Request, sessionId string) (*ScopeSession, error) {
	name := r.PathValue("scope")
	sc, ok := a.sessions.Scope(sessionId, name)
	if !ok {
		return nil, common.NewHttpError(http.StatusNotFound, "unknown scope %s", name)
	}
	return sc, nil
}

func (a *App) filterResponse(ctx context.Context, sc *ScopeSession) (*FilterResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, a.ViewTimeout)
	defer cancel()
	view, err := sc.View(ctx)
	if err != nil {
		return nil, common.NewHttpError(http.StatusServiceUnavailable, "view not ready: %v", err)
	}
	store := sc.Filter()
	state := store.State()
	series, _ := store.Available()
	ret := &FilterResponse{
		State:      state,
		Query:      query.EncodeString(state, store.Defaults(), series),
		Generation: sc.Generation(),
		View:       view,
		Total:      len(view.Eligible()),
	}
	if p := sc.Presets(); p != nil {
		ret.ActivePreset = p.Active()
	}
	return ret, nil
}

func (a *App) Scopes(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	names := a.cfg.ScopeNames()
	ret := make([]ScopeInfo, 0, len(names))
	for _, name := range names {
		s, _ := a.cfg.Scope(name)
		ret = append(ret, ScopeInfo{
			Name:          name,
			ShowLocked:    s.ShowLocked,
			AllowAllTiers: s.AllowAllTiers,
			ForceSort:     s.ForceSort,
			PageSize:      a.cfg.FilterContext(s).EffectivePageSize(),
		})
	}
	return ret, nil
}

// Moments evaluates a query string without touching the session. The
// account, exclude and selected parameters feed the filter context.
func (a *App) Moments(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	name := r.PathValue("scope")
	scope, ok := a.cfg.Scope(name)
	if !ok {
		return nil, common.NewHttpError(http.StatusNotFound, "unknown scope %s", name)
	}
	values := r.URL.Query()
	col := a.catalog.Get(values.Get("account"))
	fc := a.cfg.FilterContext(scope)
	if exclude := splitIds(values.Get("exclude")); len(exclude) > 0 {
		fc.ExcludeIds = types.IdSet(exclude...)
	}
	if selected := splitIds(values.Get("selected")); len(selected) > 0 {
		fc.SelectedIds = types.IdSet(selected...)
	}

	defaults := scopeDefaults(a.cfg, name, col)
	f := query.Decode(values, defaults)
	view := a.memo.View(r.Context(), col, &f, fc)
	return &MomentsResponse{
		View:  view,
		Total: len(view.Eligible()),
		Query: query.EncodeString(f, defaults, defaults.Series.Values()),
	}, nil
}

func (a *App) GetFilter(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	sc, err := a.scope(r, sessionId)
	if err != nil {
		return nil, err
	}
	return a.filterResponse(r.Context(), sc)
}

func (a *App) PatchFilter(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	sc, err := a.scope(r, sessionId)
	if err != nil {
		return nil, err
	}
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	p := &filter.Patch{}
	if err = jsoncompat.Unmarshal(data, p); err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, "invalid patch: %v", err)
	}
	sc.Filter().Patch(p)
	return a.filterResponse(r.Context(), sc)
}

// ReplaceFilter loads the state from the query string when there is one,
// otherwise from a JSON body which may use the older scalar format.
func (a *App) ReplaceFilter(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	sc, err := a.scope(r, sessionId)
	if err != nil {
		return nil, err
	}
	store := sc.Filter()
	if r.URL.RawQuery != "" {
		store.Load(query.Decode(r.URL.Query(), store.Defaults()))
		return a.filterResponse(r.Context(), sc)
	}
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	if _, err = store.LoadJSON(data, true); err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, "invalid filter: %v", err)
	}
	return a.filterResponse(r.Context(), sc)
}

func (a *App) ResetFilter(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	sc, err := a.scope(r, sessionId)
	if err != nil {
		return nil, err
	}
	sc.Filter().Reset()
	return a.filterResponse(r.Context(), sc)
}

func (a *App) SetAccount(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	req := AccountRequest{}
	if err = jsoncompat.Unmarshal(data, &req); err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, "invalid account request: %v", err)
	}
	sess := a.sessions.SetAccount(sessionId, strings.TrimSpace(req.Account))
	account := sess.Account()
	return &AccountResponse{
		Account: account,
		Moments: a.catalog.Get(account).Len(),
	}, nil
}

func (a *App) presets(r *http.Request, sessionId string) (*ScopeSession, *presets.Store, error) {
	sc, err := a.scope(r, sessionId)
	if err != nil {
		return nil, nil, err
	}
	p := sc.Presets()
	if p == nil {
		return nil, nil, common.NewHttpError(http.StatusServiceUnavailable, "presets not loaded")
	}
	return sc, p, nil
}

func (a *App) ListPresets(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	_, p, err := a.presets(r, sessionId)
	if err != nil {
		return nil, err
	}
	return p.List(), nil
}

// SavePreset stores the live filter state of the scope under the name.
func (a *App) SavePreset(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	sc, p, err := a.presets(r, sessionId)
	if err != nil {
		return nil, err
	}
	if err = p.Save(r.PathValue("name"), sc.Filter().State()); err != nil {
		switch {
		case errors.Is(err, presets.ErrInvalidName):
			return nil, common.NewHttpError(http.StatusBadRequest, "%v", err)
		case errors.Is(err, presets.ErrNameExists):
			return nil, common.NewHttpError(http.StatusConflict, "%v", err)
		}
		return nil, err
	}
	return p.List(), nil
}

func (a *App) ApplyPreset(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	sc, p, err := a.presets(r, sessionId)
	if err != nil {
		return nil, err
	}
	name := r.PathValue("name")
	f, ok := p.Apply(name, sc.Filter().State())
	if !ok {
		return nil, common.NewHttpError(http.StatusNotFound, "no preset named %s", name)
	}
	sc.Filter().Load(f)
	return a.filterResponse(r.Context(), sc)
}

func (a *App) DeletePreset(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	_, p, err := a.presets(r, sessionId)
	if err != nil {
		return nil, err
	}
	name := r.PathValue("name")
	if !p.Delete(name) {
		return nil, common.NewHttpError(http.StatusNotFound, "no preset named %s", name)
	}
	return nil, nil
}
