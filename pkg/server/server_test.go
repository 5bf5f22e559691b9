package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/moment-finder/pkg/common"
	"github.com/matst80/moment-finder/pkg/config"
	"github.com/matst80/moment-finder/pkg/index"
	"github.com/matst80/moment-finder/pkg/presets"
	"github.com/matst80/moment-finder/pkg/storage"
	"github.com/matst80/moment-finder/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []types.Moment {
	return []types.Moment{
		{Id: "1", Tier: "common", Series: 2, TeamAtMoment: "Lakers", SetName: "Base Set", SerialNumber: 5000, MomentCount: 10000},
		{Id: "2", Tier: "fandom", Series: 3, TeamAtMoment: "Celtics", SetName: "Base Set", SerialNumber: 6000, MomentCount: 10000},
		{Id: "3", Tier: "common", Series: 3, TeamAtMoment: "Lakers", SetName: "Rookie Debut", SerialNumber: 7000, MomentCount: 10000},
		{Id: "4", Tier: "common", Series: 4, TeamAtMoment: "Lakers", SetName: "Base Set", SerialNumber: 8000, MomentCount: 10000, IsLocked: true},
		{Id: "5", Tier: "rare", Series: 3, TeamAtMoment: "Lakers", SetName: "Base Set", SerialNumber: 9000, MomentCount: 10000},
	}
}

type testServer struct {
	handler  http.Handler
	catalog  *index.Catalog
	sessions *Sessions
	session  string
}

func newTestServer(t *testing.T) *testServer {
	cfg := config.Default()
	catalog := index.NewCatalog()
	catalog.Replace("alice", fixture())
	memo := index.NewMemo(16)
	sessions := NewSessions(cfg, catalog, memo, storage.NewMemoryStore())
	t.Cleanup(sessions.Close)
	app := NewApp(cfg, catalog, memo, sessions)
	app.ViewTimeout = 5 * time.Second
	return &testServer{
		handler:  app.Routes(),
		catalog:  catalog,
		sessions: sessions,
		session:  uuid.NewString(),
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: s.session})
	res := httptest.NewRecorder()
	s.handler.ServeHTTP(res, req)
	return res
}

type filterBody struct {
	State        types.StoredFilter `json:"state"`
	Query        string             `json:"query"`
	ActivePreset string             `json:"activePreset"`
	Total        int                `json:"total"`
}

func decode[V any](t *testing.T, res *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &v))
	return v
}

func TestStatelessMoments(t *testing.T) {
	s := newTestServer(t)

	body := decode[struct {
		Total   int            `json:"total"`
		Query   string         `json:"query"`
		Moments []types.Moment `json:"moments"`
		Series  []int          `json:"availableSeries"`
	}](t, s.do(t, http.MethodGet, "/api/swap/moments?account=alice&team=Lakers", ""))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "team=Lakers", body.Query)
	assert.Equal(t, []int{2, 3}, body.Series)

	excluded := decode[struct {
		Total int `json:"total"`
	}](t, s.do(t, http.MethodGet, "/api/swap/moments?account=alice&team=Lakers&exclude=3", ""))
	assert.Equal(t, 1, excluded.Total)

	all := decode[struct {
		Total int `json:"total"`
	}](t, s.do(t, http.MethodGet, "/api/collection/moments?account=alice", ""))
	assert.Equal(t, 5, all.Total, "the collection scope shows locked moments and every tier")

	res := s.do(t, http.MethodGet, "/api/nope/moments", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestSessionFilterFlow(t *testing.T) {
	s := newTestServer(t)

	account := decode[AccountResponse](t, s.do(t, http.MethodPost, "/api/account", `{"account":"alice"}`))
	assert.Equal(t, "alice", account.Account)
	assert.Equal(t, 5, account.Moments)

	f := decode[filterBody](t, s.do(t, http.MethodGet, "/api/swap/filter", ""))
	assert.Equal(t, 3, f.Total)
	assert.Equal(t, []int{2, 3}, f.State.SelectedSeries)
	assert.Equal(t, "", f.Query)

	f = decode[filterBody](t, s.do(t, http.MethodPatch, "/api/swap/filter", `{"selectedTeam":["Celtics"]}`))
	assert.Equal(t, 1, f.Total)
	assert.Equal(t, "team=Celtics", f.Query)

	res := s.do(t, http.MethodPatch, "/api/swap/filter", `{"selectedTeam":`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	f = decode[filterBody](t, s.do(t, http.MethodPost, "/api/swap/filter/reset", ""))
	assert.Equal(t, 3, f.Total)
	assert.Empty(t, f.State.SelectedTeam)

	f = decode[filterBody](t, s.do(t, http.MethodPut, "/api/swap/filter?series=3", ""))
	assert.Equal(t, 2, f.Total)
	assert.Equal(t, "series=3", f.Query)

	f = decode[filterBody](t, s.do(t, http.MethodPut, "/api/swap/filter", `{"selectedTeam":"Lakers","selectedSetName":"All"}`))
	assert.Equal(t, []string{"Lakers"}, f.State.SelectedTeam)
	assert.Equal(t, []int{3}, f.State.SelectedSeries, "fields missing from the body are kept")
	assert.Equal(t, 1, f.Total)
}

func TestPresetFlow(t *testing.T) {
	s := newTestServer(t)
	decode[AccountResponse](t, s.do(t, http.MethodPost, "/api/account", `{"account":"alice"}`))
	decode[filterBody](t, s.do(t, http.MethodPatch, "/api/swap/filter", `{"selectedTeam":["Lakers"],"currentPage":2}`))

	list := decode[[]presets.Summary](t, s.do(t, http.MethodPut, "/api/swap/presets/mine", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Name)
	assert.True(t, list[0].Active)

	f := decode[filterBody](t, s.do(t, http.MethodPost, "/api/swap/filter/reset", ""))
	assert.Empty(t, f.ActivePreset)

	f = decode[filterBody](t, s.do(t, http.MethodPost, "/api/swap/presets/mine/apply", ""))
	assert.Equal(t, "mine", f.ActivePreset)
	assert.Equal(t, []string{"Lakers"}, f.State.SelectedTeam)
	assert.Equal(t, 1, f.State.CurrentPage)
	assert.Equal(t, 2, f.Total)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/swap/presets/other/apply", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/swap/presets/%20", "").Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/swap/presets/mine", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/swap/presets/mine", "").Code)
	assert.Empty(t, decode[[]presets.Summary](t, s.do(t, http.MethodGet, "/api/swap/presets", "")))
}

func TestPresetNames(t *testing.T) {
	s := newTestServer(t)
	decode[AccountResponse](t, s.do(t, http.MethodPost, "/api/account", `{"account":"alice"}`))

	list := decode[[]presets.Summary](t, s.do(t, http.MethodPut, "/api/swap/presets/%3Cem%3ELakers%3Cem%3E%20only!", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "Lakers only", list[0].Name)

	res := s.do(t, http.MethodPut, "/api/swap/presets/lakers%20ONLY", "")
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/swap/presets/%3Cbr%3E", "").Code)
	assert.Len(t, decode[[]presets.Summary](t, s.do(t, http.MethodGet, "/api/swap/presets", "")), 1)
}

func TestCollectionReplaceSyncsSessions(t *testing.T) {
	s := newTestServer(t)
	decode[AccountResponse](t, s.do(t, http.MethodPost, "/api/account", `{"account":"alice"}`))
	f := decode[filterBody](t, s.do(t, http.MethodGet, "/api/swap/filter", ""))
	require.Equal(t, []int{2, 3}, f.State.SelectedSeries)

	moments := append(fixture(), types.Moment{Id: "6", Tier: "common", Series: 5, TeamAtMoment: "Celtics", SerialNumber: 5500, MomentCount: 10000})
	s.catalog.Replace("alice", moments)

	f = decode[filterBody](t, s.do(t, http.MethodGet, "/api/swap/filter", ""))
	assert.Equal(t, []int{2, 3, 5}, f.State.SelectedSeries)
	assert.Equal(t, 4, f.Total)

	s.catalog.Replace("bob", fixture()[:1])
	f = decode[filterBody](t, s.do(t, http.MethodGet, "/api/swap/filter", ""))
	assert.Equal(t, 4, f.Total, "other accounts do not touch the session")
}

func TestSwitchingAccountReturnsToFirstPage(t *testing.T) {
	s := newTestServer(t)
	s.catalog.Replace("bob", fixture()[:3])
	decode[AccountResponse](t, s.do(t, http.MethodPost, "/api/account", `{"account":"alice"}`))
	f := decode[filterBody](t, s.do(t, http.MethodPatch, "/api/swap/filter", `{"currentPage":3}`))
	require.Equal(t, 3, f.State.CurrentPage)
	assert.Equal(t, "page=3", f.Query)

	decode[AccountResponse](t, s.do(t, http.MethodPost, "/api/account", `{"account":"alice"}`))
	f = decode[filterBody](t, s.do(t, http.MethodGet, "/api/swap/filter", ""))
	assert.Equal(t, 3, f.State.CurrentPage, "setting the same account keeps the page")

	account := decode[AccountResponse](t, s.do(t, http.MethodPost, "/api/account", `{"account":"bob"}`))
	assert.Equal(t, 3, account.Moments)
	f = decode[filterBody](t, s.do(t, http.MethodGet, "/api/swap/filter", ""))
	assert.Equal(t, 1, f.State.CurrentPage)
	assert.Equal(t, "", f.Query)
	assert.Equal(t, 3, f.Total)
}

func TestSessionsExpire(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/swap/filter", "")
	assert.Equal(t, 1, s.sessions.Len())
	assert.Equal(t, 0, s.sessions.Expire(time.Hour))
	assert.Equal(t, 1, s.sessions.Expire(-time.Second))
	assert.Equal(t, 0, s.sessions.Len())
}

func TestHealthAndScopes(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code)
	scopes := decode[[]ScopeInfo](t, s.do(t, http.MethodGet, "/api/scopes", ""))
	require.Len(t, scopes, 2)
	assert.Equal(t, "collection", scopes[0].Name)
	assert.Equal(t, types.DefaultPageSize, scopes[1].PageSize)
}
