// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gw2api/cache"
	"github.com/tomtom215/gw2api/endpoint"
	"github.com/tomtom215/gw2api/ratelimit"
)

// ============================================================================
// Test Fixtures
// ============================================================================

type testDoc struct {
	Id int `json:"id"`
}

func (testDoc) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{URL: "v2/build", Version: "v-test"}
}

type testItem struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

func (testItem) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{URL: "v2/items", Version: "v-test", LocaleAware: true, Paging: true}
}

func (i testItem) ID() int { return i.Id }

type testLegend struct {
	Id string `json:"id"`
}

func (testLegend) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{URL: "v2/legends", Version: "v-test", BulkAll: true}
}

func (l testLegend) ID() string { return l.Id }

// testPlain supports neither ids=all nor paging.
type testPlain struct {
	Id int `json:"id"`
}

func (testPlain) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{URL: "v2/colors", Version: "v-test"}
}

func (p testPlain) ID() int { return p.Id }

type testSecret struct {
	Value string `json:"value"`
}

func (testSecret) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{URL: "v2/tokeninfo", Version: "v-test", Authenticated: true}
}

// ============================================================================
// Test Server
// ============================================================================

type recordedRequest struct {
	path   string
	query  url.Values
	header http.Header
}

type recordingServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	srv      *httptest.Server
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, recordedRequest{
			path:   r.URL.Path,
			query:  r.URL.Query(),
			header: r.Header.Clone(),
		})
		rs.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(rs.srv.Close)
	return rs
}

func (rs *recordingServer) count() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.requests)
}

func (rs *recordingServer) request(i int) recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.requests[i]
}

func newTestClient(t *testing.T, rs *recordingServer, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLimiter(ratelimit.Unlimited{})}, opts...)
	c := New(Config{Host: rs.srv.URL}, opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// itemsFromQuery builds one testItem per requested id.
func itemsFromQuery(r *http.Request) []testItem {
	parts := strings.Split(r.URL.Query().Get("ids"), ",")
	items := make([]testItem, 0, len(parts))
	for _, p := range parts {
		id, _ := strconv.Atoi(p)
		items = append(items, testItem{Id: id, Name: fmt.Sprintf("Item %d", id)})
	}
	return items
}

func checkCount(t *testing.T, rs *recordingServer, want int) {
	t.Helper()
	if got := rs.count(); got != want {
		t.Errorf("Expected %d upstream requests, got %d", want, got)
	}
}

// ============================================================================
// Fixed Endpoint and Single Item
// ============================================================================

func TestGetFixedEndpoint(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, testDoc{Id: 115267})
	})
	c := newTestClient(t, rs)

	doc, err := Get[testDoc](context.Background(), c)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.Id != 115267 {
		t.Errorf("Expected build 115267, got %d", doc.Id)
	}

	req := rs.request(0)
	if req.path != "/v2/build" {
		t.Errorf("Expected path /v2/build, got %s", req.path)
	}
	if got := req.header.Get("X-Schema-Version"); got != "v-test" {
		t.Errorf("Expected schema version header, got %q", got)
	}
	if req.query.Has("lang") {
		t.Error("Expected no lang parameter on a locale-insensitive endpoint")
	}

	// Second call is served from cache.
	if _, err := Get[testDoc](context.Background(), c); err != nil {
		t.Fatalf("Second Get failed: %v", err)
	}
	checkCount(t, rs, 1)
}

func TestSingleItem(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, testItem{Id: 19721, Name: "Glob of Ectoplasm"})
	})
	c := newTestClient(t, rs)

	item, err := Single[testItem](context.Background(), c, 19721)
	if err != nil {
		t.Fatalf("Single failed: %v", err)
	}
	if item.Name != "Glob of Ectoplasm" {
		t.Errorf("Unexpected item: %+v", item)
	}

	req := rs.request(0)
	if req.path != "/v2/items/19721" {
		t.Errorf("Expected path /v2/items/19721, got %s", req.path)
	}
	if got := req.query.Get("lang"); got != "en" {
		t.Errorf("Expected lang=en, got %q", got)
	}

	cached, ok := TryGet[testItem](c, 19721)
	if !ok {
		t.Fatal("Expected TryGet to hit after Single")
	}
	if cached != item {
		t.Errorf("Expected cached item to equal fetched item")
	}

	if _, err := Single[testItem](context.Background(), c, 19721); err != nil {
		t.Fatalf("Second Single failed: %v", err)
	}
	checkCount(t, rs, 1)
}

func TestCacheExpiryTriggersRefetch(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, testItem{Id: 1, Name: "fresh"})
	})
	c := newTestClient(t, rs)
	r := c.Cached(40 * time.Millisecond)

	if _, err := Single[testItem](context.Background(), r, 1); err != nil {
		t.Fatalf("Single failed: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := Single[testItem](context.Background(), r, 1); err != nil {
		t.Fatalf("Second Single failed: %v", err)
	}

	checkCount(t, rs, 2)
}

func TestDecodeError(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	c := newTestClient(t, rs)

	_, err := Single[testItem](context.Background(), c, 1)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestAPIError(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"text": "no such id"})
	})
	c := newTestClient(t, rs)

	_, err := Single[testItem](context.Background(), c, 999)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Text != "no such id" {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}

	// Failures are not cached.
	if _, ok := TryGet[testItem](c, 999); ok {
		t.Error("Expected no cache entry after API error")
	}
}

// ============================================================================
// Coalescing and Force Mode
// ============================================================================

func TestCoalescing(t *testing.T) {
	release := make(chan struct{})
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, testItem{Id: 77474, Name: "Bough of Melandru"})
	})
	c := newTestClient(t, rs)

	const callers = 10
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []testItem
		errs   []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Single[testItem](context.Background(), c, 77474)
			mu.Lock()
			defer mu.Unlock()
			values = append(values, v)
			errs = append(errs, err)
		}()
	}

	// Give the callers time to pile onto the inflight slot, then let the
	// one upstream request finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	checkCount(t, rs, 1)
	for _, err := range errs {
		if err != nil {
			t.Fatalf("Caller failed: %v", err)
		}
	}
	for _, v := range values {
		if v != values[0] {
			t.Errorf("Expected all callers to observe the same value, got %+v and %+v", values[0], v)
		}
	}
}

func TestForcedRefresh(t *testing.T) {
	n := 0
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		n++
		writeJSON(w, testItem{Id: 19993, Name: fmt.Sprintf("rev %d", n)})
	})
	c := newTestClient(t, rs)

	first, err := Single[testItem](context.Background(), c, 19993)
	if err != nil {
		t.Fatalf("Single failed: %v", err)
	}
	if first.Name != "rev 1" {
		t.Fatalf("Unexpected first value: %+v", first)
	}

	forced, err := Single[testItem](context.Background(), c.Forced(), 19993)
	if err != nil {
		t.Fatalf("Forced Single failed: %v", err)
	}
	if forced.Name != "rev 2" {
		t.Errorf("Expected forced call to bypass the cache, got %+v", forced)
	}
	checkCount(t, rs, 2)

	// The forced result replaced the cached entry.
	cached, ok := TryGet[testItem](c, 19993)
	if !ok || cached.Name != "rev 2" {
		t.Errorf("Expected cache to hold the forced result, got %+v (ok=%v)", cached, ok)
	}

	// A plain call now hits the refreshed cache.
	if _, err := Single[testItem](context.Background(), c, 19993); err != nil {
		t.Fatalf("Single after force failed: %v", err)
	}
	checkCount(t, rs, 2)
}

func TestTryGetMissesOnForcedRequester(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, testItem{Id: 1})
	})
	c := newTestClient(t, rs)

	if _, err := Single[testItem](context.Background(), c, 1); err != nil {
		t.Fatalf("Single failed: %v", err)
	}
	if _, ok := TryGet[testItem](c.Forced(), 1); ok {
		t.Error("Expected TryGet to miss on a forced requester")
	}
}

func TestReceiveErrorWhenProducerFails(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(arrived) })
		<-release
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestClient(t, rs)

	var (
		wg         sync.WaitGroup
		err1, err2 error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err1 = Single[testItem](context.Background(), c, 5)
	}()
	<-arrived

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err2 = Single[testItem](context.Background(), c, 5)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	checkCount(t, rs, 1)

	var apiErr *APIError
	if !errors.As(err1, &apiErr) {
		t.Errorf("Expected producer to observe an API error, got %v", err1)
	}
	if !errors.Is(err2, ErrReceive) {
		t.Errorf("Expected joiner to observe ErrReceive, got %v", err2)
	}
}

// ============================================================================
// Authentication and Capability Gates
// ============================================================================

func TestAuthenticationGate(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, testSecret{Value: "ok"})
	})
	c := newTestClient(t, rs)

	_, err := Get[testSecret](context.Background(), c)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated, got %v", err)
	}
	checkCount(t, rs, 0)
}

func TestAuthenticatedRequestCarriesBearer(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, testSecret{Value: "ok"})
	})
	c := New(Config{Host: rs.srv.URL, APIKey: "test-api-key"}, WithLimiter(ratelimit.Unlimited{}))
	t.Cleanup(func() { _ = c.Close() })

	if _, err := Get[testSecret](context.Background(), c); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got := rs.request(0).header.Get("Authorization"); got != "Bearer test-api-key" {
		t.Errorf("Expected bearer header, got %q", got)
	}
}

func TestUnsupportedQueryGates(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []testPlain{})
	})
	c := newTestClient(t, rs)
	ctx := context.Background()

	if _, err := AllByPaging[testPlain, int](ctx, c); !errors.Is(err, ErrUnsupportedEndpointQuery) {
		t.Errorf("Expected ErrUnsupportedEndpointQuery from AllByPaging, got %v", err)
	}
	if _, err := AllByIdsAll[testPlain, int](ctx, c); !errors.Is(err, ErrUnsupportedEndpointQuery) {
		t.Errorf("Expected ErrUnsupportedEndpointQuery from AllByIdsAll, got %v", err)
	}
	var out []testPlain
	if _, err := Page[testPlain, int](ctx, c, 0, 200, &out); !errors.Is(err, ErrUnsupportedEndpointQuery) {
		t.Errorf("Expected ErrUnsupportedEndpointQuery from Page, got %v", err)
	}
	checkCount(t, rs, 0)
}

// ============================================================================
// Bulk Operations
// ============================================================================

func TestManyChunking(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, itemsFromQuery(r))
	})
	c := newTestClient(t, rs)

	ids := make([]int, 250)
	for i := range ids {
		ids[i] = i + 1
	}

	items, err := Many[testItem](context.Background(), c, ids)
	if err != nil {
		t.Fatalf("Many failed: %v", err)
	}
	if len(items) != 250 {
		t.Fatalf("Expected 250 items, got %d", len(items))
	}
	checkCount(t, rs, 2)

	sizes := map[int]bool{}
	for i := 0; i < rs.count(); i++ {
		req := rs.request(i)
		if got := req.query.Get("lang"); got != "en" {
			t.Errorf("Expected lang=en on bulk request, got %q", got)
		}
		sizes[len(strings.Split(req.query.Get("ids"), ","))] = true
	}
	if !sizes[200] || !sizes[50] {
		t.Errorf("Expected chunks of 200 and 50 ids, got %v", sizes)
	}

	// Every item was cached individually.
	for _, id := range []int{1, 133, 250} {
		if _, ok := TryGet[testItem](c, id); !ok {
			t.Errorf("Expected item %d to be cached", id)
		}
	}
}

func TestManyUsesCache(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("ids") {
			writeJSON(w, itemsFromQuery(r))
			return
		}
		writeJSON(w, testItem{Id: 1, Name: "Item 1"})
	})
	c := newTestClient(t, rs)

	if _, err := Single[testItem](context.Background(), c, 1); err != nil {
		t.Fatalf("Single failed: %v", err)
	}

	items, err := Many[testItem](context.Background(), c, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("Many failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	checkCount(t, rs, 2)

	if got := rs.request(1).query.Get("ids"); got != "2,3" {
		t.Errorf("Expected only uncached ids to be requested, got ids=%q", got)
	}
}

func TestManyAllCached(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, itemsFromQuery(r))
	})
	c := newTestClient(t, rs)

	if _, err := Many[testItem](context.Background(), c, []int{1, 2, 3}); err != nil {
		t.Fatalf("Many failed: %v", err)
	}
	if _, err := Many[testItem](context.Background(), c, []int{1, 2, 3}); err != nil {
		t.Fatalf("Second Many failed: %v", err)
	}
	checkCount(t, rs, 1)
}

func TestManyDuplicateIds(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, itemsFromQuery(r))
	})
	c := newTestClient(t, rs)

	items, err := Many[testItem](context.Background(), c, []int{5, 5})
	if err != nil {
		t.Fatalf("Many failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items for duplicated id, got %d", len(items))
	}
	checkCount(t, rs, 1)
	if got := rs.request(0).query.Get("ids"); got != "5" {
		t.Errorf("Expected duplicate id to be requested once, got ids=%q", got)
	}
}

func TestManyChunkFailureFailsCall(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("ids"), "250") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, itemsFromQuery(r))
	})
	c := newTestClient(t, rs)

	ids := make([]int, 250)
	for i := range ids {
		ids[i] = i + 1
	}

	_, err := Many[testItem](context.Background(), c, ids)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError from failed chunk, got %v", err)
	}
}

// ============================================================================
// Paging and All Strategies
// ============================================================================

func TestPage(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Result-Total", "450")
		items := make([]testItem, 200)
		for i := range items {
			items[i] = testItem{Id: i + 1, Name: fmt.Sprintf("Item %d", i+1)}
		}
		writeJSON(w, items)
	})
	c := newTestClient(t, rs)

	var result []testItem
	total, err := Page[testItem, int](context.Background(), c, 0, 200, &result)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if total != 450 {
		t.Errorf("Expected total 450, got %d", total)
	}
	if len(result) != 200 {
		t.Errorf("Expected 200 items, got %d", len(result))
	}

	req := rs.request(0)
	if req.query.Get("page") != "0" || req.query.Get("page_size") != "200" {
		t.Errorf("Unexpected paging query: %v", req.query)
	}

	// Page results land in the per-item cache too.
	if _, ok := TryGet[testItem](c, 17); !ok {
		t.Error("Expected paged item to be cached by id")
	}
}

func TestPageTotalDefaultsToZero(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []testItem{})
	})
	c := newTestClient(t, rs)

	var result []testItem
	total, err := Page[testItem, int](context.Background(), c, 0, 200, &result)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected total 0 without x-result-total, got %d", total)
	}
}

func TestAllByPaging(t *testing.T) {
	const total = 450
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("X-Result-Total", strconv.Itoa(total))
		start := page * 200
		n := min(200, total-start)
		items := make([]testItem, n)
		for i := range items {
			items[i] = testItem{Id: start + i + 1}
		}
		writeJSON(w, items)
	})
	c := newTestClient(t, rs)

	result, err := AllByPaging[testItem, int](context.Background(), c)
	if err != nil {
		t.Fatalf("AllByPaging failed: %v", err)
	}
	if len(result) != total {
		t.Errorf("Expected %d items, got %d", total, len(result))
	}
	checkCount(t, rs, 3)

	// The first page is page 0; the remainder continue from 1.
	var pages []string
	for i := 0; i < rs.count(); i++ {
		pages = append(pages, rs.request(i).query.Get("page"))
	}
	want := []string{"0", "1", "2"}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("Expected page sequence %v, got %v", want, pages)
			break
		}
	}
}

func TestAllByIdsAll(t *testing.T) {
	legends := []testLegend{{Id: "Legend1"}, {Id: "Legend2"}, {Id: "Legend3"}}
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Result-Total", strconv.Itoa(len(legends)))
		writeJSON(w, legends)
	})
	c := newTestClient(t, rs)

	result, err := All[testLegend, string](context.Background(), c)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 legends, got %d", len(result))
	}
	checkCount(t, rs, 1)

	if got := rs.request(0).query.Get("ids"); got != "all" {
		t.Errorf("Expected ids=all, got %q", got)
	}

	// Every legend was cached by id; a Single is served locally.
	if _, err := Single[testLegend](context.Background(), c, "Legend2"); err != nil {
		t.Fatalf("Single after All failed: %v", err)
	}
	checkCount(t, rs, 1)
}

func TestAllByRequestingIds(t *testing.T) {
	const n = 250
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("ids") {
			writeJSON(w, itemsFromQuery(r))
			return
		}
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}
		writeJSON(w, ids)
	})
	c := newTestClient(t, rs)

	// Items do not support ids=all, so All goes through the id list.
	result, err := All[testItem, int](context.Background(), c)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(result) != n {
		t.Fatalf("Expected %d items, got %d", n, len(result))
	}
	// One id-list request plus ceil(250/200) bulk requests.
	checkCount(t, rs, 3)

	// The id list itself is cached.
	if _, err := Ids[testItem, int](context.Background(), c); err != nil {
		t.Fatalf("Ids failed: %v", err)
	}
	checkCount(t, rs, 3)
}

// ============================================================================
// Locale Isolation
// ============================================================================

func TestLocaleIsolation(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		name := "Glob of Ectoplasm"
		if r.URL.Query().Get("lang") == "de" {
			name = "Ektoplasmakugel"
		}
		writeJSON(w, testItem{Id: 19721, Name: name})
	})

	store := cache.NewMemory()
	t.Cleanup(func() { _ = store.Close() })

	en := New(Config{Host: rs.srv.URL, Language: endpoint.LanguageEnglish}, WithStore(store), WithLimiter(ratelimit.Unlimited{}))
	de := New(Config{Host: rs.srv.URL, Language: endpoint.LanguageGerman}, WithStore(store), WithLimiter(ratelimit.Unlimited{}))

	enItem, err := Single[testItem](context.Background(), en, 19721)
	if err != nil {
		t.Fatalf("English Single failed: %v", err)
	}

	// Same store, different language: must not be satisfied by the English
	// entry.
	deItem, err := Single[testItem](context.Background(), de, 19721)
	if err != nil {
		t.Fatalf("German Single failed: %v", err)
	}
	checkCount(t, rs, 2)

	if enItem.Name != "Glob of Ectoplasm" || deItem.Name != "Ektoplasmakugel" {
		t.Errorf("Unexpected localized names: %q / %q", enItem.Name, deItem.Name)
	}
}
