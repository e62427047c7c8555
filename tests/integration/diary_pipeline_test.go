package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeah-diary/diary-backend/internal/auth"
	"github.com/yeah-diary/diary-backend/internal/diary/domain"
	diaryhttp "github.com/yeah-diary/diary-backend/internal/diary/http"
	"github.com/yeah-diary/diary-backend/internal/diary/service"
	"github.com/yeah-diary/diary-backend/internal/imagegen"
	"github.com/yeah-diary/diary-backend/internal/media"
	"github.com/yeah-diary/diary-backend/internal/sessions"
	"github.com/yeah-diary/diary-backend/internal/translate"
)

const cookieName = "diary_session"

// memStore is an in-memory stand-in for the Firestore repository.
type memStore struct {
	mu      sync.Mutex
	seq     int
	entries map[string]*domain.DiaryEntry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]*domain.DiaryEntry)}
}

func (s *memStore) Save(ctx context.Context, entry *domain.DiaryEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("entry-%d", s.seq)
	cp := *entry
	cp.ID = id
	s.entries[id] = &cp
	return id, nil
}

func (s *memStore) ListByAuthor(ctx context.Context, authorID string) ([]domain.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DiaryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.AuthorID == authorID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type memOrphans struct{}

func (memOrphans) Add(ctx context.Context, assetKey string) error { return nil }

// upstreams bundles the three stubbed external services with call
// counters.
type upstreams struct {
	translateCalls int32
	generateCalls  int32
	uploadCalls    int32
	deleteCalls    int32

	generateFails bool

	translateSrv *httptest.Server
	generateSrv  *httptest.Server
	mediaSrv     *httptest.Server
}

func newUpstreams(t *testing.T) *upstreams {
	t.Helper()
	u := &upstreams{}

	translations := map[string]string{
		"散歩":       "A Walk",
		"公園で犬を見た": "I saw a dog in the park",
	}

	u.translateSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&u.translateCalls, 1)
		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]string{"translated_text": translations[req.Text]})
	}))
	t.Cleanup(u.translateSrv.Close)

	u.generateSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&u.generateCalls, 1)
		if u.generateFails {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"message": "model overloaded"}`))
			return
		}
		w.Write([]byte(`{"data": [{"url": "https://gen.example.com/tmp/abc.png"}]}`))
	}))
	t.Cleanup(u.generateSrv.Close)

	u.mediaSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			atomic.AddInt32(&u.deleteCalls, 1)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		atomic.AddInt32(&u.uploadCalls, 1)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"secure_url": "https://cdn.example.com/diary/abc.png", "public_id": "diary/abc"}`))
	}))
	t.Cleanup(u.mediaSrv.Close)

	return u
}

func (u *upstreams) totalCalls() int32 {
	return atomic.LoadInt32(&u.translateCalls) +
		atomic.LoadInt32(&u.generateCalls) +
		atomic.LoadInt32(&u.uploadCalls)
}

type testEnv struct {
	router   *gin.Engine
	store    *memStore
	sessions *sessions.Store
	up       *upstreams
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	up := newUpstreams(t)
	store := newMemStore()
	sessionStore := sessions.NewStore(redisClient, time.Hour)

	translator := translate.NewClient(up.translateSrv.URL, "test-key", 5*time.Second)
	generator := imagegen.NewClient(up.generateSrv.URL, "test-key", imagegen.Options{
		Model: "image-alpha-001",
		Size:  "1024x1024",
	})
	mediaClient := media.NewClient(up.mediaSrv.URL, "test-key", 5*time.Second)

	pipeline := service.NewPipeline(translator, generator, mediaClient, store, memOrphans{}, service.PipelineConfig{
		SourceLang:   "ja",
		TargetLang:   "en",
		UploadPreset: "yeah-diary-ver2",
	})

	r := gin.New()
	api := r.Group("/api")
	diaryGroup := api.Group("/diary")
	diaryGroup.Use(auth.RequireSession(sessionStore, cookieName))
	diaryhttp.Register(diaryGroup, diaryhttp.NewHandler(pipeline, store, mediaClient))

	return &testEnv{router: r, store: store, sessions: sessionStore, up: up}
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := e.sessions.Create(context.Background(), sessions.Session{UserID: "user-1", Username: "hanako"})
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: token}
}

func (e *testEnv) postDiary(t *testing.T, cookie *http.Cookie, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/diary", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestCreateDiary_FullPipeline(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)

	w := env.postDiary(t, cookie, map[string]string{
		"title":   "散歩",
		"content": "公園で犬を見た",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Diary domain.DiaryEntry `json:"diary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "A Walk", resp.Diary.Translate.Title)
	assert.Equal(t, "I saw a dog in the park", resp.Diary.Translate.Content)
	assert.Equal(t, "https://cdn.example.com/diary/abc.png", resp.Diary.Image.HostedURL)
	assert.NotEmpty(t, resp.Diary.Image.ID)

	assert.Equal(t, 1, env.store.count())
	assert.EqualValues(t, 2, env.up.translateCalls)
	assert.EqualValues(t, 1, env.up.generateCalls)
	assert.EqualValues(t, 1, env.up.uploadCalls)
}

func TestCreateDiary_GenerationFailure(t *testing.T) {
	env := setupEnv(t)
	env.up.generateFails = true
	cookie := env.login(t)

	w := env.postDiary(t, cookie, map[string]string{
		"title":   "散歩",
		"content": "公園で犬を見た",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "image generation")

	assert.Equal(t, 0, env.store.count())
	assert.EqualValues(t, 0, env.up.uploadCalls)
}

func TestCreateDiary_InvalidInput(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)

	w := env.postDiary(t, cookie, map[string]string{
		"title":   "",
		"content": "x",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)

	assert.Equal(t, 0, env.store.count())
	// Rejected before any upstream call was made.
	assert.EqualValues(t, 0, env.up.totalCalls())
}

func TestCreateDiary_Unauthenticated(t *testing.T) {
	env := setupEnv(t)

	w := env.postDiary(t, nil, map[string]string{
		"title":   "散歩",
		"content": "公園で犬を見た",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)
	assert.Equal(t, 0, env.store.count())
	assert.EqualValues(t, 0, env.up.totalCalls())
}

func TestListAndDeleteDiary(t *testing.T) {
	env := setupEnv(t)
	cookie := env.login(t)

	created := env.postDiary(t, cookie, map[string]string{
		"title":   "散歩",
		"content": "公園で犬を見た",
	})
	require.Equal(t, http.StatusOK, created.Code)

	var createResp struct {
		Diary domain.DiaryEntry `json:"diary"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	// List returns the entry.
	req := httptest.NewRequest(http.MethodGet, "/api/diary", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A Walk")

	// Delete removes the entry and releases the hosted asset.
	req = httptest.NewRequest(http.MethodDelete, "/api/diary/"+createResp.Diary.ID, nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 0, env.store.count())
	assert.EqualValues(t, 1, env.up.deleteCalls)
}
