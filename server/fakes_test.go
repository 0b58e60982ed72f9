package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"MuseFM/config"
	"MuseFM/core/auth"
	"MuseFM/model"
	"MuseFM/repository"
)

// In-memory fakes for the repository and storage interfaces. They copy the
// not-found convention of the real implementations: (nil, nil).

type fakeUserRepo struct {
	users map[string]*model.User // keyed by id
	err   error                  // forced error for every call when set
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if r.err != nil {
		return r.err
	}
	if user.ID == "" {
		user.ID = model.NewID()
	}
	user.Email = strings.ToLower(user.Email)
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(id string, withSecrets bool) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return r.project(user, withSecrets), nil
}

func (r *fakeUserRepo) FindByEmail(email string, withSecrets bool) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	email = strings.ToLower(email)
	for _, user := range r.users {
		if user.Email == email {
			return r.project(user, withSecrets), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateRefreshToken(id, refreshToken string) error {
	if r.err != nil {
		return r.err
	}
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("no such user: %s", id)
	}
	user.RefreshToken = refreshToken
	return nil
}

func (r *fakeUserRepo) UpdateProvider(id, provider string) error {
	if r.err != nil {
		return r.err
	}
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("no such user: %s", id)
	}
	user.Provider = provider
	return nil
}

func (r *fakeUserRepo) project(user *model.User, withSecrets bool) *model.User {
	clone := *user
	if !withSecrets {
		clone.PasswordHash = ""
		clone.RefreshToken = ""
	}
	return &clone
}

type fakeAudioRepo struct {
	audios []*model.Audio
	err    error
}

func (r *fakeAudioRepo) Create(audio *model.Audio) error {
	if r.err != nil {
		return r.err
	}
	if audio.ID == "" {
		audio.ID = model.NewID()
	}
	audio.CreatedAt = time.Now()
	clone := *audio
	r.audios = append(r.audios, &clone)
	return nil
}

func (r *fakeAudioRepo) FindByID(id string) (*model.Audio, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, audio := range r.audios {
		if audio.ID == id {
			clone := *audio
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeAudioRepo) FindAll() ([]*model.Audio, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]*model.Audio{}, r.audios...), nil
}

func (r *fakeAudioRepo) FindByCategory(query string) ([]*model.Audio, error) {
	if r.err != nil {
		return nil, r.err
	}
	var matched []*model.Audio
	for _, audio := range r.audios {
		if strings.Contains(strings.ToLower(audio.Category), strings.ToLower(query)) {
			matched = append(matched, audio)
		}
	}
	return matched, nil
}

// fakeMusicRepo is safe for concurrent use, like the database-backed
// repository it stands in for.
type fakeMusicRepo struct {
	mu     sync.Mutex
	musics []*model.Music
	err    error
}

func (r *fakeMusicRepo) Create(ctx context.Context, music *model.Music) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if music.ID == "" {
		music.ID = model.NewID()
	}
	if music.Tags == nil {
		music.Tags = []string{}
	}
	music.CreatedAt = time.Now()
	clone := *music
	r.musics = append(r.musics, &clone)
	return nil
}

func (r *fakeMusicRepo) FindAll(ctx context.Context) ([]*model.Music, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Music{}, r.musics...), nil
}

func (r *fakeMusicRepo) FindByCategory(ctx context.Context, category string) ([]*model.Music, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*model.Music
	for _, music := range r.musics {
		if music.Category == category {
			matched = append(matched, music)
		}
	}
	return matched, nil
}

func (r *fakeMusicRepo) FindTrending(ctx context.Context) ([]*model.Music, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := append([]*model.Music{}, r.musics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Likes != sorted[j].Likes {
			return sorted[i].Likes > sorted[j].Likes
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted, nil
}

func (r *fakeMusicRepo) IncrementLikes(ctx context.Context, id string) (*model.Music, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, music := range r.musics {
		if music.ID == id {
			music.Likes++
			clone := *music
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeMusicRepo) Delete(ctx context.Context, id string) (*model.Music, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, music := range r.musics {
		if music.ID == id {
			r.musics = append(r.musics[:i], r.musics[i+1:]...)
			return music, nil
		}
	}
	return nil, nil
}

type fakeFavoriteRepo struct {
	favorites []*model.Favorite
	err       error
}

func (r *fakeFavoriteRepo) FindByUserID(ctx context.Context, userID string) ([]*model.Favorite, error) {
	if r.err != nil {
		return nil, r.err
	}
	var matched []*model.Favorite
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			matched = append(matched, fav)
		}
	}
	return matched, nil
}

func (r *fakeFavoriteRepo) Upsert(ctx context.Context, favorite *model.Favorite) (*model.Favorite, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.favorites {
		if existing.UserID == favorite.UserID && existing.AudioID == favorite.AudioID {
			existing.Title = favorite.Title
			existing.Category = favorite.Category
			existing.Duration = favorite.Duration
			existing.AudioURL = favorite.AudioURL
			clone := *existing
			return &clone, nil
		}
	}
	favorite.CreatedAt = time.Now()
	clone := *favorite
	r.favorites = append(r.favorites, &clone)
	return favorite, nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID, audioID string) error {
	if r.err != nil {
		return r.err
	}
	for i, fav := range r.favorites {
		if fav.UserID == userID && fav.AudioID == audioID {
			r.favorites = append(r.favorites[:i], r.favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeUploader records uploaded objects and returns deterministic URLs.
type fakeUploader struct {
	uploads []fakeUpload
	failOn  string // key substring that forces a failure
}

type fakeUpload struct {
	Key         string
	ContentType string
	Size        int64
}

func (u *fakeUploader) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if u.failOn != "" && strings.Contains(key, u.failOn) {
		return "", errors.New("storage write failed")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	u.uploads = append(u.uploads, fakeUpload{Key: key, ContentType: contentType, Size: int64(len(data))})
	return "https://cdn.test/" + key, nil
}

// testHandler bundles an APIHandler with its fakes for assertions.
type testHandler struct {
	h         *APIHandler
	users     *fakeUserRepo
	audios    *fakeAudioRepo
	musics    *fakeMusicRepo
	favorites *fakeFavoriteRepo
	uploader  *fakeUploader
	cfg       *config.Config
}

func newTestHandler() *testHandler {
	users := newFakeUserRepo()
	audios := &fakeAudioRepo{}
	musics := &fakeMusicRepo{}
	favorites := &fakeFavoriteRepo{}
	uploader := &fakeUploader{}
	cfg := &config.Config{AllowProviderSwitch: true}
	tokens := auth.NewTokenService("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)

	return &testHandler{
		h:         NewAPIHandler(users, audios, musics, favorites, uploader, tokens, cfg),
		users:     users,
		audios:    audios,
		musics:    musics,
		favorites: favorites,
		uploader:  uploader,
		cfg:       cfg,
	}
}

// doJSON posts a JSON body at a handler and decodes the envelope.
func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = strings.NewReader(string(encoded))
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a valid envelope: %v (body: %s)", err, rec.Body.String())
	}
	return rec, resp
}

// dataAsMap re-decodes the envelope data block into a map for field checks.
func dataAsMap(t *testing.T, data interface{}) map[string]interface{} {
	t.Helper()
	encoded, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("failed to re-marshal data: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(encoded, &m); err != nil {
		t.Fatalf("data is not an object: %v", err)
	}
	return m
}
